// Package model defines the data structures shared across menuscan:
// the four dataset tables, the immutable snapshot that holds them, and
// the structured validation results produced by the constraint engine.
package model
