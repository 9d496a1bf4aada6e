// Package validator implements the integrity constraint engine: a fixed,
// ordered battery of relational checks evaluated against an immutable
// snapshot of the menu dataset. Each constraint is independent and
// read-only; constraints may run concurrently, but results always come
// back in catalog order.
package validator
