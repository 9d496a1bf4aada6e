// Package config holds menuscan's runtime configuration: validation
// bounds, report options, dataset paths, and the YAML config file that
// carries defaults for them.
package config
