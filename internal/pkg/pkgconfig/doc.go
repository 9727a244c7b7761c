// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Application code depends on the Config interface; the Viper implementation
// reads a YAML file, applies defaults and lets environment variables override
// any key (prefix + upper-cased key with dots replaced by underscores).
package pkgconfig
