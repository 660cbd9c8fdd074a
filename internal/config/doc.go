// Package config defines the contract between the application and the
// format-specific manifest loaders. Every loader translates its own file
// format into the format-agnostic model.Catalog; Load walks the configured
// paths and hands each file to the loader that claims its extension.
package config
