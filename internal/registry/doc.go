// Package registry holds the module catalog of a running application: the
// palette entries, their categories and the port-layout variants of every
// module.
//
// The registry is populated once at startup, from the manifests embedded in
// the binary and from any manifest paths the user configures, and is then
// validated. After that it is read-only. Variant lookups go through a
// Resolver, which resolves asynchronously, collapses concurrent lookups for
// the same module and degrades to an empty variant list on failure.
package registry
