// Package app wires the catalog, the designer engine and the HTTP surface
// (health, metrics, socket.io) into a runnable service. It is decoupled from
// any specific entrypoint like a CLI.
package app
