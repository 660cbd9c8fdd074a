// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags into the application's internal configuration and
// dispatches to the serve, catalog and probe commands.
package cli
