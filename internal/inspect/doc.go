// Package inspect builds the description of the property editor for the
// selected node and checks property values entered there.
//
// Each PropertyType maps to a Handler in a Table; adding a property type
// means adding a table entry, not a branch.
package inspect
