// Package launcher defines the value types shared by the launcher engine:
// modes, entities, queries, matches and result sets.
//
// Every type here is immutable after construction. A catalog refresh replaces
// whole entity sets instead of mutating entities, and a Match borrows its
// Entity from the catalog snapshot it was ranked against.
package launcher
