// Package vid defines the Memory id type shared by core, stack and planner,
// kept in its own package so none of them need to import each other just
// for this one type.
package vid

// ID addresses a single Element in Memory. Ids are dense, monotone, and
// assigned starting at 0; once assigned an id never moves or changes.
type ID int
