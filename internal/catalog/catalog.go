// Package catalog implements the catalog list engine: a predicate filter, a comparator
// sort and a pager layered over one explicit view state.
//
// Data flows one way: source set -> filtered set -> sorted set -> visible page.
// Changing the query or the category recomputes everything from the source set and
// resets the page; changing the sort key re-sorts the working set and keeps the page;
// changing the page only re-slices.
//
// Every function in this package is pure. State values are never modified in place;
// transitions return a new State that shares no mutable slices with the old one.
package catalog

// DefaultPageSize is the number of records shown per catalog page.
const DefaultPageSize = 12

// CategoryAll disables the genre predicate.
const CategoryAll = "all"
