// Package query evaluates expr-lang expressions over the entries of a
// state node.
//
// An expression sees three variables:
//
//   - value: the entry, projected to plain values when it is a node
//   - key: the Map key (a string) or List index (an int)
//   - collection: the projection of the node being queried
//
// and one function, kind(v), which names the shape of v as one of "map",
// "list", "string", "number", "bool" or "null".
//
// Predicates are compiled with [Compile] and used with [Query.Filter];
// projections are compiled with [CompileSelect] and used with
// [Query.Select].
package query
