// Package state provides persistent Map and List nodes for application
// state trees.
//
// # Overview
//
// A state tree is a Map or List node whose entries are scalars (nil,
// bool, numbers, strings) or further nodes. Committed trees are never
// modified: every write happens inside a transaction and produces new
// nodes only along the path that changed, sharing every untouched
// subtree with the previous snapshot. Two snapshots can therefore be
// compared cheaply by node identity.
//
// # Transactions
//
// A TxContext is the slot a transaction holds while it runs. Begin
// claims it and End releases it:
//
//	ctx := state.NewTxContext()
//	tx, err := ctx.Begin(nil)
//	if err != nil {
//	    return err
//	}
//	defer tx.End()
//	root, _ := tx.Clone(committed)
//	root.Set(state.P("todos", 0, "done"), true)
//
// Nodes created or cloned while tx is live carry a reference to it. Only
// such nodes accept writes; writing into a committed node, or into a node
// whose transaction has ended, fails with ErrNotInTransaction. A node is
// cloned at most once per transaction; further writes edit the clone in
// place. Dirty reports whether a clone has received a write, and the store
// package commits a transaction only when its root clone is dirty.
//
// # Paths
//
// Operations take a path: a single key, a Path, or a slice of keys. Keys
// are strings or numbers. Map keys are stored as strings. List keys must
// be numeric (numeric strings are accepted) and negative indices count
// from the end. ParsePath reads kinded path text such as "todos[0].title"
// and Match expands wildcards like "todos[*].done".
//
// # Writes
//
// Set stores a value, creating empty Maps for missing intermediate keys.
// The value may be an Updater, which receives the current value (cloned
// into the transaction when it is a node) and returns the new one:
//
//	root.Set("todos", func(old any) any {
//	    l := old.(*state.Node)
//	    l.Push(map[string]any{"title": "write docs"})
//	    return l
//	})
//
// Remove deletes an entry, Merge and MergeDeep combine a node with another
// value, and Push, Pop, Shift and Unshift edit Lists. Select clones a
// whole path into the transaction for direct editing. A write that would
// not change anything leaves the tree untouched.
//
// # Projections
//
// ToJSON returns the plain map[string]any / []any form of a node. The
// projection is cached per node, so repeated calls on an unchanged
// snapshot return the same value and a new snapshot only rebuilds the
// projections along the changed paths.
package state
