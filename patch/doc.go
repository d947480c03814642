// Package patch applies JSON Patch (RFC 6902) and JSON Merge Patch
// (RFC 7386) documents to a state tree.
//
// Patches are applied through the node operations, so they must run
// inside a transaction and they preserve structural sharing: only the
// paths a patch touches are copied.
//
//	err := st.Mutate(func(root *state.Node) error {
//	    _, err := patch.Apply(root, doc)
//	    return err
//	})
package patch
