// Package libdiff computes the differences between two state trees.
//
// Diff walks both trees together. Subtrees that are the same node in both
// are skipped without being visited, so diffing two snapshots of a store
// costs time proportional to what changed between them rather than to
// the size of the state.
//
// Map keys and List elements are aligned with a sequence diff, so an
// element inserted at the front of a List is reported as one insertion
// rather than as a change to every element after it. String leaves that
// change carry a character level diff.
//
// MergePatch renders the difference as an RFC 7386 JSON merge patch.
package libdiff
