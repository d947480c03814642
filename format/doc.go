// Package format names the text formats state documents are read and
// written in.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//
// # Related Packages
//
//   - github.com/tianjianchn/stas/codec - Decode and encode documents
package format
