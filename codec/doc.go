// Package codec reads and writes state documents as JSON or YAML.
//
// Decoding yields plain Go values (map[string]any, []any and scalars) or,
// through DecodeNode, a committed state tree. Encoding takes a node or a
// plain value and writes it with sorted Map keys, optionally colored for
// a terminal:
//
//	err := codec.Encode(os.Stdout, root,
//	    codec.EncodeFormat(format.JSONFormat),
//	    codec.EncodeColors(codec.NewColors()))
package codec
