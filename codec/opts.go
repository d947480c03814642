package codec

import "github.com/tianjianchn/stas/format"

type EncodeOption func(*encState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *encState) { es.format = f }
}

// EncodeColors colors the output with c. A nil c leaves it plain.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *encState) { es.colors = c }
}

// EncodeIndent sets the indent width. JSON with an indent of 0 is
// written on one line.
func EncodeIndent(n int) EncodeOption {
	return func(es *encState) { es.indent = max(n, 0) }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &encState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}
