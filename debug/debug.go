package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Tx    bool
	Path  bool
	Merge bool
	Patch bool
	Query bool
}

var d *debug

func init() {
	d = &debug{}
	d.Tx = boolEnv("STAS_DEBUG_TX")
	d.Path = boolEnv("STAS_DEBUG_PATH")
	d.Merge = boolEnv("STAS_DEBUG_MERGE")
	d.Patch = boolEnv("STAS_DEBUG_PATCH")
	d.Query = boolEnv("STAS_DEBUG_QUERY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Tx() bool {
	return d.Tx
}
func Path() bool {
	return d.Path
}
func Merge() bool {
	return d.Merge
}
func Patch() bool {
	return d.Patch
}
func Query() bool {
	return d.Query
}
