package libdiff

import "fmt"

type Op int

const (
	Insert Op = iota
	Delete
	Replace
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	}
	return fmt.Sprintf("<op %d>", int(o))
}

func (o Op) MarshalText() ([]byte, error) {
	switch o {
	case Insert, Delete, Replace:
		return []byte(o.String()), nil
	}
	return nil, fmt.Errorf("%d is not an op", int(o))
}

// Symbol is the one character prefix used when printing a change.
func (o Op) Symbol() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	}
	return "~"
}
