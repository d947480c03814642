package state

import "fmt"

// Kind tags a Node as a keyed Map or an indexed List.
type Kind int

const (
	MapKind Kind = iota
	ListKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		MapKind:  "Map",
		ListKind: "List",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for _, kk := range Kinds() {
		if kk.String() == string(d) {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("unrecognized kind %q, want one of %v", d, Kinds())
}

// Kinds lists every Kind a Node can have.
func Kinds() []Kind {
	return []Kind{MapKind, ListKind}
}
