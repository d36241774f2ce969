package bulge

import (
	"strconv"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

// Kind is the structural role of an element.
type Kind int

const (
	// Stem is a maximal run of stacked base pairs.
	Stem Kind = iota
	// Hairpin is the unpaired run closed by a single stem.
	Hairpin
	// Interior is an interior loop or bulge between two stacked stems. One
	// of its two strands may be empty.
	Interior
	// Multiloop is one unpaired leg between two stems that are not stacked
	// on each other. It may have zero length.
	Multiloop
	// FivePrime is the unpaired run before the first paired position of a
	// chain.
	FivePrime
	// ThreePrime is the unpaired run after the last paired position of a
	// chain.
	ThreePrime
)

var kindLetters = [...]byte{'s', 'h', 'i', 'm', 'f', 't'}

var kindNames = [...]string{"stem", "hairpin", "interior", "multiloop", "fiveprime", "threeprime"}

// Kinds lists every kind in canonical order.
var Kinds = []Kind{Stem, Hairpin, Interior, Multiloop, FivePrime, ThreePrime}

// Letter returns the one-letter tag used in element names and element
// strings.
func (k Kind) Letter() byte {
	if k < 0 || int(k) >= len(kindLetters) {
		return '?'
	}
	return kindLetters[k]
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsLoop reports whether k is an unpaired kind.
func (k Kind) IsLoop() bool { return k != Stem }

// KindFromLetter parses a one-letter kind tag.
func KindFromLetter(c byte) (Kind, error) {
	for i, l := range kindLetters {
		if l == c {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidFormat, "unknown element kind %q", c)
}

// ElementID addresses an element of a [Graph]. IDs are dense, start at 0
// and follow the canonical element order: by kind, then by number.
type ElementID int

// Element is one node of the element graph.
//
// Define holds the boundary positions: four for a stem ([a, b, c, d], a..b
// pairs with d..c), two per non-empty strand for loops, and none for
// zero-length elements.
type Element struct {
	ID     ElementID
	Kind   Kind
	Number int
	Define []int
}

// Name returns the conventional element name such as "s0" or "m3".
func (e Element) Name() string { return elementName(e.Kind, e.Number) }

func elementName(k Kind, n int) string {
	return string(k.Letter()) + strconv.Itoa(n)
}

// ParseName splits an element name into kind and number.
func ParseName(name string) (Kind, int, error) {
	if len(name) < 2 {
		return 0, 0, errors.New(errors.ErrCodeInvalidFormat, "invalid element name %q", name)
	}
	k, err := KindFromLetter(name[0])
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidFormat, "invalid element name %q", name)
	}
	return k, n, nil
}

// Info is a free-form key/value annotation carried through the text format.
type Info struct {
	Key   string
	Value string
}
