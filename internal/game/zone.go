package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/klondike/klondike"
)

// ZoneKind identifies which family of piles a zone belongs to.
type ZoneKind uint8

const (
	ZoneStock ZoneKind = iota
	ZoneWaste
	ZoneFoundation
	ZoneTableau
)

const (
	NumFoundations = klondike.NumSuits
	NumTableaus    = 7
)

// AnyFoundation as a foundation index means "the foundation for the moved
// card's suit". Game resolves it before validation.
const AnyFoundation = -1

func (k ZoneKind) String() string {
	switch k {
	case ZoneStock:
		return "stock"
	case ZoneWaste:
		return "waste"
	case ZoneFoundation:
		return "foundation"
	case ZoneTableau:
		return "tableau"
	default:
		return "unknown"
	}
}

// Zone addresses one pile on the board. Index is only meaningful for
// foundations (0-3) and tableau columns (0-6).
type Zone struct {
	Kind  ZoneKind
	Index int
}

var (
	StockZone = Zone{Kind: ZoneStock}
	WasteZone = Zone{Kind: ZoneWaste}
)

// FoundationZone addresses foundation i (0-based, suit order)
func FoundationZone(i int) Zone {
	return Zone{Kind: ZoneFoundation, Index: i}
}

// TableauZone addresses tableau column i (0-based)
func TableauZone(i int) Zone {
	return Zone{Kind: ZoneTableau, Index: i}
}

// Valid reports whether the zone exists on a board
func (z Zone) Valid() bool {
	switch z.Kind {
	case ZoneStock, ZoneWaste:
		return true
	case ZoneFoundation:
		return z.Index >= 0 && z.Index < NumFoundations
	case ZoneTableau:
		return z.Index >= 0 && z.Index < NumTableaus
	default:
		return false
	}
}

// String returns the short notation: stock, waste, f1-f4 (or f), t1-t7
func (z Zone) String() string {
	switch z.Kind {
	case ZoneStock:
		return "stock"
	case ZoneWaste:
		return "waste"
	case ZoneFoundation:
		if z.Index == AnyFoundation {
			return "f"
		}
		return "f" + strconv.Itoa(z.Index+1)
	case ZoneTableau:
		return "t" + strconv.Itoa(z.Index+1)
	default:
		return "?"
	}
}

// ParseZone parses zone notation. Indices are 1-based on input.
func ParseZone(s string) (Zone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "s", "stock":
		return StockZone, nil
	case "w", "waste":
		return WasteZone, nil
	case "f", "foundation":
		return FoundationZone(AnyFoundation), nil
	}

	if len(s) < 2 {
		return Zone{}, fmt.Errorf("invalid zone: %q", s)
	}

	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return Zone{}, fmt.Errorf("invalid zone index in %q", s)
	}

	var z Zone
	switch s[0] {
	case 'f':
		z = FoundationZone(n - 1)
	case 't':
		z = TableauZone(n - 1)
	default:
		return Zone{}, fmt.Errorf("invalid zone: %q", s)
	}
	if !z.Valid() {
		return Zone{}, fmt.Errorf("zone out of range: %q", s)
	}
	return z, nil
}

// MarshalText implements encoding.TextMarshaler
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (z *Zone) UnmarshalText(text []byte) error {
	parsed, err := ParseZone(string(text))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}
