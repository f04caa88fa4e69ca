// Package episode provides episode identifiers and the episode-range algebra
// used to describe which episodes of a show a release covers.
package episode

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// Type is the kind of an episode. Normal sorts are always MainStory.
type Type int

const (
	MainStory Type = iota
	SP
	OP
	ED
	PV
	MAD
	OVA
	OAD
	Movie
)

func (t Type) String() string {
	switch t {
	case SP:
		return "SP"
	case OP:
		return "OP"
	case ED:
		return "ED"
	case PV:
		return "PV"
	case MAD:
		return "MAD"
	case OVA:
		return "OVA"
	case OAD:
		return "OAD"
	case Movie:
		return "Movie"
	default:
		return "EP"
	}
}

// typePrefixes is checked in order, so longer prefixes sharing a first
// letter come first.
var typePrefixes = []struct {
	prefix string
	typ    Type
}{
	{"MOVIE", Movie},
	{"OVA", OVA},
	{"OAD", OAD},
	{"MAD", MAD},
	{"SP", SP},
	{"OP", OP},
	{"ED", ED},
	{"PV", PV},
}

// Sort identifies a single episode. It is either Normal, carrying a number
// that may be a half-integer "partial" episode (12.5), or Special, carrying
// a Type and an optional number used for loose numeric matching.
//
// Sort is comparable and safe to use as a map key. The zero value is
// Normal(0).
type Sort struct {
	special  bool
	typ      Type
	number   float64
	numbered bool // only meaningful for special sorts
}

// Normal returns a main-story episode with the given number. NaN is
// folded to 0 so every Sort equals itself.
func Normal(n float64) Sort {
	if n == 0 || math.IsNaN(n) {
		n = 0 // also folds -0
	}
	return Sort{number: n}
}

// NormalInt returns a main-story episode with an integer number.
func NormalInt(n int) Sort {
	return Normal(float64(n))
}

// Special returns a numbered special episode such as SP1 or OVA2.
// A NaN number gives the unnumbered special.
func Special(t Type, n float64) Sort {
	if math.IsNaN(n) {
		return SpecialUnnumbered(t)
	}
	if n == 0 {
		n = 0
	}
	return Sort{special: true, typ: t, number: n, numbered: true}
}

// SpecialUnnumbered returns a special episode without a number.
func SpecialUnnumbered(t Type) Sort {
	return Sort{special: true, typ: t}
}

// ParseSort parses an episode identifier. Plain decimals ("05", "12.5")
// become Normal sorts, known prefixes ("SP1", "OVA", "EP03") become the
// matching kind, and anything else becomes an unnumbered SP. It never fails.
func ParseSort(raw string) Sort {
	s := strings.TrimSpace(raw)
	if n, ok := parseNumber(s); ok {
		return Normal(n)
	}

	upper := strings.ToUpper(s)
	if rest, ok := strings.CutPrefix(upper, "EP"); ok {
		if n, ok := parseNumber(trimSeparators(rest)); ok {
			return Normal(n)
		}
	}

	for _, p := range typePrefixes {
		rest, ok := strings.CutPrefix(upper, p.prefix)
		if !ok {
			continue
		}
		rest = trimSeparators(rest)
		if rest == "" {
			return SpecialUnnumbered(p.typ)
		}
		if n, ok := parseNumber(rest); ok {
			return Special(p.typ, n)
		}
		return SpecialUnnumbered(p.typ)
	}

	return SpecialUnnumbered(SP)
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func trimSeparators(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), ".-_ ")
}

// IsNormal reports whether s is a main-story episode.
func (s Sort) IsNormal() bool { return !s.special }

// IsSpecial reports whether s is a special episode.
func (s Sort) IsSpecial() bool { return s.special }

// IsPartial reports whether s is a Normal episode ending in .5.
func (s Sort) IsPartial() bool {
	if s.special {
		return false
	}
	_, frac := math.Modf(s.number)
	return math.Abs(frac) == 0.5
}

// Type returns the episode kind.
func (s Sort) Type() Type { return s.typ }

// Number returns the episode number. Unnumbered specials report false.
func (s Sort) Number() (float64, bool) {
	if s.special && !s.numbered {
		return 0, false
	}
	return s.number, true
}

// Compare orders sorts: all Normal sorts before Special ones, Normal sorts
// by number, Special sorts by type then number with unnumbered first.
func Compare(a, b Sort) int {
	if a.special != b.special {
		if a.special {
			return 1
		}
		return -1
	}
	if !a.special {
		return cmp.Compare(a.number, b.number)
	}
	if c := cmp.Compare(a.typ, b.typ); c != 0 {
		return c
	}
	if a.numbered != b.numbered {
		if a.numbered {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.number, b.number)
}

// Less reports whether s orders before other.
func (s Sort) Less(other Sort) bool { return Compare(s, other) < 0 }

// Hash returns a deterministic hash consistent with ==.
func (s Sort) Hash() uint64 {
	h := fnv.New64a()
	var buf [11]byte
	if s.special {
		buf[0] = 1
	}
	buf[1] = byte(s.typ)
	bits := math.Float64bits(s.number)
	for i := range 8 {
		buf[2+i] = byte(bits >> (8 * i))
	}
	if s.numbered {
		buf[10] = 1
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func (s Sort) String() string {
	if !s.special {
		return formatNumber(s.number)
	}
	if !s.numbered {
		return s.typ.String()
	}
	if s.number == math.Trunc(s.number) {
		return fmt.Sprintf("%s%d", s.typ, int64(s.number))
	}
	return s.typ.String() + strconv.FormatFloat(s.number, 'f', -1, 64)
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) {
		return fmt.Sprintf("%02d", int64(n))
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
