package episode

import (
	"iter"
	"strconv"
	"strings"
)

// Range is a set of episodes: a single episode, a contiguous span, a union
// of ranges, or a whole season whose episodes are unknown. Values are
// immutable.
//
// The concrete types are Single, Span, Combined and Season, plus an
// internal empty value reachable through Empty and Combine. Compare ranges
// with Equal, never with ==, since different shapes may hold the same
// episodes.
type Range interface {
	// Known reports whether the episodes in the range can be enumerated.
	// It is false only for Season.
	Known() bool

	// IsEmpty reports whether the range certainly holds no episodes.
	IsEmpty() bool

	// KnownSorts returns the episodes the range is known to contain, in
	// construction order. Combined ranges are not deduplicated. Each call
	// returns a fresh iterator.
	KnownSorts() iter.Seq[Sort]

	String() string

	isRange()
}

// UnknownSeasonNumber is the raw season number of a season whose number is
// not known.
const UnknownSeasonNumber = -1

type emptyRange struct{}

func (emptyRange) Known() bool { return true }
func (emptyRange) IsEmpty() bool { return true }
func (emptyRange) String() string {
	return "EpisodeRange(empty)"
}
func (emptyRange) isRange() {}

func (emptyRange) KnownSorts() iter.Seq[Sort] {
	return func(func(Sort) bool) {}
}

// Single is exactly one episode.
type Single struct {
	value Sort
}

// Value returns the episode.
func (r Single) Value() Sort { return r.value }

func (Single) Known() bool { return true }
func (Single) IsEmpty() bool { return false }
func (r Single) String() string { return r.value.String() + ".." + r.value.String() }
func (Single) isRange() {}

func (r Single) KnownSorts() iter.Seq[Sort] {
	return func(yield func(Sort) bool) {
		yield(r.value)
	}
}

// Span is the inclusive run of episodes from start to end. A span whose
// end is before its start is constructible and reports IsEmpty.
type Span struct {
	start Sort
	end   Sort
}

// Start returns the first episode of the span.
func (r Span) Start() Sort { return r.start }

// End returns the last episode of the span.
func (r Span) End() Sort { return r.end }

func (Span) Known() bool { return true }
func (Span) isRange() {}

// IsEmpty is true only when both ends are Normal and end < start. Spans
// touching a Special sort are never considered empty.
func (r Span) IsEmpty() bool {
	if r.start.IsNormal() && r.end.IsNormal() {
		return r.end.number < r.start.number
	}
	return false
}

func (r Span) String() string { return r.start.String() + ".." + r.end.String() }

// KnownSorts walks Normal spans one episode at a time. A partial start
// (12.5) steps half an episode first. The end is always the last value
// yielded. Spans with a Special end yield just start and end.
func (r Span) KnownSorts() iter.Seq[Sort] {
	return func(yield func(Sort) bool) {
		if !r.start.IsNormal() || !r.end.IsNormal() {
			if !yield(r.start) {
				return
			}
			yield(r.end)
			return
		}

		curr := r.start.number
		if r.start.IsPartial() {
			if !yield(r.start) {
				return
			}
			curr += 0.5
		}
		for curr < r.end.number {
			if !yield(Normal(curr)) {
				return
			}
			// Past 2^53 adding one no longer moves the float.
			next := curr + 1
			if next <= curr {
				break
			}
			curr = next
		}
		yield(Normal(r.end.number))
	}
}

// Combined is the union of two ranges. Build it with Combine, which avoids
// creating nodes for empty or equal operands. Missing operands of the zero
// value read as empty.
type Combined struct {
	first  Range
	second Range
}

// First returns the left operand.
func (r Combined) First() Range { return r.first }

// Second returns the right operand.
func (r Combined) Second() Range { return r.second }

func (Combined) Known() bool { return true }
func (Combined) isRange() {}

func (r Combined) IsEmpty() bool { return OrEmpty(r.first).IsEmpty() && OrEmpty(r.second).IsEmpty() }

func (r Combined) String() string {
	var b strings.Builder
	writeOperand(&b, OrEmpty(r.first))
	b.WriteByte('+')
	writeOperand(&b, OrEmpty(r.second))
	return b.String()
}

func writeOperand(b *strings.Builder, r Range) {
	if s, ok := r.(Single); ok {
		b.WriteString(s.value.String())
		return
	}
	b.WriteString(r.String())
}

func (r Combined) KnownSorts() iter.Seq[Sort] {
	return func(yield func(Sort) bool) {
		for s := range OrEmpty(r.first).KnownSorts() {
			if !yield(s) {
				return
			}
		}
		for s := range OrEmpty(r.second).KnownSorts() {
			if !yield(s) {
				return
			}
		}
	}
}

// Season is a whole season whose episodes are unknown. The season number
// itself may be unknown.
type Season struct {
	raw int
}

// RawNumber returns the season number, or UnknownSeasonNumber.
func (r Season) RawNumber() int { return r.raw }

// Number returns the season number, or false when it is unknown.
func (r Season) Number() (int, bool) {
	if r.raw == UnknownSeasonNumber {
		return 0, false
	}
	return r.raw, true
}

// NumberOrZero returns the season number, or 0 when it is unknown.
func (r Season) NumberOrZero() int {
	if r.raw == UnknownSeasonNumber {
		return 0
	}
	return r.raw
}

func (Season) Known() bool { return false }
func (Season) IsEmpty() bool { return false }
func (Season) isRange() {}

func (Season) KnownSorts() iter.Seq[Sort] {
	return func(func(Sort) bool) {}
}

func (r Season) String() string {
	if r.raw == UnknownSeasonNumber {
		return "S?"
	}
	return "S" + strconv.Itoa(r.raw)
}

// Empty returns the range holding no episodes.
func Empty() Range { return emptyRange{} }

// OrEmpty returns r, or Empty when r is nil.
func OrEmpty(r Range) Range {
	if r == nil {
		return emptyRange{}
	}
	return r
}

// NewSingle returns the range holding exactly s.
func NewSingle(s Sort) Range { return Single{value: s} }

// ParseSingle returns the range holding the episode parsed from raw.
func ParseSingle(raw string) Range { return NewSingle(ParseSort(raw)) }

// NewSpan returns the inclusive range from start to end. It does not
// validate the order of its ends.
func NewSpan(start, end Sort) Range { return Span{start: start, end: end} }

// ParseSpan returns the inclusive range between two parsed episodes.
func ParseSpan(start, end string) Range {
	return NewSpan(ParseSort(start), ParseSort(end))
}

// IntSpan returns the inclusive range between two integer episodes.
func IntSpan(start, end int) Range {
	return NewSpan(NormalInt(start), NormalInt(end))
}

// FromSorts returns the union of single-episode ranges for sorts. No sorts
// yields Empty.
func FromSorts(sorts ...Sort) Range {
	out := Empty()
	for _, s := range sorts {
		out = Combine(out, NewSingle(s))
	}
	return out
}

// Combine returns the union of a and b. Union with Empty returns the other
// operand and union of equal operands returns a, so no node is allocated
// in either case. Nil operands are treated as Empty.
func Combine(a, b Range) Range {
	a, b = OrEmpty(a), OrEmpty(b)
	_, aEmpty := a.(emptyRange)
	_, bEmpty := b.(emptyRange)
	switch {
	case aEmpty && bEmpty:
		return emptyRange{}
	case aEmpty:
		return b
	case bEmpty:
		return a
	case Equal(a, b):
		return a
	}
	return Combined{first: a, second: b}
}

// CombineAll folds ranges left to right with Combine, starting from Empty.
func CombineAll(ranges ...Range) Range {
	out := Empty()
	for _, r := range ranges {
		out = Combine(out, r)
	}
	return out
}

// Plus is Combine.
func Plus(a, b Range) Range { return Combine(a, b) }

// NewSeason returns the whole season n.
func NewSeason(n int) Season { return Season{raw: n} }

// SeasonOf returns the whole season *n, or an unknown season when n is nil.
func SeasonOf(n *int) Season {
	if n == nil {
		return UnknownSeason()
	}
	return Season{raw: *n}
}

// UnknownSeason returns a season whose number and episodes are unknown.
func UnknownSeason() Season { return Season{raw: UnknownSeasonNumber} }
