package episode

import (
	"iter"
	"slices"
)

// Equal reports whether a and b describe the same episodes. It identifies
// different shapes: Single(v) equals Span(v, v), and Combined ranges are
// compared by their flattened leaves. A Combined compared with any other
// kind is equal only when both of its operands equal that value. Nil is
// treated as Empty.
func Equal(a, b Range) bool {
	a, b = OrEmpty(a), OrEmpty(b)

	ca, aCombined := a.(Combined)
	cb, bCombined := b.(Combined)
	switch {
	case aCombined && bCombined:
		return slices.EqualFunc(slices.Collect(Leaves(ca)), slices.Collect(Leaves(cb)), leafEqual)
	case aCombined:
		return Equal(ca.first, b) && Equal(ca.second, b)
	case bCombined:
		return Equal(cb.first, a) && Equal(cb.second, a)
	}
	return leafEqual(a, b)
}

// leafEqual compares two non-Combined ranges.
func leafEqual(a, b Range) bool {
	switch x := a.(type) {
	case emptyRange:
		_, ok := b.(emptyRange)
		return ok
	case Season:
		y, ok := b.(Season)
		return ok && x.raw == y.raw
	}

	as, ae, ok := bounds(a)
	if !ok {
		return false
	}
	bs, be, ok := bounds(b)
	return ok && as == bs && ae == be
}

// bounds returns the ends of a Single or Span.
func bounds(r Range) (start, end Sort, ok bool) {
	switch x := r.(type) {
	case Single:
		return x.value, x.value, true
	case Span:
		return x.start, x.end, true
	}
	return Sort{}, Sort{}, false
}

// Leaves returns the non-Combined ranges of r depth-first, first operand
// first. A non-Combined range is its own only leaf.
func Leaves(r Range) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		walkLeaves(OrEmpty(r), yield)
	}
}

func walkLeaves(r Range, yield func(Range) bool) bool {
	c, ok := r.(Combined)
	if !ok {
		return yield(r)
	}
	return walkLeaves(c.first, yield) && walkLeaves(c.second, yield)
}

// Hash returns a hash of r. Single hashes by its episode, Span and
// Combined mix their parts, Season hashes its raw number.
//
// Hash is not canonical across shapes: Single(v) and Span(v, v) are Equal
// but hash differently, so hashes must not be used to key ranges built in
// different ways.
func Hash(r Range) uint64 {
	switch x := OrEmpty(r).(type) {
	case Single:
		return x.value.Hash()
	case Span:
		return 31*x.start.Hash() + x.end.Hash()
	case Combined:
		return 31*Hash(x.first) + Hash(x.second)
	case Season:
		return uint64(int64(x.raw))
	}
	return 0
}
