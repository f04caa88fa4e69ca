package episode

type containsOptions struct {
	allowSeason  bool
	allowSpecial bool
}

// ContainsOption tunes Contains.
type ContainsOption func(*containsOptions)

// WithoutSeason stops a Season from matching every episode.
func WithoutSeason() ContainsOption {
	return func(o *containsOptions) { o.allowSeason = false }
}

// WithoutSpecial disables matching a numbered Special by number alone.
func WithoutSpecial() ContainsOption {
	return func(o *containsOptions) { o.allowSpecial = false }
}

// Contains reports whether r holds expected.
//
// A Season holds every episode unless WithoutSeason is given. Otherwise
// expected must be one of r's known sorts. A numbered Special expected
// also matches any known sort with the same number, e.g. SP12.5 matches
// Normal 12.5, unless WithoutSpecial is given.
func Contains(r Range, expected Sort, opts ...ContainsOption) bool {
	o := containsOptions{allowSeason: true, allowSpecial: true}
	for _, opt := range opts {
		opt(&o)
	}

	r = OrEmpty(r)
	if _, ok := r.(Season); ok && o.allowSeason {
		return true
	}
	for s := range r.KnownSorts() {
		if s == expected {
			return true
		}
	}
	if !o.allowSpecial || !expected.IsSpecial() {
		return false
	}
	want, ok := expected.Number()
	if !ok {
		return false
	}
	for s := range r.KnownSorts() {
		if n, ok := s.Number(); ok && n == want {
			return true
		}
	}
	return false
}

// IsSingleEpisode reports whether r holds exactly one episode. A Season is
// never a single episode.
func IsSingleEpisode(r Range) bool {
	switch x := OrEmpty(r).(type) {
	case Single:
		return true
	case Span:
		return x.start == x.end
	case Combined:
		return Equal(x.first, x.second)
	}
	return false
}

// HasSeason reports whether r is, or contains, a Season. A Span covering
// a whole season's episode numbers does not count.
func HasSeason(r Range) bool {
	switch x := OrEmpty(r).(type) {
	case Season:
		return true
	case Combined:
		return HasSeason(x.first) || HasSeason(x.second)
	}
	return false
}
