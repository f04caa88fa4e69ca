// Package danmaku aggregates on-screen comment ("danmaku") search results
// from several providers for one episode.
package danmaku

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/anirange/pkg/episode"
)

// ErrUnknownProvider is returned when a configured provider is not registered.
var ErrUnknownProvider = errors.New("unknown danmaku provider")

// ProviderID identifies a danmaku source, e.g. "dandanplay".
type ProviderID string

// Request describes the episode whose comments are wanted.
type Request struct {
	SubjectID   int
	SubjectName string
	EpisodeID   int
	Episode     episode.Sort
	EpisodeName string
	Duration    time.Duration // 0 when the video length is unknown
}

// key identifies the episode a request is for. Overrides live per key.
type key struct {
	subject, episode int
}

func (r Request) key() key { return key{r.SubjectID, r.EpisodeID} }

// MatchMethod is how a provider located the episode.
type MatchMethod int

const (
	MatchNone MatchMethod = iota
	MatchFuzzy
	MatchExact
)

func (m MatchMethod) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// MatchInfo reports a provider's match for one result.
type MatchInfo struct {
	ProviderID ProviderID
	Method     MatchMethod
	Count      int
}

// Position is where a comment is drawn.
type Position int

const (
	PositionScroll Position = iota
	PositionTop
	PositionBottom
)

func (p Position) String() string {
	switch p {
	case PositionTop:
		return "top"
	case PositionBottom:
		return "bottom"
	default:
		return "scroll"
	}
}

// Comment is a single danmaku shown at Time into the episode.
type Comment struct {
	ID       string
	Time     time.Duration
	Text     string
	Color    uint32 // 0xRRGGBB
	Position Position
}

// FetchResult is one batch of comments a provider returned.
type FetchResult struct {
	ProviderID ProviderID
	Match      MatchInfo
	Comments   []Comment
}

// Provider fetches comments for an episode.
type Provider interface {
	ID() ProviderID
	Fetch(ctx context.Context, req Request) ([]FetchResult, error)
}

// SelectProviders returns the providers named by ids, in ids order.
// An empty ids selects every provider.
func SelectProviders(all []Provider, ids []string) ([]Provider, error) {
	if len(ids) == 0 {
		return all, nil
	}

	byID := make(map[ProviderID]Provider, len(all))
	for _, p := range all {
		byID[p.ID()] = p
	}

	selected := make([]Provider, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[ProviderID(id)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
		}
		selected = append(selected, p)
	}
	return selected, nil
}
