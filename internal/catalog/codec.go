package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmunix/anirange/pkg/episode"
)

// Range kinds as stored.
const (
	kindEmpty    = "empty"
	kindSingle   = "single"
	kindSpan     = "span"
	kindCombined = "combined"
	kindSeason   = "season"
)

// mainType tags normal episodes; specials use their lowercase type name.
const mainType = "main"

type rangeNode struct {
	Kind   string     `json:"kind"`
	Value  *sortNode  `json:"value,omitempty"`
	Start  *sortNode  `json:"start,omitempty"`
	End    *sortNode  `json:"end,omitempty"`
	First  *rangeNode `json:"first,omitempty"`
	Second *rangeNode `json:"second,omitempty"`
	Season *int       `json:"season,omitempty"`
}

type sortNode struct {
	Type   string   `json:"type"`
	Number *float64 `json:"number,omitempty"`
}

var specialTypes = func() map[string]episode.Type {
	m := make(map[string]episode.Type)
	for _, t := range []episode.Type{
		episode.MainStory, episode.SP, episode.OP, episode.ED, episode.PV,
		episode.MAD, episode.OVA, episode.OAD, episode.Movie,
	} {
		m[strings.ToLower(t.String())] = t
	}
	return m
}()

// EncodeRange serializes r as a tagged JSON tree. Nil encodes as empty.
func EncodeRange(r episode.Range) ([]byte, error) {
	node, err := encodeNode(episode.OrEmpty(r))
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

func encodeNode(r episode.Range) (*rangeNode, error) {
	switch v := r.(type) {
	case episode.Single:
		return &rangeNode{Kind: kindSingle, Value: encodeSort(v.Value())}, nil
	case episode.Span:
		return &rangeNode{Kind: kindSpan, Start: encodeSort(v.Start()), End: encodeSort(v.End())}, nil
	case episode.Combined:
		first, err := encodeNode(v.First())
		if err != nil {
			return nil, err
		}
		second, err := encodeNode(v.Second())
		if err != nil {
			return nil, err
		}
		return &rangeNode{Kind: kindCombined, First: first, Second: second}, nil
	case episode.Season:
		n := v.RawNumber()
		return &rangeNode{Kind: kindSeason, Season: &n}, nil
	}
	if r.IsEmpty() && r.Known() {
		return &rangeNode{Kind: kindEmpty}, nil
	}
	return nil, fmt.Errorf("encode %T: %w", r, ErrInvalidRange)
}

func encodeSort(s episode.Sort) *sortNode {
	n, ok := s.Number()
	node := &sortNode{Type: mainType}
	if s.IsSpecial() {
		node.Type = strings.ToLower(s.Type().String())
	}
	if ok {
		node.Number = &n
	}
	return node
}

// DecodeRange parses data written by EncodeRange. Combined nodes are
// rebuilt with episode.Combine, which keeps the stored tree shape for any
// range built through the episode package.
func DecodeRange(data []byte) (episode.Range, error) {
	var node rangeNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	return decodeNode(&node)
}

func decodeNode(n *rangeNode) (episode.Range, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: missing node", ErrInvalidRange)
	}

	switch n.Kind {
	case kindEmpty:
		return episode.Empty(), nil
	case kindSingle:
		v, err := decodeSort(n.Value)
		if err != nil {
			return nil, err
		}
		return episode.NewSingle(v), nil
	case kindSpan:
		start, err := decodeSort(n.Start)
		if err != nil {
			return nil, err
		}
		end, err := decodeSort(n.End)
		if err != nil {
			return nil, err
		}
		return episode.NewSpan(start, end), nil
	case kindCombined:
		first, err := decodeNode(n.First)
		if err != nil {
			return nil, err
		}
		second, err := decodeNode(n.Second)
		if err != nil {
			return nil, err
		}
		return episode.Combine(first, second), nil
	case kindSeason:
		if n.Season == nil {
			return nil, fmt.Errorf("%w: season without number", ErrInvalidRange)
		}
		if *n.Season == episode.UnknownSeasonNumber {
			return episode.UnknownSeason(), nil
		}
		if *n.Season < 0 {
			return nil, fmt.Errorf("%w: season %d", ErrInvalidRange, *n.Season)
		}
		return episode.NewSeason(*n.Season), nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRange, n.Kind)
}

func decodeSort(n *sortNode) (episode.Sort, error) {
	if n == nil {
		return episode.Sort{}, fmt.Errorf("%w: missing episode", ErrInvalidRange)
	}
	if n.Type == mainType {
		if n.Number == nil {
			return episode.Sort{}, fmt.Errorf("%w: main episode without number", ErrInvalidRange)
		}
		return episode.Normal(*n.Number), nil
	}

	t, ok := specialTypes[n.Type]
	if !ok {
		return episode.Sort{}, fmt.Errorf("%w: unknown episode type %q", ErrInvalidRange, n.Type)
	}
	if n.Number == nil {
		return episode.SpecialUnnumbered(t), nil
	}
	return episode.Special(t, *n.Number), nil
}
