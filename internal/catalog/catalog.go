// Package catalog persists releases and the episodes they cover in SQLite.
package catalog

import (
	"time"

	"github.com/vmunix/anirange/pkg/episode"
	"github.com/vmunix/anirange/pkg/release"
)

// Release is a catalogued release.
type Release struct {
	ID         int64
	Name       string   // Release name as published
	Title      string   // Primary title
	Titles     []string // Every title the release gives, Title first
	Group      string
	Season     int // 0 when the release names no season
	Episodes   episode.Range
	Resolution release.Resolution
	Source     release.Source
	InfoHash   string // Lowercase hex; empty when unknown
	Size       int64
	AddedAt    time.Time
}

// File is one file of a torrent release.
type File struct {
	ID        int64
	ReleaseID int64
	Path      string
	Size      int64
	Episodes  episode.Range
}

// FromInfo builds a Release from a parsed release name.
func FromInfo(name string, info *release.Info) *Release {
	titles := info.Titles
	if len(titles) == 0 && info.Title != "" {
		titles = []string{info.Title}
	}
	return &Release{
		Name:       name,
		Title:      info.Title,
		Titles:     titles,
		Group:      info.Group,
		Season:     info.Season,
		Episodes:   episode.OrEmpty(info.Episodes),
		Resolution: info.Resolution,
		Source:     info.Source,
	}
}

// Info returns the parsed view of r used for matching. Stored fields win
// over what the name would parse to.
func (r *Release) Info() *release.Info {
	info := release.Parse(r.Name)
	info.Title = r.Title
	info.Titles = r.Titles
	info.Group = r.Group
	info.Season = r.Season
	info.Episodes = episode.OrEmpty(r.Episodes)
	info.Resolution = r.Resolution
	info.Source = r.Source
	info.CleanTitle = release.CleanTitle(r.Title)
	return info
}

// ReleaseFilter specifies criteria for listing releases.
type ReleaseFilter struct {
	Title  *string // Matches the cleaned title exactly
	Group  *string
	Season *int
	Limit  int // 0 = no limit
	Offset int
}

// FindOptions tunes FindCovering.
type FindOptions struct {
	Season           int // 0 accepts any season
	MinConfidence    release.MatchConfidence
	AllowSeasonPacks bool
	AllowSpecial     bool
}

// Match is a release found by FindCovering.
type Match struct {
	Release *Release
	Title   release.MatchResult
}
