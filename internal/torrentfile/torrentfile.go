// Package torrentfile reads .torrent metadata and maps the files inside a
// torrent to the episodes they contain.
package torrentfile

import (
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/vmunix/anirange/pkg/episode"
	"github.com/vmunix/anirange/pkg/release"
)

// ErrEpisodeNotFound is returned when no file in a torrent holds the episode.
var ErrEpisodeNotFound = errors.New("episode not found in torrent")

// VideoExtensions lists the file extensions treated as playable video.
var VideoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".flv", ".wmv", ".webm", ".ts", ".m2ts"}

// Entry is one file inside a torrent.
type Entry struct {
	Path     string
	Length   int64
	Episodes episode.Range
}

// IsVideo reports whether the entry is a playable video file.
func (e Entry) IsVideo() bool {
	return slices.Contains(VideoExtensions, strings.ToLower(path.Ext(e.Path)))
}

// Torrent is the parsed form of a .torrent file or magnet link.
type Torrent struct {
	Name     string
	InfoHash string // lowercase hex
	Files    []Entry

	// Episodes is the range named by the torrent itself.
	Episodes episode.Range
}

// Load reads a bencoded .torrent file.
func Load(r io.Reader) (*Torrent, error) {
	mi, err := metainfo.Load(r)
	if err != nil {
		return nil, fmt.Errorf("load torrent: %w", err)
	}
	return fromMetaInfo(mi)
}

// LoadFile reads a .torrent file from disk.
func LoadFile(filename string) (*Torrent, error) {
	mi, err := metainfo.LoadFromFile(filename)
	if err != nil {
		return nil, fmt.Errorf("load torrent %s: %w", filename, err)
	}
	return fromMetaInfo(mi)
}

// FromMagnet parses a magnet URI. The result carries no files.
func FromMagnet(uri string) (*Torrent, error) {
	m, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		return nil, fmt.Errorf("parse magnet: %w", err)
	}
	return &Torrent{
		Name:     m.DisplayName,
		InfoHash: m.InfoHash.HexString(),
		Episodes: release.Parse(m.DisplayName).Episodes,
	}, nil
}

func fromMetaInfo(mi *metainfo.MetaInfo) (*Torrent, error) {
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("decode torrent info: %w", err)
	}

	name := info.BestName()
	t := &Torrent{
		Name:     name,
		InfoHash: mi.HashInfoBytes().HexString(),
		Episodes: release.Parse(name).Episodes,
	}

	files := info.UpvertedFiles()
	t.Files = make([]Entry, 0, len(files))
	for _, fi := range files {
		// Single-file torrents carry no path; the file is named after the torrent.
		p := strings.Join(fi.BestPath(), "/")
		if p == "" {
			p = name
		}
		t.Files = append(t.Files, Entry{
			Path:     p,
			Length:   fi.Length,
			Episodes: release.Parse(path.Base(p)).Episodes,
		})
	}
	return t, nil
}

// Size returns the total length of all files.
func (t *Torrent) Size() int64 {
	var total int64
	for _, f := range t.Files {
		total += f.Length
	}
	return total
}

// Coverage returns the union of every file's episodes, in file order.
func (t *Torrent) Coverage() episode.Range {
	ranges := make([]episode.Range, len(t.Files))
	for i, f := range t.Files {
		ranges[i] = f.Episodes
	}
	return episode.CombineAll(ranges...)
}

// SelectEpisode picks the file to play for ep. A video whose own name
// contains ep wins; failing that the largest video is used, but only when
// the torrent as a whole claims the episode.
func (t *Torrent) SelectEpisode(ep episode.Sort) (Entry, error) {
	var largest *Entry
	for i := range t.Files {
		f := &t.Files[i]
		if !f.IsVideo() {
			continue
		}
		if episode.Contains(f.Episodes, ep, episode.WithoutSeason()) {
			return *f, nil
		}
		if largest == nil || f.Length > largest.Length {
			largest = f
		}
	}

	if largest != nil && episode.Contains(t.Episodes, ep) {
		return *largest, nil
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrEpisodeNotFound, ep)
}
