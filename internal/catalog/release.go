package catalog

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vmunix/anirange/pkg/episode"
	"github.com/vmunix/anirange/pkg/release"
)

const releaseColumns = "id, name, title, titles, release_group, season, episodes, resolution, source, info_hash, size_bytes, added_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRelease(row rowScanner) (*Release, error) {
	var (
		r        Release
		titles   string
		episodes []byte
		res, src string
		hash     sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Title, &titles, &r.Group, &r.Season, &episodes, &res, &src, &hash, &r.Size, &r.AddedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(titles), &r.Titles); err != nil {
		return nil, fmt.Errorf("release %d titles: %w", r.ID, err)
	}
	eps, err := DecodeRange(episodes)
	if err != nil {
		return nil, fmt.Errorf("release %d: %w", r.ID, err)
	}
	r.Episodes = eps
	r.Resolution = release.ParseResolution(res)
	r.Source = release.ParseSource(src)
	r.InfoHash = hash.String
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func addRelease(ctx context.Context, q querier, r *Release) error {
	episodes, err := EncodeRange(r.Episodes)
	if err != nil {
		return fmt.Errorf("insert release: %w", err)
	}
	titles := r.Titles
	if len(titles) == 0 && r.Title != "" {
		titles = []string{r.Title}
	}
	titlesJSON, err := json.Marshal(titles)
	if err != nil {
		return fmt.Errorf("insert release: %w", err)
	}
	r.InfoHash = strings.ToLower(r.InfoHash)

	now := time.Now().UTC()
	result, err := q.ExecContext(ctx, `
		INSERT INTO releases (name, title, clean_title, titles, release_group, season, episodes, resolution, source, info_hash, size_bytes, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Title, release.CleanTitle(r.Title), string(titlesJSON), r.Group, r.Season, string(episodes),
		r.Resolution.String(), r.Source.String(), nullString(r.InfoHash), r.Size, now,
	)
	if err != nil {
		return fmt.Errorf("insert release: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	r.ID = id
	r.Titles = titles
	r.AddedAt = now
	return nil
}

// AddRelease inserts a new release. Sets ID and AddedAt on the struct.
// Returns ErrDuplicate if another release has the same info hash.
func (s *Store) AddRelease(ctx context.Context, r *Release) error {
	if err := addRelease(ctx, s.db, r); err != nil {
		return err
	}
	s.log.Debug("release added", "id", r.ID, "title", r.Title, "episodes", r.Episodes.String())
	return nil
}

// AddRelease inserts a new release within a transaction.
func (t *Tx) AddRelease(ctx context.Context, r *Release) error { return addRelease(ctx, t.tx, r) }

func getRelease(ctx context.Context, q querier, id int64) (*Release, error) {
	row := q.QueryRowContext(ctx, "SELECT "+releaseColumns+" FROM releases WHERE id = ?", id)
	r, err := scanRelease(row)
	if err != nil {
		return nil, fmt.Errorf("get release %d: %w", id, mapSQLiteError(err))
	}
	return r, nil
}

// GetRelease retrieves a release by ID.
// Returns ErrNotFound if the release does not exist.
func (s *Store) GetRelease(ctx context.Context, id int64) (*Release, error) {
	return getRelease(ctx, s.db, id)
}

// GetRelease retrieves a release by ID within a transaction.
func (t *Tx) GetRelease(ctx context.Context, id int64) (*Release, error) {
	return getRelease(ctx, t.tx, id)
}

// GetReleaseByHash retrieves a release by info hash (case-insensitive).
// Returns ErrNotFound if no release has the hash.
func (s *Store) GetReleaseByHash(ctx context.Context, hash string) (*Release, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+releaseColumns+" FROM releases WHERE info_hash = ?", strings.ToLower(hash))
	r, err := scanRelease(row)
	if err != nil {
		return nil, fmt.Errorf("get release by hash %s: %w", hash, mapSQLiteError(err))
	}
	return r, nil
}

func listReleases(ctx context.Context, q querier, f ReleaseFilter) ([]*Release, int, error) {
	var conditions []string
	var args []any

	if f.Title != nil {
		conditions = append(conditions, "clean_title = ?")
		args = append(args, release.CleanTitle(*f.Title))
	}
	if f.Group != nil {
		conditions = append(conditions, "release_group = ?")
		args = append(args, *f.Group)
	}
	if f.Season != nil {
		conditions = append(conditions, "season = ?")
		args = append(args, *f.Season)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM releases "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count releases: %w", err)
	}

	query := "SELECT " + releaseColumns + " FROM releases " + whereClause + " ORDER BY id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list releases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Release
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan release: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate releases: %w", err)
	}

	return results, total, nil
}

// ListReleases returns releases matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListReleases(ctx context.Context, f ReleaseFilter) ([]*Release, int, error) {
	return listReleases(ctx, s.db, f)
}

// ListReleases returns releases matching the filter within a transaction.
func (t *Tx) ListReleases(ctx context.Context, f ReleaseFilter) ([]*Release, int, error) {
	return listReleases(ctx, t.tx, f)
}

func deleteRelease(ctx context.Context, q querier, id int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM releases WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete release %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteRelease removes a release and its files by ID.
// This operation is idempotent - no error is returned if the release does not exist.
func (s *Store) DeleteRelease(ctx context.Context, id int64) error {
	return deleteRelease(ctx, s.db, id)
}

// DeleteRelease removes a release by ID within a transaction.
func (t *Tx) DeleteRelease(ctx context.Context, id int64) error { return deleteRelease(ctx, t.tx, id) }

// FindCovering returns releases whose title fuzzy-matches title and whose
// episodes contain ep, best title match first.
func (s *Store) FindCovering(ctx context.Context, title string, ep episode.Sort, opts FindOptions) ([]Match, error) {
	query := "SELECT " + releaseColumns + " FROM releases"
	var args []any
	if opts.Season > 0 {
		query += " WHERE season = 0 OR season = ?"
		args = append(args, opts.Season)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find covering: %w", err)
	}
	defer func() { _ = rows.Close() }()

	req := release.Request{
		Titles:            []string{title},
		Season:            opts.Season,
		Episode:           ep,
		MinConfidence:     opts.MinConfidence,
		AllowSeasonPacks:  opts.AllowSeasonPacks,
		AllowSpecialMatch: opts.AllowSpecial,
	}

	var matches []Match
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		info := &release.Info{Title: r.Title, Titles: r.Titles, Season: r.Season, Episodes: r.Episodes}
		c := release.Covers(info, req)
		if !c.OK() {
			continue
		}
		matches = append(matches, Match{Release: r, Title: c.Title})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate releases: %w", err)
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Title.Score, a.Title.Score)
	})
	s.log.Debug("find covering", "title", title, "episode", ep.String(), "matches", len(matches))
	return matches, nil
}
