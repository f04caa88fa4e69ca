package catalog

import (
	"context"
	"fmt"
)

func addFiles(ctx context.Context, q querier, releaseID int64, files []*File) error {
	for _, f := range files {
		episodes, err := EncodeRange(f.Episodes)
		if err != nil {
			return fmt.Errorf("insert file %s: %w", f.Path, err)
		}
		result, err := q.ExecContext(ctx, `
			INSERT INTO release_files (release_id, path, size_bytes, episodes)
			VALUES (?, ?, ?, ?)`,
			releaseID, f.Path, f.Size, string(episodes),
		)
		if err != nil {
			return fmt.Errorf("insert file %s: %w", f.Path, mapSQLiteError(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		f.ID = id
		f.ReleaseID = releaseID
	}
	return nil
}

// AddFiles records the files of a release within a transaction.
// Returns ErrConstraint if the release does not exist and ErrDuplicate if
// a path is recorded twice.
func (t *Tx) AddFiles(ctx context.Context, releaseID int64, files []*File) error {
	return addFiles(ctx, t.tx, releaseID, files)
}

// AddReleaseWithFiles inserts a release and its files atomically.
func (s *Store) AddReleaseWithFiles(ctx context.Context, r *Release, files []*File) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.AddRelease(ctx, r); err != nil {
		return err
	}
	if err := tx.AddFiles(ctx, r.ID, files); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit release: %w", err)
	}
	s.log.Debug("release added", "id", r.ID, "title", r.Title, "files", len(files))
	return nil
}

// ListFiles returns the files of a release ordered by path.
func (s *Store) ListFiles(ctx context.Context, releaseID int64) ([]*File, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, release_id, path, size_bytes, episodes
		FROM release_files WHERE release_id = ? ORDER BY path`, releaseID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []*File
	for rows.Next() {
		var (
			f        File
			episodes []byte
		)
		if err := rows.Scan(&f.ID, &f.ReleaseID, &f.Path, &f.Size, &episodes); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		eps, err := DecodeRange(episodes)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", f.ID, err)
		}
		f.Episodes = eps
		files = append(files, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}
