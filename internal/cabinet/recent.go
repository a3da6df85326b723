package cabinet

import (
	"context"
	"fmt"
	"time"

	"punchtrack/internal/punch"
)

// RecentProject is one entry of the recently-opened cache.
type RecentProject struct {
	Name         string
	Path         string
	LastAccessed string
}

// Touch records a project open. An existing entry for the same path is
// replaced so each project appears once; entries beyond the configured
// limit fall off the tail, oldest access first.
func (s *Store) Touch(ctx context.Context, name, path string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM recent_projects WHERE path = ?", path,
	); err != nil {
		return fmt.Errorf("dedupe recent project: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO recent_projects (name, path, last_accessed) VALUES (?, ?, ?)`,
		name, path, time.Now().Format(punch.TimeLayout),
	); err != nil {
		return fmt.Errorf("insert recent project: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM recent_projects WHERE id NOT IN (
            SELECT id FROM recent_projects
            ORDER BY last_accessed DESC, id DESC LIMIT ?
        )`,
		s.recentLimit,
	); err != nil {
		return fmt.Errorf("evict recent projects: %w", err)
	}
	return nil
}

// Recent returns the cache most-recent-first. limit <= 0 means the
// configured cache size.
func (s *Store) Recent(ctx context.Context, limit int) ([]RecentProject, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, path, last_accessed FROM recent_projects
         ORDER BY last_accessed DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent projects: %w", err)
	}
	defer rows.Close()

	var recents []RecentProject
	for rows.Next() {
		var r RecentProject
		if err := rows.Scan(&r.Name, &r.Path, &r.LastAccessed); err != nil {
			return nil, err
		}
		recents = append(recents, r)
	}
	return recents, rows.Err()
}

// ClearOlderThan drops cache entries not touched for the given number of
// days and returns how many were removed.
func (s *Store) ClearOlderThan(ctx context.Context, days int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recent_projects
         WHERE last_accessed < datetime('now', 'localtime', ?)`,
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("clear recent projects: %w", err)
	}
	return res.RowsAffected()
}
