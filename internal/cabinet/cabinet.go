package cabinet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"punchtrack/internal/faults"
)

// Statuses set explicitly by the hand-off workflow. Sync never overwrites
// these; every other status is re-derived from the checklist.
const (
	StatusHandedToProduction   = "handed_to_production"
	StatusInProgress           = "in_progress"
	StatusBeingClosedByQuality = "being_closed_by_quality"
	StatusClosed               = "closed"
)

// Cabinet is one aggregate row.
type Cabinet struct {
	ID                 int64
	ProjectName        string
	CabinetNo          string
	SalesOrder         string
	ExcelPath          string
	StorageLocation    string
	TotalPunches       int
	OpenPunches        int
	ClosedPunches      int
	ImplementedPunches int
	TotalPages         int
	AnnotatedPages     int
	Status             string
	CreatedDate        string
	LastUpdated        string
}

// explicitStatus reports whether a status belongs to the hand-off workflow
// rather than the checklist-derived phases.
func explicitStatus(status string) bool {
	switch status {
	case StatusHandedToProduction, StatusInProgress, StatusBeingClosedByQuality, StatusClosed:
		return true
	}
	return false
}

const cabinetColumns = `id, project_name, cabinet_no, sales_order, excel_path,
    storage_location, total_punches, open_punches, closed_punches,
    implemented_punches, total_pages, annotated_pages, status,
    created_date, last_updated`

// Upsert writes a cabinet row, creating or replacing it in one statement.
// The COALESCE keeps the original created_date across replacements.
func (s *Store) Upsert(ctx context.Context, c Cabinet) error {
	if c.ProjectName == "" || c.CabinetNo == "" {
		return faults.Wrap(faults.ErrValidation, "cabinet upsert", "project and cabinet required", nil)
	}
	now := timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cabinets (
            project_name, cabinet_no, sales_order, excel_path, storage_location,
            total_punches, open_punches, closed_punches,
            implemented_punches, total_pages, annotated_pages, status,
            created_date, last_updated
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
            COALESCE((SELECT created_date FROM cabinets
                      WHERE project_name = ? AND cabinet_no = ?), ?),
            ?)`,
		c.ProjectName, c.CabinetNo, nullableString(c.SalesOrder),
		nullableString(c.ExcelPath), nullableString(c.StorageLocation),
		c.TotalPunches, c.OpenPunches, c.ClosedPunches,
		c.ImplementedPunches, c.TotalPages, c.AnnotatedPages, c.Status,
		c.ProjectName, c.CabinetNo, now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert cabinet: %w", err)
	}
	return nil
}

// Get returns one cabinet row.
func (s *Store) Get(ctx context.Context, projectName, cabinetNo string) (*Cabinet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cabinetColumns+` FROM cabinets
         WHERE project_name = ? AND cabinet_no = ?`,
		projectName, cabinetNo,
	)
	c, err := scanCabinet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "cabinet get",
			fmt.Sprintf("%s/%s", projectName, cabinetNo), err)
	}
	return c, err
}

// SetStatus overwrites a cabinet's status directly, used by the hand-off
// workflow for its explicit states.
func (s *Store) SetStatus(ctx context.Context, projectName, cabinetNo, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cabinets SET status = ?, last_updated = ?
         WHERE project_name = ? AND cabinet_no = ?`,
		status, timestamp(), projectName, cabinetNo,
	)
	if err != nil {
		return fmt.Errorf("set cabinet status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set status rows affected: %w", err)
	}
	if affected == 0 {
		return faults.Wrap(faults.ErrNotFound, "cabinet status",
			fmt.Sprintf("%s/%s", projectName, cabinetNo), nil)
	}
	return nil
}

// ListByProject returns a project's cabinets in cabinet number order.
func (s *Store) ListByProject(ctx context.Context, projectName string) ([]Cabinet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cabinetColumns+` FROM cabinets
         WHERE project_name = ? ORDER BY cabinet_no ASC`,
		projectName,
	)
	if err != nil {
		return nil, fmt.Errorf("list cabinets: %w", err)
	}
	defer rows.Close()
	return collectCabinets(rows)
}

// Search matches the term against project name, cabinet number and sales
// order, case-insensitively.
func (s *Store) Search(ctx context.Context, term string) ([]Cabinet, error) {
	like := "%" + term + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cabinetColumns+` FROM cabinets
         WHERE project_name LIKE ? OR cabinet_no LIKE ? OR sales_order LIKE ?
         ORDER BY project_name ASC, cabinet_no ASC`,
		like, like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("search cabinets: %w", err)
	}
	defer rows.Close()
	return collectCabinets(rows)
}

// LogCategoryOccurrence records one use of a punch category for the
// statistics view.
func (s *Store) LogCategoryOccurrence(ctx context.Context, projectName, cabinetNo, category, actor string) error {
	if category == "" {
		return faults.Wrap(faults.ErrValidation, "category log", "category required", nil)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO category_occurrences (
            project_name, cabinet_no, category, logged_by, logged_date
        ) VALUES (?, ?, ?, ?, ?)`,
		projectName, cabinetNo, category, nullableString(actor), timestamp(),
	)
	if err != nil {
		return fmt.Errorf("log category occurrence: %w", err)
	}
	return nil
}

// CategoryCounts returns occurrence totals per category, most frequent
// first.
func (s *Store) CategoryCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(1) FROM category_occurrences GROUP BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

func collectCabinets(rows *sql.Rows) ([]Cabinet, error) {
	var cabinets []Cabinet
	for rows.Next() {
		c, err := scanCabinet(rows)
		if err != nil {
			return nil, err
		}
		cabinets = append(cabinets, *c)
	}
	return cabinets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCabinet(row rowScanner) (*Cabinet, error) {
	var (
		c          Cabinet
		salesOrder sql.NullString
		excelPath  sql.NullString
		storage    sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.ProjectName, &c.CabinetNo, &salesOrder, &excelPath, &storage,
		&c.TotalPunches, &c.OpenPunches, &c.ClosedPunches,
		&c.ImplementedPunches, &c.TotalPages, &c.AnnotatedPages, &c.Status,
		&c.CreatedDate, &c.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	c.SalesOrder = salesOrder.String
	c.ExcelPath = excelPath.String
	c.StorageLocation = storage.String
	return &c, nil
}
