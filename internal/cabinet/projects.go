package cabinet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"punchtrack/internal/faults"
)

// Project is one row of the project registry.
type Project struct {
	Name            string
	SalesOrder      string
	StorageLocation string
	CreatedDate     string
	LastUpdated     string
}

// AddProject registers a project. Adding an existing name is a validation
// error; use UpdateProject to change details.
func (s *Store) AddProject(ctx context.Context, p Project) error {
	if p.Name == "" {
		return faults.Wrap(faults.ErrValidation, "project add", "name required", nil)
	}
	exists, err := s.ProjectExists(ctx, p.Name)
	if err != nil {
		return err
	}
	if exists {
		return faults.Wrap(faults.ErrValidation, "project add",
			fmt.Sprintf("project %q already registered", p.Name), nil)
	}
	now := timestamp()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (project_name, sales_order, storage_location, created_date, last_updated)
         VALUES (?, ?, ?, ?, ?)`,
		p.Name, nullableString(p.SalesOrder), nullableString(p.StorageLocation), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// UpdateProject rewrites a project's details.
func (s *Store) UpdateProject(ctx context.Context, p Project) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET sales_order = ?, storage_location = ?, last_updated = ?
         WHERE project_name = ?`,
		nullableString(p.SalesOrder), nullableString(p.StorageLocation), timestamp(), p.Name,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project rows affected: %w", err)
	}
	if affected == 0 {
		return faults.Wrap(faults.ErrNotFound, "project update", p.Name, nil)
	}
	return nil
}

// GetProject returns one registry row.
func (s *Store) GetProject(ctx context.Context, name string) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT project_name, sales_order, storage_location, created_date, last_updated
         FROM projects WHERE project_name = ?`,
		name,
	)
	var (
		p          Project
		salesOrder sql.NullString
		storage    sql.NullString
	)
	err := row.Scan(&p.Name, &salesOrder, &storage, &p.CreatedDate, &p.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "project get", name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	p.SalesOrder = salesOrder.String
	p.StorageLocation = storage.String
	return &p, nil
}

// ProjectExists reports whether a project name is registered.
func (s *Store) ProjectExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM projects WHERE project_name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return count > 0, nil
}

// StorageLocation is a convenience lookup for the hand-off views.
func (s *Store) StorageLocation(ctx context.Context, name string) (string, error) {
	p, err := s.GetProject(ctx, name)
	if err != nil {
		return "", err
	}
	return p.StorageLocation, nil
}
