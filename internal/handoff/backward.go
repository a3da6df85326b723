package handoff

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const backwardColumns = `id, project_name, cabinet_no, excel_path, pdf_path,
    punch_count, handed_back_by, handed_back_date, verified_by, verified_date,
    status, verification_notes`

// Verify settles a pending handback. asClosed marks the punches closed in
// the same step; otherwise the row ends VERIFIED. Returns false when the
// cabinet has no pending handback.
func (s *Store) Verify(ctx context.Context, cabinetNo, actor, notes string, asClosed bool) (bool, error) {
	status := StatusVerified
	if asClosed {
		status = StatusClosed
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE production_to_quality SET
            status = ?, verified_by = ?, verified_date = ?, verification_notes = ?
         WHERE cabinet_no = ? AND status = ?`,
		status, actor, timestamp(), nullableString(notes), cabinetNo, StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("verify handback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("verify rows affected: %w", err)
	}
	return affected > 0, nil
}

// Withdraw pulls a handback out of verification for another rework round.
// The row still ends VERIFIED; the note records the withdrawal so the
// history stays on one table.
func (s *Store) Withdraw(ctx context.Context, cabinetNo, actor, reason string) (bool, error) {
	note := "withdrawn for rework"
	if strings.TrimSpace(reason) != "" {
		note = fmt.Sprintf("%s: %s", note, strings.TrimSpace(reason))
	}
	return s.Verify(ctx, cabinetNo, actor, note, false)
}

// HandbackPending reports whether a cabinet has an unsettled handback row.
func (s *Store) HandbackPending(ctx context.Context, cabinetNo string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM production_to_quality
         WHERE cabinet_no = ? AND status = ?`,
		cabinetNo, StatusPending,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check pending handback: %w", err)
	}
	return count > 0, nil
}

// GetHandback returns the most recent handback row for a cabinet.
func (s *Store) GetHandback(ctx context.Context, cabinetNo string) (*HandbackItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+backwardColumns+` FROM production_to_quality
         WHERE cabinet_no = ? ORDER BY id DESC LIMIT 1`,
		cabinetNo,
	)
	return scanBackward(row)
}

// ListPendingBackward returns handbacks awaiting verification, oldest
// first.
func (s *Store) ListPendingBackward(ctx context.Context) ([]HandbackItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+backwardColumns+` FROM production_to_quality
         WHERE status = ? ORDER BY handed_back_date ASC, id ASC`,
		StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending handbacks: %w", err)
	}
	defer rows.Close()

	var items []HandbackItem
	for rows.Next() {
		item, err := scanBackward(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanBackward(row rowScanner) (*HandbackItem, error) {
	var (
		item         HandbackItem
		excelPath    sql.NullString
		pdfPath      sql.NullString
		verifiedBy   sql.NullString
		verifiedDate sql.NullString
		notes        sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.ProjectName, &item.CabinetNo, &excelPath, &pdfPath,
		&item.PunchCount, &item.HandedBackBy, &item.HandedBackDate,
		&verifiedBy, &verifiedDate, &item.Status, &notes,
	)
	if err != nil {
		return nil, err
	}
	item.ExcelPath = excelPath.String
	item.PDFPath = pdfPath.String
	item.VerifiedBy = verifiedBy.String
	item.VerifiedDate = verifiedDate.String
	item.VerificationNotes = notes.String
	return &item, nil
}
