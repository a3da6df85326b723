package handoff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const forwardColumns = `id, project_name, cabinet_no, excel_path, pdf_path,
    punch_count, submitted_by, submitted_date, received_by, received_date,
    completed_by, completed_date, status, remarks`

// SubmitForward enters a cabinet into the forward queue. It returns false
// without inserting when the cabinet already has an unfinished forward row,
// so double submission cannot fork the queue.
func (s *Store) SubmitForward(ctx context.Context, sub Submission) (bool, error) {
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM quality_to_production
         WHERE cabinet_no = ? AND status IN (?, ?)`,
		sub.CabinetNo, StatusPending, StatusInProgress,
	).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("check active submission: %w", err)
	}
	if active > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quality_to_production (
            project_name, cabinet_no, excel_path, pdf_path, punch_count,
            submitted_by, submitted_date, status, remarks
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ProjectName,
		sub.CabinetNo,
		nullableString(sub.ExcelPath),
		nullableString(sub.PDFPath),
		sub.PunchCount,
		sub.SubmittedBy,
		timestamp(),
		StatusPending,
		nullableString(sub.Remarks),
	)
	if err != nil {
		return false, fmt.Errorf("insert submission: %w", err)
	}
	return true, nil
}

// Receive marks a pending submission in progress. Re-applying to a cabinet
// already in progress succeeds without effect: the COALESCE keeps the first
// receiver on record when two operators claim the same cabinet, and the
// later claim is not reported as a failure.
func (s *Store) Receive(ctx context.Context, cabinetNo, actor string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quality_to_production SET
            status = ?,
            received_by = COALESCE(received_by, ?),
            received_date = COALESCE(received_date, ?)
         WHERE cabinet_no = ? AND status IN (?, ?)`,
		StatusInProgress, actor, timestamp(), cabinetNo, StatusPending, StatusInProgress,
	)
	if err != nil {
		return false, fmt.Errorf("receive submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("receive rows affected: %w", err)
	}
	return affected > 0, nil
}

// CompleteAndHandback finishes the forward leg and queues the cabinet for
// verification. The two writes are separate statements; a crash in between
// leaves the forward row COMPLETED without a backward row, and re-running
// the call repairs that. When the latest handback is already pending or
// settled for an already-completed forward row, the call is a no-op so
// re-runs cannot queue a second verification for the same cycle.
func (s *Store) CompleteAndHandback(ctx context.Context, cabinetNo, actor, remarks string, openPunches int) (bool, error) {
	item, err := s.GetForward(ctx, cabinetNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	alreadyCompleted := item.Terminal()
	if !alreadyCompleted {
		res, err := s.db.ExecContext(ctx,
			`UPDATE quality_to_production SET
                status = ?, completed_by = ?, completed_date = ?
             WHERE id = ? AND status IN (?, ?)`,
			StatusCompleted, actor, timestamp(), item.ID, StatusPending, StatusInProgress,
		)
		if err != nil {
			return false, fmt.Errorf("complete submission: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("complete rows affected: %w", err)
		}
		if affected == 0 {
			return false, nil
		}
	}

	latest, err := s.GetHandback(ctx, cabinetNo)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No handback yet for this cabinet; queue one below.
	case err != nil:
		return false, err
	case latest.Status == StatusPending:
		return true, nil
	case alreadyCompleted:
		// The forward row was settled before this call and its handback
		// already ran through verification; a re-run must not reopen it.
		return true, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO production_to_quality (
            project_name, cabinet_no, excel_path, pdf_path, punch_count,
            handed_back_by, handed_back_date, status, verification_notes
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ProjectName,
		item.CabinetNo,
		nullableString(item.ExcelPath),
		nullableString(item.PDFPath),
		openPunches,
		actor,
		timestamp(),
		StatusPending,
		nullableString(remarks),
	)
	if err != nil {
		return false, fmt.Errorf("insert handback: %w", err)
	}
	return true, nil
}

// GetForward returns the most recent forward row for a cabinet.
func (s *Store) GetForward(ctx context.Context, cabinetNo string) (*ForwardItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+forwardColumns+` FROM quality_to_production
         WHERE cabinet_no = ? ORDER BY id DESC LIMIT 1`,
		cabinetNo,
	)
	return scanForward(row)
}

// ListPendingForward returns forward rows awaiting or undergoing rework,
// oldest submission first.
func (s *Store) ListPendingForward(ctx context.Context) ([]ForwardItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+forwardColumns+` FROM quality_to_production
         WHERE status IN (?, ?) ORDER BY submitted_date ASC, id ASC`,
		StatusPending, StatusInProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	defer rows.Close()

	var items []ForwardItem
	for rows.Next() {
		item, err := scanForward(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// InReworkQueue reports whether a cabinet currently has a non-terminal
// forward row.
func (s *Store) InReworkQueue(ctx context.Context, cabinetNo string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM quality_to_production
         WHERE cabinet_no = ? AND status IN (?, ?)`,
		cabinetNo, StatusPending, StatusInProgress,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check rework queue: %w", err)
	}
	return count > 0, nil
}

// CleanupCompleted deletes settled rows older than the retention window
// from both queues and returns how many were removed.
func (s *Store) CleanupCompleted(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := fmt.Sprintf("-%d days", olderThanDays)

	forward, err := s.db.ExecContext(ctx,
		`DELETE FROM quality_to_production
         WHERE status = ? AND completed_date < datetime('now', 'localtime', ?)`,
		StatusCompleted, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup forward queue: %w", err)
	}
	backward, err := s.db.ExecContext(ctx,
		`DELETE FROM production_to_quality
         WHERE status IN (?, ?) AND verified_date < datetime('now', 'localtime', ?)`,
		StatusVerified, StatusClosed, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup backward queue: %w", err)
	}

	nForward, _ := forward.RowsAffected()
	nBackward, _ := backward.RowsAffected()
	return nForward + nBackward, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForward(row rowScanner) (*ForwardItem, error) {
	var (
		item          ForwardItem
		excelPath     sql.NullString
		pdfPath       sql.NullString
		receivedBy    sql.NullString
		receivedDate  sql.NullString
		completedBy   sql.NullString
		completedDate sql.NullString
		remarks       sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.ProjectName, &item.CabinetNo, &excelPath, &pdfPath,
		&item.PunchCount, &item.SubmittedBy, &item.SubmittedDate,
		&receivedBy, &receivedDate, &completedBy, &completedDate,
		&item.Status, &remarks,
	)
	if err != nil {
		return nil, err
	}
	item.ExcelPath = excelPath.String
	item.PDFPath = pdfPath.String
	item.ReceivedBy = receivedBy.String
	item.ReceivedDate = receivedDate.String
	item.CompletedBy = completedBy.String
	item.CompletedDate = completedDate.String
	item.Remarks = remarks.String
	return &item, nil
}
