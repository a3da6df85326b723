package cabinet

import (
	"context"
	"errors"
	"log/slog"

	"punchtrack/internal/annotate"
	"punchtrack/internal/checklist"
	"punchtrack/internal/faults"
	"punchtrack/internal/punch"
)

// SyncInput names the cabinet and the workbook-backed sources its aggregate
// row is recomputed from. Session is optional; without one the page figures
// stay at zero.
type SyncInput struct {
	ProjectName     string
	CabinetNo       string
	SalesOrder      string
	ExcelPath       string
	StorageLocation string

	Punches   *punch.Store
	Checklist *checklist.Sheet
	Session   *annotate.Session
}

// Sync recomputes a cabinet's aggregate row from its workbook. Punch counts
// always come from the punch sheet. The status is only re-derived from the
// checklist when the current row does not carry one of the explicit
// hand-off statuses, which belong to that workflow alone.
func (s *Store) Sync(ctx context.Context, in SyncInput) error {
	counts, err := in.Punches.Count()
	if err != nil {
		return err
	}

	row := Cabinet{
		ProjectName:        in.ProjectName,
		CabinetNo:          in.CabinetNo,
		SalesOrder:         in.SalesOrder,
		ExcelPath:          in.ExcelPath,
		StorageLocation:    in.StorageLocation,
		TotalPunches:       counts.Total,
		OpenPunches:        counts.OpenCount(),
		ClosedPunches:      counts.Closed,
		ImplementedPunches: counts.Implemented,
	}
	if in.Session != nil {
		row.TotalPages = in.Session.PageCount
		row.AnnotatedPages = in.Session.AnnotatedPageCount()
	}

	existing, err := s.Get(ctx, in.ProjectName, in.CabinetNo)
	switch {
	case err == nil && explicitStatus(existing.Status):
		row.Status = existing.Status
	case err != nil && !errors.Is(err, faults.ErrNotFound):
		return err
	default:
		phase, err := in.Checklist.Phase()
		if err != nil {
			return err
		}
		row.Status = string(phase)
	}

	return s.Upsert(ctx, row)
}

// TrySync runs Sync and degrades failures to a warning. The aggregate is a
// convenience view; a broken database must not block workbook editing.
func (s *Store) TrySync(ctx context.Context, in SyncInput, logger *slog.Logger) {
	if err := s.Sync(ctx, in); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("cabinet aggregate sync failed",
			"project", in.ProjectName, "cabinet", in.CabinetNo, "error", err)
	}
}
