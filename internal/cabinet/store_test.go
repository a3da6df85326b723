package cabinet_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"punchtrack/internal/annotate"
	"punchtrack/internal/cabinet"
	"punchtrack/internal/checklist"
	"punchtrack/internal/faults"
	"punchtrack/internal/punch"
	"punchtrack/internal/testsupport"
)

func TestUpsertPreservesCreatedDate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCabinets(t, cfg)
	ctx := context.Background()

	row := cabinet.Cabinet{
		ProjectName: "P-100",
		CabinetNo:   "CAB-01",
		SalesOrder:  "SO-4711",
		Status:      "quality_inspection",
	}
	if err := store.Upsert(ctx, row); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	first, err := store.Get(ctx, "P-100", "CAB-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	row.TotalPunches = 5
	row.OpenPunches = 2
	if err := store.Upsert(ctx, row); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	second, err := store.Get(ctx, "P-100", "CAB-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if second.CreatedDate != first.CreatedDate {
		t.Fatalf("created_date changed: %q -> %q", first.CreatedDate, second.CreatedDate)
	}
	if second.TotalPunches != 5 || second.OpenPunches != 2 {
		t.Fatalf("counts not replaced: %+v", second)
	}
}

func TestGetMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCabinets(t, cfg)

	_, err := store.Get(context.Background(), "P-100", "CAB-99")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListAndSearch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCabinets(t, cfg)
	ctx := context.Background()

	seed := []cabinet.Cabinet{
		{ProjectName: "P-100", CabinetNo: "CAB-02", Status: "final_assembly"},
		{ProjectName: "P-100", CabinetNo: "CAB-01", Status: "quality_inspection"},
		{ProjectName: "P-200", CabinetNo: "CAB-01", SalesOrder: "SO-9", Status: "closed"},
	}
	for _, c := range seed {
		if err := store.Upsert(ctx, c); err != nil {
			t.Fatalf("Upsert %s/%s: %v", c.ProjectName, c.CabinetNo, err)
		}
	}

	listed, err := store.ListByProject(ctx, "P-100")
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(listed) != 2 || listed[0].CabinetNo != "CAB-01" || listed[1].CabinetNo != "CAB-02" {
		t.Fatalf("ListByProject = %+v", listed)
	}

	found, err := store.Search(ctx, "SO-9")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ProjectName != "P-200" {
		t.Fatalf("Search by sales order = %+v", found)
	}

	found, err = store.Search(ctx, "CAB-01")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Search by cabinet = %d rows, want 2", len(found))
	}
}

func TestSyncDerivesStatusAndCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCabinets(t, cfg)
	wb := testsupport.NewWorkbook(t, "cab.xlsx")
	ctx := context.Background()

	punches, err := punch.NewStore(wb, punch.DefaultLayout())
	if err != nil {
		t.Fatalf("punch.NewStore: %v", err)
	}
	sheet, err := checklist.NewSheet(wb, checklist.DefaultLayout())
	if err != nil {
		t.Fatalf("checklist.NewSheet: %v", err)
	}

	for i := 0; i < 3; i++ {
		row, _, err := punches.Append(punch.Entry{
			Description: fmt.Sprintf("defect %d", i),
			CheckedBy:   "alice",
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		switch i {
		case 0:
			if err := punches.MarkClosed(row, "quinn", time.Now()); err != nil {
				t.Fatalf("MarkClosed: %v", err)
			}
		case 1:
			if err := punches.MarkImplemented(row, "bob", time.Now()); err != nil {
				t.Fatalf("MarkImplemented: %v", err)
			}
		}
	}
	testsupport.SetChecklistRow(t, wb, 11, "12", "Components placed", "OK", "bob", "2026-05-01")

	session := annotate.NewSession("P-100", "SO-4711", "CAB-01", "cab.pdf", 6)
	session.Add(annotate.New(annotate.KindHighlight, 0, nil, annotate.SeverityDefect))
	session.Add(annotate.New(annotate.KindStroke, 0, nil, annotate.SeverityDefect))
	session.Add(annotate.New(annotate.KindLabel, 2, nil, annotate.SeverityInformational))

	in := cabinet.SyncInput{
		ProjectName: "P-100",
		CabinetNo:   "CAB-01",
		ExcelPath:   wb.Path(),
		Punches:     punches,
		Checklist:   sheet,
		Session:     session,
	}
	if err := store.Sync(ctx, in); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	got, err := store.Get(ctx, "P-100", "CAB-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalPunches != 3 || got.OpenPunches != 2 || got.ClosedPunches != 1 {
		t.Fatalf("counts = %+v", got)
	}
	if got.ImplementedPunches != 1 {
		t.Fatalf("ImplementedPunches = %d, want 1", got.ImplementedPunches)
	}
	if got.TotalPages != 6 || got.AnnotatedPages != 2 {
		t.Fatalf("pages = %d/%d, want 6 total with 2 annotated", got.AnnotatedPages, got.TotalPages)
	}
	if got.Status != string(checklist.PhaseComponentAssembly) {
		t.Fatalf("status = %q, want component_assembly", got.Status)
	}
}

func TestSyncPreservesExplicitStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCabinets(t, cfg)
	wb := testsupport.NewWorkbook(t, "cab.xlsx")
	ctx := context.Background()

	punches, err := punch.NewStore(wb, punch.DefaultLayout())
	if err != nil {
		t.Fatalf("punch.NewStore: %v", err)
	}
	sheet, err := checklist.NewSheet(wb, checklist.DefaultLayout())
	if err != nil {
		t.Fatalf("checklist.NewSheet: %v", err)
	}

	in := cabinet.SyncInput{
		ProjectName: "P-100",
		CabinetNo:   "CAB-01",
		Punches:     punches,
		Checklist:   sheet,
	}
	if err := store.Sync(ctx, in); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := store.SetStatus(ctx, "P-100", "CAB-01", cabinet.StatusHandedToProduction); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	// A later sync recomputes counts but must not clobber the hand-off
	// status.
	if _, _, err := punches.Append(punch.Entry{Description: "late find", CheckedBy: "alice"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Sync(ctx, in); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	got, err := store.Get(ctx, "P-100", "CAB-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != cabinet.StatusHandedToProduction {
		t.Fatalf("status = %q, want handed_to_production", got.Status)
	}
	if got.TotalPunches != 1 || got.OpenPunches != 1 {
		t.Fatalf("counts = %+v", got)
	}
}

func TestProjectRegistry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCabinets(t, cfg)
	ctx := context.Background()

	p := cabinet.Project{Name: "P-100", SalesOrder: "SO-4711", StorageLocation: "Hall 3"}
	if err := store.AddProject(ctx, p); err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	if err := store.AddProject(ctx, p); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("duplicate AddProject should be a validation error, got %v", err)
	}

	exists, err := store.ProjectExists(ctx, "P-100")
	if err != nil || !exists {
		t.Fatalf("ProjectExists = %v, %v", exists, err)
	}

	p.StorageLocation = "Hall 7"
	if err := store.UpdateProject(ctx, p); err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	loc, err := store.StorageLocation(ctx, "P-100")
	if err != nil || loc != "Hall 7" {
		t.Fatalf("StorageLocation = %q, %v", loc, err)
	}

	if err := store.UpdateProject(ctx, cabinet.Project{Name: "P-404"}); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("updating unknown project should be not-found, got %v", err)
	}
}

func TestCategoryOccurrences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCabinets(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.LogCategoryOccurrence(ctx, "P-100", "CAB-01", "Wiring", "alice"); err != nil {
			t.Fatalf("LogCategoryOccurrence: %v", err)
		}
	}
	if err := store.LogCategoryOccurrence(ctx, "P-100", "CAB-02", "Mechanical", "bob"); err != nil {
		t.Fatalf("LogCategoryOccurrence: %v", err)
	}
	if err := store.LogCategoryOccurrence(ctx, "P-100", "CAB-01", "", "alice"); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("empty category should be a validation error, got %v", err)
	}

	counts, err := store.CategoryCounts(ctx)
	if err != nil {
		t.Fatalf("CategoryCounts: %v", err)
	}
	if counts["Wiring"] != 3 || counts["Mechanical"] != 1 {
		t.Fatalf("CategoryCounts = %v", counts)
	}
}

func TestRecentCacheEvictsBeyondLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRecentLimit(20))
	store := testsupport.MustOpenCabinets(t, cfg)
	ctx := context.Background()

	const extra = 5
	for i := 0; i < 20+extra; i++ {
		name := fmt.Sprintf("P-%03d", i)
		if err := store.Touch(ctx, name, "/projects/"+name); err != nil {
			t.Fatalf("Touch %s: %v", name, err)
		}
	}

	recents, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recents) != 20 {
		t.Fatalf("cache holds %d entries, want 20", len(recents))
	}
	if recents[0].Name != "P-024" {
		t.Fatalf("most recent = %s, want P-024", recents[0].Name)
	}
	for _, r := range recents {
		if r.Name == "P-000" || r.Name == "P-004" {
			t.Fatalf("oldest entries should be evicted, found %s", r.Name)
		}
	}
}

func TestRecentCacheDedupesByPath(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRecentLimit(20))
	store := testsupport.MustOpenCabinets(t, cfg)
	ctx := context.Background()

	if err := store.Touch(ctx, "P-100", "/projects/P-100"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := store.Touch(ctx, "P-200", "/projects/P-200"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := store.Touch(ctx, "P-100", "/projects/P-100"); err != nil {
		t.Fatalf("re-Touch: %v", err)
	}

	recents, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recents) != 2 {
		t.Fatalf("cache holds %d entries, want 2", len(recents))
	}
	if recents[0].Name != "P-100" {
		t.Fatalf("re-touched project should be most recent, got %s", recents[0].Name)
	}
}
