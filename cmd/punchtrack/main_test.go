package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"punchtrack/internal/annotate"
	"punchtrack/internal/cabinet"
	"punchtrack/internal/checklist"
	"punchtrack/internal/config"
	"punchtrack/internal/punch"
	"punchtrack/internal/testsupport"
	"punchtrack/internal/workbook"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	requireContains(t, out, "punchtrack")
	requireContains(t, out, "handoff")
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Refuses to clobber without --overwrite.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite: %v", err)
	}
}

func TestSessionShowRejectsMissingFile(t *testing.T) {
	_, err := runCLI(t, "session", "show", filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected an error for a missing session file")
	}
}

// writeTestConfig writes a config file rooted in a temp directory and
// returns its path alongside the loaded config, so tests can open the same
// stores the CLI will.
func writeTestConfig(t *testing.T, categoryFile string) (string, *config.Config) {
	t.Helper()

	base := t.TempDir()
	body := fmt.Sprintf("[paths]\ndata_dir = %q\nprojects_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "data"),
		filepath.Join(base, "projects"),
		filepath.Join(base, "logs"),
	)
	if categoryFile != "" {
		body += fmt.Sprintf("category_file = %q\n", categoryFile)
	}
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return path, cfg
}

func TestHandoffTransitionsMirrorCabinetStatus(t *testing.T) {
	cfgPath, cfg := writeTestConfig(t, "")
	store := testsupport.MustOpenCabinets(t, cfg)
	ctx := context.Background()

	seed := cabinet.Cabinet{ProjectName: "P-100", CabinetNo: "CAB-01", Status: "quality_inspection"}
	if err := store.Upsert(ctx, seed); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"handoff", "submit", "--project", "P-100", "--cabinet", "CAB-01"}, cabinet.StatusHandedToProduction},
		{[]string{"handoff", "receive", "--cabinet", "CAB-01"}, cabinet.StatusInProgress},
		{[]string{"handoff", "complete", "--cabinet", "CAB-01"}, cabinet.StatusBeingClosedByQuality},
		{[]string{"handoff", "verify", "--cabinet", "CAB-01", "--close"}, cabinet.StatusClosed},
	}
	for _, step := range steps {
		args := append(step.args, "--config", cfgPath, "--actor", "alice")
		if out, err := runCLI(t, args...); err != nil {
			t.Fatalf("%v: %v\n%s", step.args, err, out)
		}
		c, err := store.Get(ctx, "P-100", "CAB-01")
		if err != nil {
			t.Fatalf("Get after %v: %v", step.args, err)
		}
		if c.Status != step.want {
			t.Fatalf("after %v status = %q, want %q", step.args, c.Status, step.want)
		}
	}
}

func TestPunchAddResolvesCatalogAndLogsOccurrence(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "categories.json")
	catalog := `{
		"Mechanical": {"subcategories": {"Enclosure": {"inputs": [], "text": "Enclosure damage"}}},
		"Wiring": {"inputs": [], "text": "Wiring defect"}
	}`
	if err := os.WriteFile(catalogPath, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfgPath, cfg := writeTestConfig(t, catalogPath)

	wbPath := filepath.Join(t.TempDir(), "cab.xlsx")
	h, err := workbook.Create(wbPath, "Punch Sheet", "Interphase")
	if err != nil {
		t.Fatalf("workbook.Create: %v", err)
	}
	testsupport.SetChecklistRow(t, h, 11, "3", "Cabling", "", "", "")
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, err := runCLI(t,
		"punch", "add", "-f", wbPath, "-d", "Loose cable tie",
		"--ref", "3", "--category", "Mechanical/Enclosure",
		"-p", "P-100", "--cabinet", "CAB-01",
		"--config", cfgPath, "--actor", "alice",
	)
	if err != nil {
		t.Fatalf("punch add: %v\n%s", err, out)
	}
	requireContains(t, out, "Logged punch 1")

	// A name outside the catalog is refused before the workbook is touched.
	_, err = runCLI(t,
		"punch", "add", "-f", wbPath, "-d", "Bad paint",
		"--category", "Paint", "--config", cfgPath, "--actor", "alice",
	)
	if err == nil {
		t.Fatal("unknown category should be refused")
	}

	ctx := context.Background()
	store := testsupport.MustOpenCabinets(t, cfg)
	counts, err := store.CategoryCounts(ctx)
	if err != nil {
		t.Fatalf("CategoryCounts: %v", err)
	}
	if counts["Mechanical/Enclosure"] != 1 {
		t.Fatalf("CategoryCounts = %v", counts)
	}
	recents, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recents) != 1 || recents[0].Name != "P-100" {
		t.Fatalf("recent cache = %+v, want P-100", recents)
	}

	// The referenced checklist row was marked NOK by the same command.
	reopened, err := workbook.Open(wbPath)
	if err != nil {
		t.Fatalf("workbook.Open: %v", err)
	}
	defer reopened.Close()
	sheet, err := checklist.NewSheet(reopened, checklist.DefaultLayout())
	if err != nil {
		t.Fatalf("checklist.NewSheet: %v", err)
	}
	rows, err := sheet.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != "NOK" {
		t.Fatalf("checklist rows = %+v, want reference 3 marked NOK", rows)
	}
}

func TestSessionBindLinksAnnotations(t *testing.T) {
	cfgPath, _ := writeTestConfig(t, "")

	wbPath := filepath.Join(t.TempDir(), "cab.xlsx")
	h, err := workbook.Create(wbPath, "Punch Sheet", "Interphase")
	if err != nil {
		t.Fatalf("workbook.Create: %v", err)
	}
	store, err := punch.NewStore(h, punch.DefaultLayout())
	if err != nil {
		t.Fatalf("punch.NewStore: %v", err)
	}
	if _, _, err := store.Append(punch.Entry{Description: "Loose terminal on X1 connector", CheckedBy: "alice"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	s := annotate.NewSession("P-100", "SO-1", "CAB-01", "cab.pdf", 2)
	a := annotate.New(annotate.KindLabel, 0, nil, annotate.SeverityDefect)
	a.Text = "Loose terminal on X1 connector"
	s.Add(a)
	if err := s.Save(sessionPath); err != nil {
		t.Fatalf("session Save: %v", err)
	}

	out, err := runCLI(t, "session", "bind",
		"--session", sessionPath, "-f", wbPath, "--config", cfgPath)
	if err != nil {
		t.Fatalf("session bind: %v\n%s", err, out)
	}
	requireContains(t, out, "Bound 1")

	reloaded, err := annotate.LoadSession(sessionPath)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if len(reloaded.Annotations) != 1 || reloaded.Annotations[0].SerialNo != 1 {
		t.Fatalf("annotations = %+v, want serial 1 bound", reloaded.Annotations)
	}
}
