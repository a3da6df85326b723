package config

const (
	defaultDataDir     = "~/.local/share/punchtrack"
	defaultProjectsDir = "~/punchtrack/projects"
	defaultLogDir      = "~/.local/share/punchtrack/logs"

	defaultPunchSheet        = "Punch Sheet"
	defaultChecklistSheet    = "Interphase"
	defaultPunchStartRow     = 8
	defaultChecklistStartRow = 11
	defaultScanRowCap        = 2000

	// DefaultMatchThreshold is the minimum normalized similarity ratio for
	// a fuzzy description match to bind an annotation to a punch row.
	DefaultMatchThreshold = 0.60

	defaultHandoffCleanupDays = 30
	defaultRecentLimit        = 20

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			ProjectsDir: defaultProjectsDir,
			LogDir:      defaultLogDir,
		},
		Workbook: Workbook{
			PunchSheet:        defaultPunchSheet,
			ChecklistSheet:    defaultChecklistSheet,
			PunchStartRow:     defaultPunchStartRow,
			ChecklistStartRow: defaultChecklistStartRow,
			ScanRowCap:        defaultScanRowCap,
		},
		Matching: Matching{
			Threshold: DefaultMatchThreshold,
		},
		Handoff: Handoff{
			CleanupDays: defaultHandoffCleanupDays,
		},
		Recent: Recent{
			Limit: defaultRecentLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
