package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWorkbook()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		c.Paths.ProjectsDir = defaultProjectsDir
	}
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return fmt.Errorf("paths.projects_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CategoryFile) != "" {
		if c.Paths.CategoryFile, err = expandPath(c.Paths.CategoryFile); err != nil {
			return fmt.Errorf("paths.category_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWorkbook() {
	if strings.TrimSpace(c.Workbook.PunchSheet) == "" {
		c.Workbook.PunchSheet = defaultPunchSheet
	}
	if strings.TrimSpace(c.Workbook.ChecklistSheet) == "" {
		c.Workbook.ChecklistSheet = defaultChecklistSheet
	}
	if c.Workbook.PunchStartRow <= 0 {
		c.Workbook.PunchStartRow = defaultPunchStartRow
	}
	if c.Workbook.ChecklistStartRow <= 0 {
		c.Workbook.ChecklistStartRow = defaultChecklistStartRow
	}
	if c.Workbook.ScanRowCap <= 0 {
		c.Workbook.ScanRowCap = defaultScanRowCap
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
