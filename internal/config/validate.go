package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWorkbook(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Handoff.CleanupDays < 0 {
		return errors.New("handoff.cleanup_days must not be negative")
	}
	if c.Recent.Limit <= 0 {
		return errors.New("recent.limit must be positive")
	}
	return nil
}

func (c *Config) validateWorkbook() error {
	if c.Workbook.PunchStartRow < 2 {
		return errors.New("workbook.punch_start_row must leave room for header rows")
	}
	if c.Workbook.ChecklistStartRow < 2 {
		return errors.New("workbook.checklist_start_row must leave room for header rows")
	}
	if c.Workbook.ScanRowCap <= c.Workbook.PunchStartRow {
		return fmt.Errorf("workbook.scan_row_cap must exceed punch_start_row (%d)", c.Workbook.PunchStartRow)
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 1 {
		return errors.New("matching.threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
