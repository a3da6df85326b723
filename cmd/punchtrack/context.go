package main

import (
	"context"
	"errors"
	"os/user"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"punchtrack/internal/cabinet"
	"punchtrack/internal/config"
	"punchtrack/internal/faults"
	"punchtrack/internal/handoff"
	"punchtrack/internal/punch"
	"punchtrack/internal/workbook"
)

type commandContext struct {
	configFlag *string
	actorFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, actorFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		actorFlag:  actorFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// actor resolves who to record on transitions: the --actor flag when set,
// the OS user otherwise.
func (c *commandContext) actor() string {
	if c.actorFlag != nil && strings.TrimSpace(*c.actorFlag) != "" {
		return strings.TrimSpace(*c.actorFlag)
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

func (c *commandContext) withHandoff(fn func(*handoff.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := handoff.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) withCabinets(fn func(*cabinet.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := cabinet.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// noteCabinetStatus mirrors a hand-off transition onto the cabinet
// aggregate. A cabinet that was never synced into the aggregate is skipped,
// not an error.
func (c *commandContext) noteCabinetStatus(stdctx context.Context, projectName, cabinetNo, status string) error {
	return c.withCabinets(func(store *cabinet.Store) error {
		err := store.SetStatus(stdctx, projectName, cabinetNo, status)
		if errors.Is(err, faults.ErrNotFound) {
			return nil
		}
		return err
	})
}

// withPunchSheet opens a cabinet workbook, hands its punch store to fn, and
// saves the workbook when fn made changes without error.
func (c *commandContext) withPunchSheet(path string, save bool, fn func(*punch.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	wb, err := workbook.Open(path)
	if err != nil {
		return err
	}
	defer wb.Close()

	store, err := punch.NewStore(wb, punch.LayoutFromConfig(cfg))
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	if save {
		return wb.SaveWithBackup()
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
