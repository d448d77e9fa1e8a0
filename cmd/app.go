package cmd

import (
	"fmt"

	"vermlog/config"
	"vermlog/storage"
	"vermlog/worklog"
)

// app is the validated configuration a command works with.
type app struct {
	cfg    *config.Config
	calc   worklog.Calculator
	dbPath string
}

func loadApp() (*app, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	calc, err := cfg.Calculator()
	if err != nil {
		return nil, err
	}
	resolved, err := cfg.DatabasePath(dbPath)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, calc: calc, dbPath: resolved}, nil
}

func (a *app) openStore() (*storage.SQLiteStore, error) {
	store, err := storage.OpenSQLite(a.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", a.dbPath, err)
	}
	return store, nil
}

// printViolations writes one line per violation and returns an error for the
// command result.
func printViolations(err error) error {
	validationErr, ok := worklog.AsValidationError(err)
	if !ok {
		return err
	}
	for _, violation := range validationErr.Violations {
		fmt.Printf("  %s: %s\n", violation.Field, violation.Message)
	}
	return fmt.Errorf("entry rejected: %d violation(s)", len(validationErr.Violations))
}
