package cmd

import (
	"errors"
	"fmt"

	"vermlog/importer"
	"vermlog/internal/classify"
	"vermlog/storage"
	"vermlog/worklog"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	importInputs  []string
	importFormat  string
	importDryRun  bool
	importSkipDup bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel entries into the local SQLite database",
	Long: `Read entry files, validate every row and persist them in SQLite.

Accepted headers are the columns of "vermlog export --raw" (Date, Employee, Site, CostCenter,
Activity, Result, Start, End, DirectFraction, Notes) and the German column names of older
workbooks (Datum, Mitarbeiter, Baustelle, KST, Tätigkeit, Ergebnis, Start, Ende, Tagesanteil,
Notizen). Rows with start and end time are imported as time ranges; all other rows need a day
fraction.

The import is all-or-nothing: the first invalid row aborts it and nothing is stored.
When --format is omitted, the format is inferred from each input file extension.`,
	Example: `
  # Import a raw export
  vermlog import -i ./entries_2026-03.csv

  # Import an old workbook and check it first
  vermlog import -i ./Stunden_2025.xlsx --dry-run

  # Skip rows that already exist in the database
  vermlog import -i ./entries_2026-03.csv --skip-duplicates
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}

		result, err := importer.Run(importInputs, importer.RunOptions{
			Format:          importFormat,
			Delimiter:       app.cfg.DelimiterRune(),
			DefaultEmployee: app.cfg.EmployeeName(),
			Calculator:      app.calc,
		})
		if err != nil {
			var rowErr *importer.RowError
			if errors.As(err, &rowErr) {
				if _, ok := worklog.AsValidationError(rowErr.Err); ok {
					fmt.Printf("%s row %d:\n", rowErr.Path, rowErr.Row)
					return printViolations(rowErr.Err)
				}
			}
			return err
		}

		if importDryRun {
			fmt.Printf("Dry run. Files: %d, Rows read: %d, Rows valid: %d, Rows skipped: %d\n",
				result.FilesProcessed, result.RowsRead, result.RowsMapped, result.RowsSkipped)
			return nil
		}

		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries := result.Entries
		duplicates := 0
		if importSkipDup {
			entries, duplicates, err = withoutStoredDuplicates(store, entries)
			if err != nil {
				return err
			}
		}

		inserted, err := store.InsertEntries(entries)
		if err != nil {
			return err
		}
		log.Info().Int("rows", inserted).Strs("files", importInputs).Msg("import completed")

		fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Duplicates skipped: %d, Rows persisted: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsMapped,
			result.RowsSkipped,
			duplicates,
			inserted,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate the files without storing anything")
	importCmd.Flags().BoolVar(&importSkipDup, "skip-duplicates", false, "Do not store rows equal to an entry already stored on the same day")

	_ = importCmd.MarkFlagRequired("input")
}

// withoutStoredDuplicates drops entries equivalent to an already stored entry
// of their day, and repeated rows within the import itself.
func withoutStoredDuplicates(store *storage.SQLiteStore, entries []worklog.Entry) ([]worklog.Entry, int, error) {
	byDay := map[string][]worklog.Entry{}
	kept := make([]worklog.Entry, 0, len(entries))
	skipped := 0

	for _, entry := range entries {
		key := entry.DateString()
		existing, ok := byDay[key]
		if !ok {
			stored, err := store.ListEntriesForDate(entry.Date)
			if err != nil {
				return nil, 0, err
			}
			existing = stored
		}
		if classify.ClassifyCandidate(entry, existing).Status == classify.StatusDuplicate {
			skipped++
			byDay[key] = existing
			continue
		}
		kept = append(kept, entry)
		byDay[key] = append(existing, entry)
	}
	return kept, skipped, nil
}
