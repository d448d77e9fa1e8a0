package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vermlog/storage"
	"vermlog/worklog"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var entryDeleteYes bool

var (
	entryDeleteInput  io.Reader = os.Stdin
	entryDeleteOutput io.Writer = os.Stdout
)

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one entry.",
	Long:  `Delete one entry after a confirmation prompt (y/j). --yes skips the prompt.`,
	Example: `
  vermlog entry delete 12
  vermlog entry delete 12 --yes
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		app, err := loadApp()
		if err != nil {
			return err
		}
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, found, err := store.GetEntry(id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("entry #%d: %w", id, storage.ErrEntryNotFound)
		}

		if !entryDeleteYes {
			confirmed, err := confirmEntryDelete(entryDeleteInput, entryDeleteOutput, entry)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if _, err := store.DeleteEntry(id); err != nil {
			return fmt.Errorf("delete entry #%d: %w", id, err)
		}
		log.Info().Int64("id", id).Msg("deleted entry")
		fmt.Printf("Deleted entry #%d\n", id)
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryDeleteCmd)

	entryDeleteCmd.Flags().BoolVarP(&entryDeleteYes, "yes", "y", false, "Delete without confirmation")
}

func confirmEntryDelete(input io.Reader, output io.Writer, entry worklog.Entry) (bool, error) {
	if output == nil {
		output = io.Discard
	}
	if _, err := fmt.Fprintf(output, "Delete entry #%d (%s, %s, %s)? [y/N]: ",
		entry.ID, entry.DateString(), entry.Site, worklog.FormatFraction(entry.DayFraction)); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "j", "ja":
		return true, nil
	default:
		return false, nil
	}
}
