package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vermlog/config"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the complete SQLite database file",
	Long: `Destructive database cleanup command.

This command always deletes the complete SQLite database file with all entries.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the configured database (requires interactive confirmation)
  vermlog delete

  # Delete a database at a custom path
  vermlog delete --db ./test.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		deleted, err := deleteDatabase(cfg, dbPath, deletePromptInput, deletePromptOutput)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted database file: %s\n", deleted)
		return nil
	},
}

// deleteDatabase resolves the database file the same way every other command
// does (--db, then storage.path, then the OneDrive default), asks for
// confirmation and removes the file. It returns the removed path.
func deleteDatabase(cfg *config.Config, override string, input io.Reader, output io.Writer) (string, error) {
	path, err := cfg.DatabasePath(override)
	if err != nil {
		return "", err
	}

	confirmed, err := confirmDeletePrompt(input, output, path)
	if err != nil {
		return "", err
	}
	if !confirmed {
		return "", fmt.Errorf("delete aborted: confirmation was not 'Y'")
	}

	if err := removeDatabaseFile(path); err != nil {
		return "", err
	}
	log.Warn().Str("db", path).Msg("deleted database file")
	return path, nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func confirmDeletePrompt(input io.Reader, output io.Writer, path string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %q? Type Y to confirm: ", path); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
