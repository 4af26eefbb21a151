package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

// entryRow is the presentation shape of one catalog entry for machine
// readable list output.
type entryRow struct {
	ID        string `json:"id"        yaml:"id"`
	Name      string `json:"name"      yaml:"name"`
	Type      string `json:"type"      yaml:"type"`
	Instances int    `json:"instances" yaml:"instances"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Long: `List the game entries the uni server currently serves.

The table shows each entry's id, display name, type label, and how many
launchable instances it carries.`,
	Example: `  # List entries as a table
  uni-remote list

  # Machine-readable listing
  uni-remote list --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("get format flag: %w", err)
		}

		entries, err := loadEntries(cmd.Context())
		if err != nil {
			return err
		}

		switch format {
		case "table":
			return printEntryTable(entries)
		case "json":
			out, err := json.MarshalIndent(entryRows(entries), "", "  ")
			if err != nil {
				return fmt.Errorf("encode entries: %w", err)
			}
			fmt.Println(string(out))
			return nil
		case "yaml":
			out, err := yaml.Marshal(entryRows(entries))
			if err != nil {
				return fmt.Errorf("encode entries: %w", err)
			}
			fmt.Print(string(out))
			return nil
		default:
			return fmt.Errorf("unknown format %q (want table, json, or yaml)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("format", "f", "table", "output format: table, json, or yaml")
}

func printEntryTable(entries []catalog.Entry) error {
	if len(entries) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tTYPE\tINSTANCES"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		instances := "-"
		if sc, ok := e.Manage.(catalog.SugarCube); ok {
			instances = strconv.Itoa(len(sc.Instances))
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.DisplayName(), e.Label(), instances); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func entryRows(entries []catalog.Entry) []entryRow {
	rows := make([]entryRow, len(entries))
	for i, e := range entries {
		count := 0
		if sc, ok := e.Manage.(catalog.SugarCube); ok {
			count = len(sc.Instances)
		}
		rows[i] = entryRow{
			ID:        e.ID,
			Name:      e.DisplayName(),
			Type:      e.Label(),
			Instances: count,
		}
	}
	return rows
}
