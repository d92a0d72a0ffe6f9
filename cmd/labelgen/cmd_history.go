package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"labelgen/cmd/labelgen/ui"
	"labelgen/internal/labels"
	"labelgen/internal/store"
)

var historyFormat string

// historyCmd prints the label history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show every generated label",
	Long: `Prints the label history oldest first.

Formats:
  table  aligned columns (default)
  json   array of records
  csv    header row plus one row per label`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "table", "Output format: table, json or csv")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(historyFormat)
	switch format {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q (want table, json or csv)", historyFormat)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	app, st, err := openApp()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := app.History(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return writeHistoryJSON(out, records)
	case "csv":
		return writeHistoryCSV(out, records)
	}
	fmt.Fprint(out, ui.NewHistoryTable(records).View(ui.DefaultStyles()))
	return nil
}

func writeHistoryJSON(w io.Writer, records []store.Record) error {
	if records == nil {
		records = []store.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeHistoryCSV(w io.Writer, records []store.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(labels.HistoryHeaders); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(labels.HistoryRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
