package main

import (
	"fmt"
	"os"

	"github.com/alexeyco/simpletable"
	"github.com/spf13/cobra"

	"github.com/cycletrack/reconciler/internal/csvimport"
)

var (
	importCSVFile  string
	importPreviewN int
)

var importCSVCmd = &cobra.Command{
	Use:   "import-csv",
	Short: "Normalize a CSV export, infer cycles, and print a bounded preview table",
	RunE:  runImportCSV,
}

func init() {
	importCSVCmd.Flags().StringVar(&importCSVFile, "file", "", "path to the CSV file (required)")
	importCSVCmd.Flags().IntVar(&importPreviewN, "preview", 10, "number of rows to render in the preview table")
	importCSVCmd.MarkFlagRequired("file")
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(importCSVFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", importCSVFile, err)
	}

	result := csvimport.Normalize(string(data))
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: row %d: %s: %s (%q)\n", e.Row, e.Field, e.Message, e.Value)
		}
		return fmt.Errorf("csv import failed: %d error(s)", len(result.Errors))
	}

	cycles := csvimport.InferCycles(result.Observations)
	fmt.Printf("%d observations normalized, %d cycles inferred, %d warnings\n",
		len(result.Observations), len(cycles), len(result.Warnings))
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: row %d: %s: %s (%q)\n", w.Row, w.Field, w.Message, w.Value)
	}

	preview, err := csvimport.PreviewRows(string(data), importPreviewN)
	if err != nil {
		return err
	}
	printPreviewTable(preview)
	return nil
}

func printPreviewTable(rows []csvimport.PreviewRow) {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Row"},
			{Align: simpletable.AlignCenter, Text: "Date"},
			{Align: simpletable.AlignCenter, Text: "Temp"},
			{Align: simpletable.AlignCenter, Text: "CM"},
			{Align: simpletable.AlignCenter, Text: "OPK"},
			{Align: simpletable.AlignCenter, Text: "Intercourse"},
		},
	}

	for _, r := range rows {
		table.Body.Cells = append(table.Body.Cells, []*simpletable.Cell{
			{Text: fmt.Sprintf("%d", r.Row)},
			{Text: r.Date},
			{Text: r.Temperature},
			{Text: r.CervicalMucus},
			{Text: r.OPK},
			{Text: r.IntercourseFlag},
		})
	}

	table.SetStyle(simpletable.StyleDefault)
	fmt.Println(table.String())
}
