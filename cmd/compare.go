// =============================================================================
// GRN Comparison Tool - Compare Command
// =============================================================================
//
// This file defines the 'compare' command, which runs one or all reports over
// two exports given on the command line.
//
// COMMAND USAGE:
//   grncompare compare --old OLD --new NEW [flags]
//
// FLAGS:
//   --report   : new, status, amount or all (default all)
//   --out      : Output directory (overrides output.dir)
//   --preview  : Rows printed per report (default 10, 0 prints none)
//   --dry-run  : Print the reports without writing any file
//   --summary  : Also write a run summary log next to the reports
//
// PIPELINE (per report):
//   1. Run the action through the reporter
//   2. Print the count and a preview table
//   3. Write the workbook into the output directory, unless empty
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ginjaninja78/grn-comparison/internal/reporter"
	"github.com/ginjaninja78/grn-comparison/internal/types"
	"github.com/ginjaninja78/grn-comparison/internal/validation"
	"github.com/ginjaninja78/grn-comparison/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	oldPath     string
	newPath     string
	reportName  string
	outDir      string
	previewRows int
	dryRun      bool
	withSummary bool
)

// compareCmd represents the 'compare' command.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two GRN exports and write the reports",
	Long: `The compare command loads the old and new exports (XLSX, or CSV by file
extension), runs the requested reports and writes each non-empty report to the
output directory under its fixed file name:

  new     -> New_GRN_Report.xlsx
  status  -> Full_Report_with_Status.xlsx
  amount  -> Amount_Difference_Report.xlsx

Both files must contain the key and amount columns after the 5-row preamble.`,

	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&oldPath, "old", "", "Path to the OLD export (file A)")
	compareCmd.Flags().StringVar(&newPath, "new", "", "Path to the NEW export (file B)")
	compareCmd.Flags().StringVarP(&reportName, "report", "r", "all", "Report to run: new, status, amount or all")
	compareCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config)")
	compareCmd.Flags().IntVar(&previewRows, "preview", 10, "Rows of each report to print")
	compareCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the reports without writing output files")
	compareCmd.Flags().BoolVar(&withSummary, "summary", false, "Write a run summary log to the output directory")

	_ = compareCmd.MarkFlagRequired("old")
	_ = compareCmd.MarkFlagRequired("new")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runCompare(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	kinds, err := selectedKinds(reportName)
	if err != nil {
		return err
	}

	oldName, oldData, err := utils.ReadInput(oldPath)
	if err != nil {
		return err
	}
	newName, newData, err := utils.ReadInput(newPath)
	if err != nil {
		return err
	}

	dir := appConfig.Output.Dir
	if outDir != "" {
		dir = outDir
	}
	files := utils.NewFileManager(dir, appConfig.Output.DatedSubdirs)

	rep := reporter.New(appConfig.Comparison)
	summary := utils.RunSummary{StartTime: startTime, OldFile: oldPath, NewFile: newPath}

	fmt.Fprintln(out, "=== GRN Comparison Tool ===")
	fmt.Fprintf(out, "Old report: %s\n", oldPath)
	fmt.Fprintf(out, "New report: %s\n", newPath)

	for i, kind := range kinds {
		res, err := rep.Run(cmd.Context(), kind,
			reporter.Input{Name: oldName, Data: oldData},
			reporter.Input{Name: newName, Data: newData},
		)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), reporter.Describe(err))
			return &reportedError{err: err}
		}

		// Warnings describe the inputs, so they are the same for every report.
		if i == 0 {
			fmt.Fprintln(out, validation.FormatIssues(res.Warnings))
			for _, w := range res.Warnings {
				summary.Warnings = append(summary.Warnings, w.String())
			}
		}

		info := utils.ReportInfo{
			Name:     string(kind),
			Count:    res.Count,
			Rows:     res.Table.Len(),
			ActionID: res.ActionID,
		}

		fmt.Fprintf(out, "\n--- %s ---\n", res.Report.Title)
		printResult(out, res, previewRows)

		if res.Downloadable() && !dryRun {
			info.OutputFile, err = files.WriteOutput(res.Report.FileName, res.Data)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  -> %s\n", info.OutputFile)
		}
		summary.Reports = append(summary.Reports, info)
	}

	summary.EndTime = time.Now()
	if withSummary && !dryRun {
		path, err := files.WriteSummaryLog(summary)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSummary written to %s\n", path)
	}

	fmt.Fprintf(out, "\nTime elapsed: %s\n", summary.EndTime.Sub(startTime).Round(time.Millisecond))
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// selectedKinds resolves the --report flag.
func selectedKinds(name string) ([]reporter.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		var kinds []reporter.Kind
		for _, r := range reporter.Reports() {
			kinds = append(kinds, r.Kind)
		}
		return kinds, nil
	}

	kind, err := reporter.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return []reporter.Kind{kind}, nil
}

// printResult prints the headline and a preview of the first rows.
func printResult(w io.Writer, res *reporter.Result, limit int) {
	if res.Report.Kind == reporter.KindStatus {
		fmt.Fprintf(w, "Generated the full report with status: %d rows.\n", res.Count)
	} else {
		fmt.Fprintf(w, "Found %d %s.\n", res.Count, res.Report.CountLabel)
	}

	if res.Table.Len() == 0 {
		fmt.Fprintln(w, res.Report.EmptyMessage)
		return
	}
	if limit <= 0 {
		return
	}

	printTable(w, res.Table, limit)
	if n := res.Table.Len(); n > limit {
		fmt.Fprintf(w, "  ... %d more row(s)\n", n-limit)
	}
}

func printTable(w io.Writer, table *types.Table, limit int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  "+strings.Join(table.Headers, "\t"))

	for i := 0; i < table.Len() && i < limit; i++ {
		cells := table.Cells(i)
		texts := make([]string, len(cells))
		for j, c := range cells {
			texts[j] = c.Text()
		}
		fmt.Fprintln(tw, "  "+strings.Join(texts, "\t"))
	}
	tw.Flush()
}
