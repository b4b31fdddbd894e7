package reporter

import (
	"fmt"
	"strings"
)

// Kind names one of the three reports.
type Kind string

const (
	// KindNewOnly lists the GRNs present only in the new report.
	KindNewOnly Kind = "new"

	// KindStatus is the full new report tagged Old/New.
	KindStatus Kind = "status"

	// KindAmount lists common GRNs whose amount changed.
	KindAmount Kind = "amount"
)

// Report describes how one kind is presented and exported.
type Report struct {
	Kind Kind

	// Title is the heading shown above the report.
	Title string

	// Button is the label of the trigger in the interactive shell.
	Button string

	// SheetName is the name of the single sheet in the export.
	SheetName string

	// FileName is the download file name.
	FileName string

	// DownloadLabel is the text of the download link.
	DownloadLabel string

	// CountLabel describes Count, e.g. "new GRNs".
	CountLabel string

	// EmptyMessage is shown instead of a table when there are no rows.
	EmptyMessage string

	// ExportWhenEmpty exports a header-only workbook for an empty result.
	ExportWhenEmpty bool
}

var reports = []Report{
	{
		Kind:          KindNewOnly,
		Title:         "Get a Report of ONLY New GRNs",
		Button:        "Generate New GRN Report",
		SheetName:     "New_GRNs",
		FileName:      "New_GRN_Report.xlsx",
		DownloadLabel: "Download New GRN Report",
		CountLabel:    "new GRNs",
		EmptyMessage:  "No new GRNs found.",
	},
	{
		Kind:            KindStatus,
		Title:           "Get the Full New Report with an 'Old'/'New' Status Column",
		Button:          "Generate Full Report with Status",
		SheetName:       "Report_With_Status",
		FileName:        "Full_Report_with_Status.xlsx",
		DownloadLabel:   "Download Full Report with Status",
		CountLabel:      "rows in the full report",
		EmptyMessage:    "The new report has no rows.",
		ExportWhenEmpty: true,
	},
	{
		Kind:          KindAmount,
		Title:         "Find Amount Differences for Common GRNs",
		Button:        "Generate Amount Difference Report",
		SheetName:     "Amount_Differences",
		FileName:      "Amount_Difference_Report.xlsx",
		DownloadLabel: "Download Amount Difference Report",
		CountLabel:    "GRNs with changed amounts",
		EmptyMessage:  "No amount differences found for any common GRNs.",
	},
}

// Reports returns every report, in display order.
func Reports() []Report {
	return append([]Report(nil), reports...)
}

// Lookup returns the report of kind.
func Lookup(kind Kind) (Report, bool) {
	for _, r := range reports {
		if r.Kind == kind {
			return r, true
		}
	}
	return Report{}, false
}

// ParseKind resolves a report name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Lookup(k); !ok {
		return "", fmt.Errorf("unknown report %q (want new, status or amount)", s)
	}
	return k, nil
}
