// =============================================================================
// GRN Comparison Tool - Main Entry Point
// =============================================================================
//
// USAGE:
//   grncompare compare   - Compare two exports and write the reports
//   grncompare serve     - Start the interactive comparison shell
//   grncompare version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loading, comparison, export and the web shell
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/grn-comparison/cmd"
)

func main() {
	cmd.Execute()
}
