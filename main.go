// =============================================================================
// Portfolio Import - Main Entry Point
// =============================================================================
//
// This is the main entry point for the patimport CLI application. It hands
// control to the Cobra commands of the cmd package.
//
// USAGE:
//   patimport import        - Import portfolio spreadsheets and export families
//   patimport convert       - Canonicalize patent numbers
//   patimport schema        - Print the XSD of the XML export
//   patimport version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Import logic (readers, resolver, numbers, dates, exports)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/clemsmoz/startingbloch-sub005/cmd"
)

func main() {
	cmd.Execute()
}
