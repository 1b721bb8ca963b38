// =============================================================================
// Fixture Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Fixture Converter. It delegates command
// execution to the cmd package.
//
// USAGE:
//   fixtures serve     - Run the upload page and conversion API
//   fixtures convert   - Convert a fixture export on disk
//   fixtures grades    - List the grades in a fixture export
//   fixtures version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Conversion, parsing, validation, config and HTTP server
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/wscc/fixture-converter/cmd"
)

func main() {
	cmd.Execute()
}
