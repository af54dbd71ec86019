package main

import (
	"fmt"
	"os"

	"ifcaudit/internal/errors"
)

func main() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, fix := range errors.GetSuggestedFixes(errors.CodeOf(err)) {
			switch {
			case fix.Command != "":
				fmt.Fprintf(os.Stderr, "  hint: %s ($ %s)\n", fix.Description, fix.Command)
			case fix.URL != "":
				fmt.Fprintf(os.Stderr, "  hint: %s (%s)\n", fix.Description, fix.URL)
			}
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps error codes to process exit statuses: 2 for bad input or
// configuration, 3 for unreadable models, 1 otherwise.
func exitCode(err error) int {
	switch errors.CodeOf(err) {
	case errors.InvalidInput, errors.ConfigInvalid:
		return 2
	case errors.ModelUnreadable, errors.NoProjectElement:
		return 3
	}
	return 1
}
