// Package cli provides the interactive prompt helpers used by the menu
// surface: line input, destructive-action confirmation, and identifier list
// parsing. Everything here is simple request/response I/O; batch semantics
// live in the pipeline package.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/portfolio-uploader/internal/config"
)

// ResetToken is the literal string a user must type to confirm a full reset.
const ResetToken = "RESET"

// PromptLine prints the label and reads one trimmed line from stdin.
func PromptLine(label string) string {
	fmt.Printf("%s: ", label)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read input")
		return ""
	}
	return strings.TrimSpace(input)
}

// ConfirmReset runs the configured confirmation flow for the full-reset
// action and reports whether the user confirmed. The single policy requires
// typing the reset token; the double policy adds a yes/no prompt after it.
func ConfirmReset(policy string) bool {
	token := PromptLine(fmt.Sprintf("Type %s to delete ALL photos and assets", ResetToken))
	if token != ResetToken {
		fmt.Println("Reset cancelled.")
		return false
	}

	if policy == config.ResetConfirmDouble {
		answer := strings.ToLower(PromptLine("This cannot be undone. Continue? [y/N]"))
		if answer != "y" && answer != "yes" {
			fmt.Println("Reset cancelled.")
			return false
		}
	}

	return true
}

// ParseIDNumbers parses a comma-separated numeric list ("3, 17,42") into the
// numeric suffixes of the identifier namespace. Empty input and any
// non-numeric entry are errors.
func ParseIDNumbers(input string) ([]int, error) {
	parts := strings.Split(input, ",")

	var numbers []int
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid identifier number %q", part)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid identifier number %d", n)
		}
		numbers = append(numbers, n)
	}

	if len(numbers) == 0 {
		return nil, fmt.Errorf("no identifier numbers given")
	}
	return numbers, nil
}
