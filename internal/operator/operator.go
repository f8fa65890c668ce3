// Package operator provides the command line implementations of core.Operator.
//
// [Preset] answers every prompt from values fixed up front (command line
// flags). [Prompt] asks on a terminal.
package operator

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveOutput turns an operator answer into an output file path. A blank
// answer takes the suggested name, and an existing directory receives the
// suggested name inside it.
func resolveOutput(answer, suggested string) string {
	answer = cleanPath(answer)
	if answer == "" {
		return suggested
	}
	if info, err := os.Stat(answer); err == nil && info.IsDir() {
		return filepath.Join(answer, suggested)
	}
	return answer
}

// cleanPath trims whitespace and the quotes terminals add around dropped paths.
func cleanPath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
