package main

import (
	"testing"

	"github.com/JonMunkholm/museumcounts/internal/core"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		status core.RunStatus
		want   int
	}{
		{core.RunSucceeded, exitOK},
		{core.RunCancelled, exitCancelled},
		{core.RunEmpty, exitEmpty},
		{core.RunFailed, exitFailed},
		{"", exitFailed},
	}

	for _, tt := range tests {
		if got := exitCode(tt.status); got != tt.want {
			t.Errorf("exitCode(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
