package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"shaihulud/pkg/github"
	"shaihulud/pkg/scanner"
)

func TestPrinter_Start(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)

	p.Start(3, "")
	p.Start(12, "acme")

	assert.Equal(t,
		"Starting scan for shai-hulud on 3 users...\n"+
			"Starting scan for shai-hulud on 12 users from org 'acme'...\n",
		buf.String())
}

func TestPrinter_Result(t *testing.T) {
	tests := []struct {
		name     string
		result   scanner.Result
		expected string
	}{
		{
			name:     "flagged",
			result:   scanner.Result{Username: "bob", Outcome: scanner.Flagged("https://github.com/bob/worm")},
			expected: "[FLAG] bob compromised: https://github.com/bob/worm\n",
		},
		{
			name:     "clean",
			result:   scanner.Result{Username: "alice", Outcome: scanner.Clean()},
			expected: "[OKAY] alice\n",
		},
		{
			name: "failed",
			result: scanner.Result{
				Username: "ghost",
				Outcome:  scanner.Failed(github.NewError(github.ErrorTypeNotFound, "User not found", nil)),
			},
			expected: "[ERROR] ghost: User not found\n",
		},
		{
			name:     "failed with unclassified error",
			result:   scanner.Result{Username: "carol", Outcome: scanner.Failed(errors.New("boom"))},
			expected: "[ERROR] carol: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, true).Result(tt.result)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestPrinter_InfoAndSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)

	p.Info("No users to scan. Exiting.")
	p.Summary(scanner.Summary{Total: 4, Flagged: 1, Clean: 2, Failed: 1})

	assert.Equal(t,
		"[INFO] No users to scan. Exiting.\n"+
			"Scanned 4 users: 1 flagged, 2 clean, 1 errors\n",
		buf.String())
}

func TestPrinter_Error(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Error(errors.New("Could not find 'users.txt'. Please provide a valid file."))

	assert.Equal(t, "[ERROR] Could not find 'users.txt'. Please provide a valid file.\n", buf.String())
}

func TestPrinter_Color(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Result(scanner.Result{Username: "alice", Outcome: scanner.Clean()})

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "alice")
}
