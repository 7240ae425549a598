package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUsernames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "one per line",
			input:    "alice\nbob\n",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "trims whitespace and drops blanks",
			input:    "  alice  \n\n\t\nbob\r\n   \n",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "keeps duplicates in order",
			input:    "bob\nalice\nbob",
			expected: []string{"bob", "alice", "bob"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "only whitespace",
			input:    "\n  \n\t",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadUsernames(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadUsernamesFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "users.txt")
		require.NoError(t, os.WriteFile(path, []byte("alice\n\nbob\n"), 0644))

		got, err := LoadUsernamesFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadUsernamesFromFile(filepath.Join(dir, "nope.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("directory is unreadable", func(t *testing.T) {
		_, err := LoadUsernamesFromFile(dir)
		require.Error(t, err)
		assert.False(t, errors.Is(err, fs.ErrNotExist))
	})
}
