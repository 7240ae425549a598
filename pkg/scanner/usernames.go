package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 1 << 20

// LoadUsernames reads one username per line. Surrounding whitespace is
// trimmed and blank lines are dropped. Order and duplicates are preserved.
func LoadUsernames(r io.Reader) ([]string, error) {
	var usernames []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			usernames = append(usernames, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return usernames, nil
}

// LoadUsernamesFromFile reads usernames from path. A missing file yields an
// error matching fs.ErrNotExist.
func LoadUsernamesFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	usernames, err := LoadUsernames(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return usernames, nil
}
