package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func getProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "../.."
	}
	// Walk up until we find go.mod
	for dir != "/" {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		dir = filepath.Dir(dir)
	}
	return "../.."
}

func getBinaryPath(t *testing.T) string {
	t.Helper()

	// Use pre-built binary from CI or build locally
	binaryPath := os.Getenv("SHAIHULUD_BINARY")
	if binaryPath == "" {
		binaryPath = filepath.Join(t.TempDir(), "shaihulud-test")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/shaihulud")
		buildCmd.Dir = getProjectRoot()
		var buildOut bytes.Buffer
		buildCmd.Stdout = &buildOut
		buildCmd.Stderr = &buildOut
		if err := buildCmd.Run(); err != nil {
			t.Fatalf("Failed to build binary: %v\nOutput: %s", err, buildOut.String())
		}
	} else if !filepath.IsAbs(binaryPath) {
		binaryPath = filepath.Join(getProjectRoot(), binaryPath)
	}

	return binaryPath
}

// runBinary runs the CLI with an isolated home directory and no ambient token
func runBinary(t *testing.T, binaryPath string, args ...string) (string, string, int) {
	t.Helper()

	home := t.TempDir()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = home
	cmd.Env = []string{
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + home,
		"PATH=" + os.Getenv("PATH"),
		"NO_COLOR=1",
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("Failed to run binary: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}

	return stdout.String(), stderr.String(), exitCode
}

func TestCLIHelp(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "no arguments (shows help)",
			args:     []string{},
			expected: "shaihulud",
		},
		{
			name:     "help command",
			args:     []string{"--help"},
			expected: "scan-org",
		},
		{
			name:     "scan-file help",
			args:     []string{"scan-file", "--help"},
			expected: "one username per line",
		},
		{
			name:     "scan-org help",
			args:     []string{"scan-org", "--help"},
			expected: "read:org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runBinary(t, binaryPath, tt.args...)
			if code != 0 {
				t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
			}
			if !strings.Contains(stdout, tt.expected) {
				t.Errorf("Expected output to contain '%s', got: %s", tt.expected, stdout)
			}
		})
	}
}

func TestCLIPreconditions(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()

	emptyFile := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(emptyFile, []byte("\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	missingFile := filepath.Join(dir, "missing.txt")

	t.Run("missing file exits 1", func(t *testing.T) {
		stdout, stderr, code := runBinary(t, binaryPath, "scan-file", missingFile)
		if code != 1 {
			t.Errorf("Expected exit code 1, got %d", code)
		}
		if stdout != "" {
			t.Errorf("Expected no stdout, got: %s", stdout)
		}
		want := "[ERROR] Could not find '" + missingFile + "'. Please provide a valid file."
		if !strings.Contains(stderr, want) {
			t.Errorf("Expected stderr to contain %q, got: %s", want, stderr)
		}
	})

	t.Run("empty file exits 0", func(t *testing.T) {
		stdout, _, code := runBinary(t, binaryPath, "scan-file", emptyFile)
		if code != 0 {
			t.Errorf("Expected exit code 0, got %d", code)
		}
		if stdout != "[INFO] No users to scan. Exiting.\n" {
			t.Errorf("Unexpected stdout: %q", stdout)
		}
	})
}

func TestCLIScanAgainstFakeAPI(t *testing.T) {
	binaryPath := getBinaryPath(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/orgs/acme/members":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"login": "alice"}, {"login": "mallory"}})
		case "/users/alice/repos":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "notes", "description": "notes", "html_url": "https://github.com/alice/notes"}})
		case "/users/mallory/repos":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "q1w2", "description": "Sha1-Hulud: The Second Coming.", "html_url": "https://github.com/mallory/q1w2"}})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		}
	}))
	defer server.Close()

	t.Run("scan-org", func(t *testing.T) {
		stdout, stderr, code := runBinary(t, binaryPath, "scan-org", "acme", "--api-url", server.URL, "--token", "x")
		if code != 0 {
			t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
		}
		for _, want := range []string{
			"Starting scan for shai-hulud on 2 users from org 'acme'...",
			"[OKAY] alice",
			"[FLAG] mallory compromised: https://github.com/mallory/q1w2",
			"Scanned 2 users: 1 flagged, 1 clean, 0 errors",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("Expected stdout to contain %q, got: %s", want, stdout)
			}
		}
		if strings.Contains(stdout, "\x1b[") {
			t.Errorf("Expected no color escapes in piped output")
		}
	})

	t.Run("unknown org exits 1", func(t *testing.T) {
		stdout, stderr, code := runBinary(t, binaryPath, "scan-org", "nobody", "--api-url", server.URL)
		if code != 1 {
			t.Errorf("Expected exit code 1, got %d", code)
		}
		if stdout != "" {
			t.Errorf("Expected no stdout, got: %s", stdout)
		}
		if !strings.Contains(stderr, "[ERROR] Could not load members for org 'nobody': Organization not found") {
			t.Errorf("Unexpected stderr: %s", stderr)
		}
	})
}
