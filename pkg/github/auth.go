package github

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"shaihulud/pkg/config"
)

// TokenResult holds a resolved credential and where it came from.
// An empty Token means requests are made unauthenticated.
type TokenResult struct {
	Token  string
	Source string
}

// Authenticated reports whether a credential was found
func (r TokenResult) Authenticated() bool {
	return r.Token != ""
}

// ResolveToken picks the credential used for the whole run.
// Search order:
//  1. explicit override (--token)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. github.token in the config file
//  5. .env file in the working directory
//  6. gh CLI hosts.yml ($XDG_CONFIG_HOME/gh/hosts.yml or ~/.config/gh/hosts.yml)
//
// Finding nothing is not an error.
func ResolveToken(override string, cfg *config.Config) TokenResult {
	if token := strings.TrimSpace(override); token != "" {
		return TokenResult{Token: token, Source: "--token flag"}
	}

	for _, env := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := strings.TrimSpace(os.Getenv(env)); token != "" {
			return TokenResult{Token: token, Source: env + " env var"}
		}
	}

	if cfg != nil {
		if token := strings.TrimSpace(cfg.GitHub.Token); token != "" {
			return TokenResult{Token: token, Source: "config file"}
		}
	}

	if token, err := tokenFromEnvFile(".env"); err == nil && token != "" {
		return TokenResult{Token: token, Source: ".env"}
	}

	if path := ghHostsPath(); path != "" {
		if token, err := tokenFromGHHosts(path); err == nil && token != "" {
			return TokenResult{Token: token, Source: path}
		}
	}

	return TokenResult{Source: "none"}
}

// tokenFromEnvFile reads GITHUB_TOKEN or GH_TOKEN from a dotenv file.
func tokenFromEnvFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:      true,
		UnescapeValueDoubleQuotes: true,
	}, path)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	section := f.Section(ini.DefaultSection)
	for _, key := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		value := strings.TrimSpace(section.Key(key).String())
		value = strings.Trim(value, `"'`)
		if value != "" {
			return value, nil
		}
	}

	return "", nil
}

// ghHosts mirrors the parts of gh's hosts.yml we read.
type ghHosts map[string]struct {
	OAuthToken string `yaml:"oauth_token"`
}

// tokenFromGHHosts returns the github.com token stored by the gh CLI.
func tokenFromGHHosts(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var hosts ghHosts
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return strings.TrimSpace(hosts["github.com"].OAuthToken), nil
}

func ghHostsPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gh", "hosts.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gh", "hosts.yml")
}

// GetAuthInstructions returns instructions for supplying a GitHub token
func GetAuthInstructions() string {
	return `Scanning works without a token, but unauthenticated requests are limited to
60 per hour. Supply a token using one of the following methods:

1. Command line flag:
   shaihulud scan-org my-org --token "your_personal_access_token"

2. Environment Variable:
   export GITHUB_TOKEN="your_personal_access_token"

3. Configuration File (~/.shaihulud/config.yaml):

   github:
     token: "your_personal_access_token"

The token needs no scopes to read public repositories. To list private
organization members it needs read:org.`
}
