package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chainflow/internal/github"
	"chainflow/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira      jira.Config
	GitHub    github.Config
	DBPath    string
	OutputDir string
}

// Load reads configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Binary-relative .env first, then the working directory.
	if exePath, err := os.Executable(); err == nil {
		envPath := filepath.Join(filepath.Dir(exePath), ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	baseURL := getEnv("JIRA_BASE_URL", "")
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:    baseURL,
			APIVersion: getEnv("JIRA_API_VERSION", "2"),
			ProjectKey: getEnv("JIRA_PROJECT_KEY", ""),
			Email:      getEnv("JIRA_EMAIL", ""),
			AuthToken:  getEnv("JIRA_AUTH_TOKEN", ""),
			Token:      getEnv("JIRA_TOKEN", ""),
		},
		GitHub: github.Config{
			Repo:   getEnv("GITHUB_REPO", ""),
			APIKey: getEnv("GITHUB_API_KEY", ""),
		},
		DBPath:    getEnv("DUCKDB_PATH", "warehouse.duckdb"),
		OutputDir: getEnv("OUTPUT_DIR", "output"),
	}
	return cfg, nil
}

// ValidateJira checks the variables the JIRA fetcher cannot run without.
func (c *AppConfig) ValidateJira() error {
	var missing []string
	if c.Jira.BaseURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}
	if c.Jira.ProjectKey == "" {
		missing = append(missing, "JIRA_PROJECT_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Jira.Token == "" && (c.Jira.Email == "" || c.Jira.AuthToken == "") {
		log.Warn().Msg("No JIRA credentials provided, requests will be unauthenticated")
	}
	return nil
}

// ValidateGitHub checks the variables the GitHub fetcher cannot run without.
func (c *AppConfig) ValidateGitHub() error {
	var missing []string
	if c.GitHub.Repo == "" {
		missing = append(missing, "GITHUB_REPO")
	}
	if c.GitHub.APIKey == "" {
		missing = append(missing, "GITHUB_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
