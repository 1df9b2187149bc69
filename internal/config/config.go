package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the process-wide static configuration: read once at
// startup, passed by reference, never mutated afterwards.
type Config struct {
	// HTTP Server
	Port string

	// Expense data source (GCS)
	Bucket string
	Object string

	// Completion model
	Model string

	// Prompt assembly
	PromptByteBudget       int
	MaxReducedTransactions int
}

// Load reads the configuration from the environment with defaults.
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		Bucket: getEnv("EXPENSES_BUCKET", ""),
		Object: getEnv("EXPENSES_OBJECT", "expenses.csv"),
		Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		PromptByteBudget:       getEnvInt("PROMPT_BYTE_BUDGET", 20000),
		MaxReducedTransactions: getEnvInt("MAX_REDUCED_TRANSACTIONS", 50),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found. A missing bucket is not a validation error: it is
// reported per query as a configuration failure so the server can still
// start and answer health checks.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Object == "" {
		problems = append(problems, "expenses object name cannot be empty")
	}
	if c.Model == "" {
		problems = append(problems, "model name cannot be empty")
	}
	if c.PromptByteBudget <= 0 {
		problems = append(problems, fmt.Sprintf("invalid prompt byte budget %d: must be positive", c.PromptByteBudget))
	}
	if c.MaxReducedTransactions <= 0 {
		problems = append(problems, fmt.Sprintf("invalid max reduced transactions %d: must be positive", c.MaxReducedTransactions))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
