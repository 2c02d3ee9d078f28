package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SafeEnv returns the environment variable value for key, or fallback if empty.
func SafeEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// EnvInt parses key as an int, returning fallback when unset or malformed.
func EnvInt(key string, fallback int) int {
	if v := SafeEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// EnvDuration parses key with time.ParseDuration, returning fallback when unset or malformed.
func EnvDuration(key string, fallback time.Duration) time.Duration {
	if v := SafeEnv(key, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// EnvList splits a comma separated variable, dropping blanks.
func EnvList(key string, fallback []string) []string {
	v := SafeEnv(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
