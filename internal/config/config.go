package config

import "os"

// Get returns the value of the environment variable key, or fallback when
// the variable is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
