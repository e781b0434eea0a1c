// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory when one exists.
// A missing file is not an error: production deployments set real variables.
func LoadEnv() error {
	return LoadPath("")
}

// LoadPath loads the env file at p, or .env when p is empty. Variables already
// present in the process environment win over the file.
//
//	// local development
//	environment.LoadPath(".env.local")
func LoadPath(p string) error {
	var err error
	if p != "" {
		err = godotenv.Load(p)
	} else {
		err = godotenv.Load()
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// GetEnvOrDefault retrieves an environment variable value, returning a fallback
// value if the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetNamespaceEnvKey constructs a namespaced environment variable key by
// combining a namespace prefix with the actual key name using an underscore.
// If no namespace is provided, it returns the key unchanged.
//
//	GetNamespaceEnvKey("TASKBOARD", "SQLITE_PATH") // "TASKBOARD_SQLITE_PATH"
//	GetNamespaceEnvKey("", "SQLITE_PATH")          // "SQLITE_PATH"
func GetNamespaceEnvKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", namespace, key)
}

// GetNamespaceEnvOrDefault retrieves a namespaced environment variable value,
// returning a fallback value if the variable is not set.
func GetNamespaceEnvOrDefault(namespace, key, fallback string) string {
	return GetEnvOrDefault(GetNamespaceEnvKey(namespace, key), fallback)
}

// GetNamespaceEnvValue retrieves the value of a namespaced environment variable.
// It cannot distinguish between an unset variable and an empty one.
func GetNamespaceEnvValue(namespace, key string) string {
	return os.Getenv(GetNamespaceEnvKey(namespace, key))
}
