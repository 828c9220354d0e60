// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads NCBI credentials from a directory of plain-text
// files and from .env files. In a secrets directory the filename is the key
// and the trimmed file contents are the value.
//
// Recognized keys: ncbi-api-key, ncbi-email.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Key files read from the secrets directory.
const (
	KeyNCBIAPIKey = "ncbi-api-key"
	KeyNCBIEmail  = "ncbi-email"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Secrets maps key names to values.
type Secrets map[string]string

// APIKey returns the NCBI API key, or "".
func (s Secrets) APIKey() string { return s[KeyNCBIAPIKey] }

// Email returns the contact email sent to NCBI, or "".
func (s Secrets) Email() string { return s[KeyNCBIEmail] }

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty map. Unreadable and empty files are skipped; unreadable
// ones are logged as warnings.
func Load(dir string, logger zerolog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables already set are left alone and missing files are
// ignored. With no arguments it reads ".env".
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}
