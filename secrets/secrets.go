// Package secrets loads the credentials a run needs before any scraping starts.
package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Secrets holds the credentials of one run.
type Secrets struct {
	LLMAPIKey         string
	GoogleCredentials []byte
}

// ErrMissing is returned when a required credential is not configured.
var ErrMissing = errors.New("secret not configured")

// Load reads the model API key and, when needGoogle is set, the Google
// service-account JSON. Any failure is fatal to the run.
func Load(needGoogle bool) (*Secrets, error) {
	key, err := readSecret("LLM_API_KEY", "ANTHROPIC_API_KEY", "LLM_API_KEY_FILE")
	if err != nil {
		return nil, fmt.Errorf("secrets: model api key: %w", err)
	}
	s := &Secrets{LLMAPIKey: key}

	if needGoogle {
		creds, err := readSecret("GOOGLE_CREDENTIALS_JSON", "", "GOOGLE_CREDENTIALS_FILE")
		if err != nil {
			return nil, fmt.Errorf("secrets: google credentials: %w", err)
		}
		if !json.Valid([]byte(creds)) {
			return nil, fmt.Errorf("secrets: google credentials are not valid JSON")
		}
		s.GoogleCredentials = []byte(creds)
	}

	return s, nil
}

// readSecret returns the first non-empty value of envKey, altKey, or the
// contents of the file named by fileKey.
func readSecret(envKey, altKey, fileKey string) (string, error) {
	for _, k := range []string{envKey, altKey} {
		if k == "" {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v, nil
		}
	}

	path := strings.TrimSpace(os.Getenv(fileKey))
	if path == "" {
		return "", fmt.Errorf("%w: set %s or %s", ErrMissing, envKey, fileKey)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fileKey, err)
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissing, path)
	}
	return v, nil
}
