package jira

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrCredentialNotFound is returned when the credential file does not exist.
// Callers must treat it as fatal before any network activity.
var ErrCredentialNotFound = errors.New("jira: credential file not found")

// Credential holds the raw "user:token" pair read from the local store.
// The content is used verbatim; no format validation is performed.
type Credential struct {
	raw string
}

// ReadCredential reads the first line of a local credential file
// (e.g. .jira-credentials) and returns it trimmed.
func ReadCredential(path string) (Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, fmt.Errorf("%w: %s", ErrCredentialNotFound, path)
		}
		return Credential{}, fmt.Errorf("read credential: %w", err)
	}
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	return Credential{raw: line}, nil
}

// Encode returns the base64 form used in the Basic authorization header.
func (c Credential) Encode() string {
	return base64.StdEncoding.EncodeToString([]byte(c.raw))
}

// IsZero reports whether the credential is empty.
func (c Credential) IsZero() bool { return c.raw == "" }
