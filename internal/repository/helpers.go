package repository

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alexanderramin/millennium/internal/domain"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// tableColumns validates and returns the table and display column names of a
// resource for use in SQL text.
func tableColumns(res domain.Resource) (string, string, error) {
	if !identPattern.MatchString(res.Name) {
		return "", "", fmt.Errorf("invalid table name %q", res.Name)
	}
	if !identPattern.MatchString(res.DisplayField) {
		return "", "", fmt.Errorf("invalid column name %q", res.DisplayField)
	}
	return res.Name, res.DisplayField, nil
}

// normalizeEmail trims and lowercases an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
