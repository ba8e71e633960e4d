package store

import (
	"fmt"
	"strings"
)

// quoteIdent validates name and returns it as a quoted SQL identifier.
func quoteIdent(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty identifier")
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("identifier %q contains NUL", name)
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`, nil
}

// checkTableName rejects reserved table names.
func checkTableName(name string) error {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "sift_") || strings.HasPrefix(lower, "sqlite_") {
		return fmt.Errorf("table name %q is reserved", name)
	}
	return nil
}
