// Package numbering formats and parses the human-readable transaction
// numbering "{year}-{n}", scoped per user and per calendar year.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Format returns a numbering like "2025-7".
func Format(year, n int) string {
	return fmt.Sprintf("%d-%d", year, n)
}

// YearPrefix returns the numbering prefix for a year, e.g. "2025-".
func YearPrefix(year int) string {
	return fmt.Sprintf("%d-", year)
}

// Parse splits a numbering into its year and sequence number.
func Parse(numbering string) (year, n int, err error) {
	parts := strings.SplitN(numbering, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid numbering format: %q", numbering)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in numbering %q: %w", numbering, err)
	}

	n, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid sequence in numbering %q: %w", numbering, err)
	}

	return year, n, nil
}
