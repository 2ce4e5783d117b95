// Package sizeutil parses human-readable byte-size strings ("200kb",
// "1mb", "5gb") as well as plain integer byte counts, for the Content
// filter config group's max_file_size/max_total_size fields.
package sizeutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseBytes accepts either a bare integer (interpreted as bytes) or a
// human-readable size string like "200kb", "1mb", "5gb" and returns the
// size in bytes.
func ParseBytes(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("sizeutil: empty size string")
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("sizeutil: negative size %q", raw)
		}
		return n, nil
	}

	bytes, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("sizeutil: invalid size %q: %w", raw, err)
	}
	return int64(bytes), nil
}

// FormatBytes renders a byte count for log/event output, e.g. "4.3 MB".
func FormatBytes(n uint64) string {
	return humanize.Bytes(n)
}
