package util

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ParseByteSize parses a human-readable size such as "64MiB" or "512MB".
// "0" means unlimited.
func ParseByteSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("byte size %q is too large", s)
	}
	return int64(n), nil
}

// HumanReadableBytes formats n using IEC units ("1.5 MiB").
func HumanReadableBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
