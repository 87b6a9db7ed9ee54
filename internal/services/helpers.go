package services

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// normalizeClockTime validates a wall-clock bound and expands HH:MM to
// HH:MM:SS. Returns nil for empty input.
func normalizeClockTime(value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse("15:04:05", value); err == nil {
		out := t.Format("15:04:05")
		return &out, nil
	}
	if t, err := time.Parse("15:04", value); err == nil {
		out := t.Format("15:04:05")
		return &out, nil
	}

	return nil, fmt.Errorf("invalid time of day %q, expected HH:MM or HH:MM:SS", value)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 15
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}
