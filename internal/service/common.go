package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"clipnest/internal/domain"
	"clipnest/internal/domain/services"

	"github.com/google/uuid"
)

// cleanupTimeout bounds best-effort object removal after a commit
const cleanupTimeout = 30 * time.Second

// withTimeout bounds ctx by d; d <= 0 means no extra deadline
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// parseID rejects identifiers that cannot name any stored record.
// Malformed IDs are reported as not found, like unknown ones.
func parseID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

// isStorableText reports whether s can be stored in a text column:
// valid UTF-8 with no NUL bytes.
func isStorableText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// checkStorableText is a validation.By rule for name fields
func checkStorableText(value any) error {
	s, _ := value.(string)
	if !isStorableText(s) {
		return errors.New("must be valid UTF-8 without NUL characters")
	}
	return nil
}

// normalizeOptionalID treats a blank optional reference as absent
func normalizeOptionalID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// removeObjects deletes stored bytes after their records are gone.
// Failures are logged; the records are already committed.
func removeObjects(ctx context.Context, objects services.ObjectStore, logger *slog.Logger, locators []string) {
	if len(locators) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	for _, locator := range locators {
		if err := objects.Delete(ctx, locator); err != nil {
			logger.Warn("failed to remove stored object",
				"locator", locator,
				"error", err,
			)
		}
	}
}
