package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/owasp-nest/nestai/pkg/utils/logging"
)

// Close closes the closer and logs the error instead of returning it, for
// use in defer statements. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}
