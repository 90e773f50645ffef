package media

import (
	"context"
	"log/slog"

	"videotube/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// instrumented records an outcome metric for every store call.
type instrumented struct {
	next Store
}

// Instrument wraps s so uploads and deletions are counted.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Upload(ctx context.Context, localPath string, kind Kind) (*Asset, error) {
	span, ctx := observability.NewSpan(ctx, "media.Upload",
		attribute.String("media.backend", i.next.Name()),
		attribute.String("media.kind", string(kind)),
	)
	defer span.End()

	asset, err := i.next.Upload(ctx, localPath, kind)
	span.SetError(err)
	observability.MediaOperations.WithLabelValues("upload", i.next.Name(), observability.Outcome(err)).Inc()
	if err != nil {
		observability.GlobalLogger.ErrorContext(ctx, "media upload failed",
			slog.String("backend", i.next.Name()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
	return asset, err
}

func (i *instrumented) Destroy(ctx context.Context, assetID string, kind Kind) error {
	span, ctx := observability.NewSpan(ctx, "media.Destroy",
		attribute.String("media.backend", i.next.Name()),
		attribute.String("media.asset_id", assetID),
	)
	defer span.End()

	err := i.next.Destroy(ctx, assetID, kind)
	span.SetError(err)
	observability.MediaOperations.WithLabelValues("destroy", i.next.Name(), observability.Outcome(err)).Inc()
	return err
}
