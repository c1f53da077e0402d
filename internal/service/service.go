// Package service implements the album, tag, travel and photo operations
// exposed by the API. Every mutation publishes its data domain's marker
// exactly once after the write is durable.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/housekeeping"
	"github.com/tripframe/tripframe-server/internal/objectstore"
	"github.com/tripframe/tripframe-server/internal/store"
	"github.com/tripframe/tripframe-server/internal/tagsync"
)

// Publisher advances a data domain's marker timestamp.
type Publisher interface {
	Publish(ctx context.Context, d domain.DataDomain) (string, error)
}

// publish records a committed write. The write has already succeeded, so a
// failure here is logged and swallowed; the next successful write for the
// domain moves the marker past it.
func publish(ctx context.Context, p Publisher, d domain.DataDomain, logger *slog.Logger) {
	if _, err := p.Publish(ctx, d); err != nil {
		logger.Warn("marker publish failed after committed write",
			"domain", string(d),
			"error", err,
		)
	}
}

// translate maps store, storage and saga failures to domain errors.
// Errors that already carry a domain code pass through unchanged.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	var inconsistent *tagsync.InconsistentError
	if errors.As(err, &inconsistent) {
		return domainerrors.Inconsistent(err, msg, inconsistent.Details())
	}

	var moveErr *housekeeping.MoveError
	if errors.As(err, &moveErr) {
		failed := make(map[string]string, len(moveErr.Failed))
		for _, f := range moveErr.Failed {
			failed[f.Key] = f.Op + ": " + f.Err.Error()
		}
		return domainerrors.Unavailable(err, msg).WithDetails(map[string]any{
			"moved":  moveErr.Moved,
			"failed": failed,
		})
	}

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, objectstore.ErrNotFound):
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, msg)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Wrap(err, domainerrors.CodeConflict, msg)
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, housekeeping.ErrInvalidName):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, msg)
	default:
		return domainerrors.Unavailable(err, msg)
	}
}

// committed reports whether a failed write still changed stored data.
// Only a saga that stopped after its first step has done so.
func committed(err error) bool {
	var inconsistent *tagsync.InconsistentError
	return errors.As(err, &inconsistent)
}
