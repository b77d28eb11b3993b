package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/support-desk/internal/desk"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// SystemActor is recorded when no operator name accompanies a change.
const SystemActor = "System"

type actorKey struct{}

// WithActor tags ctx with the display name of whoever made a change.
func WithActor(ctx context.Context, name string) context.Context {
	name = strings.TrimSpace(name)
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFrom returns the actor stored by WithActor.
func ActorFrom(ctx context.Context) string {
	if name, ok := ctx.Value(actorKey{}).(string); ok && name != "" {
		return name
	}
	return SystemActor
}

// mapStoreError converts desk sentinels into domain errors.
func mapStoreError(err error, details map[string]any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, desk.ErrTicketNotFound):
		return apperrors.NewNotFound("ticket", details)
	case errors.Is(err, desk.ErrColumnNotFound):
		return apperrors.NewNotFound("column", details)
	case errors.Is(err, desk.ErrMemberNotFound):
		return apperrors.NewNotFound("team member", details)
	case errors.Is(err, desk.ErrTagNotFound):
		return apperrors.NewNotFound("tag", details)
	case errors.Is(err, desk.ErrProtectedColumn):
		return apperrors.NewConflict("column is protected", details)
	case errors.Is(err, desk.ErrColumnExists):
		return apperrors.NewConflict("column already exists", details)
	case errors.Is(err, desk.ErrInvalidColumn), errors.Is(err, desk.ErrInvalidTag), errors.Is(err, desk.ErrInvalidEmail):
		return apperrors.NewValidationError(err.Error(), details)
	default:
		return apperrors.NewInternalError(err)
	}
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, desk.ErrTicketNotFound), errors.Is(err, desk.ErrColumnNotFound),
		errors.Is(err, desk.ErrMemberNotFound), errors.Is(err, desk.ErrTagNotFound):
		return "not_found"
	case errors.Is(err, desk.ErrProtectedColumn), errors.Is(err, desk.ErrColumnExists):
		return "conflict"
	default:
		return "invalid"
	}
}
