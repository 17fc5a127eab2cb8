package http

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
	"wikiprofile/app/internal/entry"
	"wikiprofile/app/internal/user"

	"github.com/danielgtaylor/huma/v2"
)

// mapServiceError converts a domain error into the matching huma status
// error. Client-level failures are logged at warn; anything unrecognised is
// treated as a server failure and reported.
func (s *Server) mapServiceError(ctx context.Context, err error, message string, fields logrus.Fields) error {
	if err == nil {
		return nil
	}

	cause := eris.Cause(err).Error()

	switch {
	case eris.Is(err, auth.ErrUnauthenticated), eris.Is(err, auth.ErrInvalidToken):
		s.warn(ctx, err, message, fields)
		return huma.Error401Unauthorized(cause)
	case eris.Is(err, user.ErrInvalidCredentials):
		s.warn(ctx, err, message, fields)
		return huma.Error401Unauthorized(cause)
	case eris.Is(err, auth.ErrForbidden):
		s.warn(ctx, err, message, fields)
		return huma.Error403Forbidden(cause)
	case eris.Is(err, entry.ErrNotFound), eris.Is(err, user.ErrNotFound):
		s.warn(ctx, err, message, fields)
		return huma.Error404NotFound(cause)
	case eris.Is(err, entry.ErrInvalidStatus),
		eris.Is(err, entry.ErrInvalidTitle),
		eris.Is(err, entry.ErrInvalidDescription),
		eris.Is(err, auth.ErrInvalidRole),
		eris.Is(err, auth.ErrPasswordPolicy),
		eris.Is(err, auth.ErrInvalidUsername),
		eris.Is(err, user.ErrUsernameTaken),
		eris.Is(err, user.ErrMissingName):
		s.warn(ctx, err, message, fields)
		return huma.Error400BadRequest(cause)
	default:
		s.recordError(ctx, err, message, fields)
		return huma.Error500InternalServerError("We couldn't process your request right now.")
	}
}

// isClientError reports whether the failure means "no usable identity or
// record" rather than a server fault. Used by the session probe, which
// answers null instead of an error status.
func isClientError(err error) bool {
	return eris.Is(err, auth.ErrUnauthenticated) || eris.Is(err, user.ErrNotFound)
}

func (s *Server) warn(ctx context.Context, err error, message string, fields logrus.Fields) {
	if s.logger == nil {
		return
	}

	logEntry := s.logger.WithField("error", err.Error())
	if fields != nil {
		logEntry = logEntry.WithFields(fields)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logEntry = logEntry.WithField("request_id", requestID)
	}
	logEntry.Warn(message)
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		logEntry := s.logger.WithField("error", err.Error())
		if fields != nil {
			logEntry = logEntry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			logEntry = logEntry.WithField("request_id", requestID)
		}
		logEntry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
