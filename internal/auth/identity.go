package auth

import (
	"context"

	"github.com/rotisserie/eris"
)

// Identity is the authenticated caller of a request: the user id and role the
// token verifier resolved. It is carried explicitly through the request
// context and never mutated after creation.
type Identity struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the identity carries admin privileges.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

var (
	// ErrUnauthenticated indicates a request without a valid identity.
	ErrUnauthenticated = eris.New("authentication required")
	// ErrForbidden indicates an authenticated caller without sufficient rights.
	ErrForbidden = eris.New("forbidden")
)

type contextKey string

const identityContextKey contextKey = "wikiprofile/identity"

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the authenticated identity from the context
// when available. A nil result means the caller is anonymous.
func IdentityFromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if value, ok := ctx.Value(identityContextKey).(*Identity); ok {
		return value
	}
	return nil
}
