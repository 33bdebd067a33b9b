package authz

import "context"

// Identity is the verified caller reference supplied by the external
// identity provider. The zero value means anonymous. It is always passed
// explicitly to the evaluator; the context helpers below exist only so the
// transport layer can hand it to handlers.
type Identity struct {
	ID    string
	Email string
}

var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool { return i.ID == "" }

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the caller attached by the identity
// middleware, or Anonymous when the request carried no identity.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Anonymous
}
