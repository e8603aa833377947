package identity

import "context"

// User is the authenticated manager performing mutations. Services receive it
// as an explicit parameter so tests can pass arbitrary fixtures; nothing in
// the service layer reads ambient auth state.
type User struct {
	Name  string
	Email string
}

type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext extracts the authenticated user, reporting ok=false when the
// request was not authenticated.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(contextKey{}).(User)
	return u, ok
}
