package httpclient

import "context"

type bearerTokenKey struct{}

// WithBearerToken returns a context carrying the user's token for collaborator calls.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

// BearerToken returns the token stored by WithBearerToken, or "".
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey{}).(string)
	return token
}
