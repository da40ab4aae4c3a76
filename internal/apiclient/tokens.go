package apiclient

import (
	"context"

	"github.com/prismaasset360/web/internal/models/common"
)

// TokenStore keeps the bearer tokens of one user session.
type TokenStore interface {
	// Tokens returns the current token pair. The pair is empty if the user is not logged in.
	Tokens() common.TokenPair

	// SetTokens replaces the token pair, e.g. after a login or a refresh.
	SetTokens(pair common.TokenPair) error

	// Clear forgets the tokens and everything else kept for the session.
	Clear() error
}

// TokenReloader is implemented by token stores that are copies of a shared record, such as one server-side session
// loaded by several concurrent requests. Before refreshing, the client reloads the pair: another holder may already
// have rotated it.
type TokenReloader interface {
	// ReloadTokens replaces the held pair with the shared one and returns it. It returns `errorcode.ErrorNotFound`
	// if the shared record is gone.
	ReloadTokens() (common.TokenPair, error)
}

type contextKey int

const (
	tokenStoreKey contextKey = iota
	requestIDKey
)

// WithTokens returns a context carrying the token store that requests made with it will authenticate with.
func WithTokens(ctx context.Context, tokens TokenStore) context.Context {
	return context.WithValue(ctx, tokenStoreKey, tokens)
}

// TokensFromContext returns the token store carried by the context, or nil.
func TokensFromContext(ctx context.Context) TokenStore {
	tokens, _ := ctx.Value(tokenStoreKey).(TokenStore)
	return tokens
}

// WithRequestID returns a context carrying the request ID that is forwarded to the backend as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID carried by the context, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
