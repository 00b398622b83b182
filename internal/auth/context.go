package auth

import (
	"context"
)

// UserContext holds the authenticated agent
type UserContext struct {
	// UserID is the agent id from the token subject
	UserID      string
	DisplayName string
	Email       string
	Phone       string
	License     string
	// AccessToken is the raw bearer token, forwarded to the listing backend on the agent's behalf
	AccessToken string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// AccessTokenFromContext returns the caller's bearer token, or "" for unauthenticated contexts
func AccessTokenFromContext(ctx context.Context) string {
	if user, ok := FromContext(ctx); ok {
		return user.AccessToken
	}
	return ""
}
