// Package sessionid carries the dashboard session identifier through contexts.
package sessionid

import (
	"context"
	"regexp"
)

const (
	Default = "default"
	Header  = "X-Session-ID"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type ctxKey struct{}

func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the session bound to ctx, or Default.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return Default
}

func Valid(id string) bool {
	return validID.MatchString(id)
}
