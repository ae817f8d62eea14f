package services

import (
	"context"

	"github.com/voltaic-systems/authhub/internal/util"
)

// RequestMeta carries HTTP request context into audit rows
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// MetaFromContext extracts request metadata when the trigger was an HTTP
// request; background jobs pass the zero value.
func MetaFromContext(ctx context.Context) RequestMeta {
	return RequestMeta{
		IPAddress: util.GetIPFromContext(ctx),
		UserAgent: util.GetUserAgentFromContext(ctx),
	}
}
