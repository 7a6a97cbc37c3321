package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/tablekit/internal/core"
)

// WithRequestMetadata attaches the client IP and User-Agent to ctx for
// audit entries. RemoteAddr has already been rewritten by TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithRequestMeta(ctx, core.RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}
