package pkglog

import "context"

// HeaderCorrelationID carries the correlation ID between services, inbound
// and outbound.
const HeaderCorrelationID = "X-Correlation-ID"

type correlationIDKey struct{}

// GetCorrelationID returns the correlation ID stored in the context, or ""
// when there is none.
//
// Middleware is expected to set this value early in the request lifecycle so
// it can be attached to logs and propagated to downstream calls.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}
