package pkglog

import "context"

type correlationIDContextKey struct{}

const invalidCorrelationID = "[invalid_correlation_id]"

// GetCorrelationID returns the correlation ID stored in the context.
//
// Console sessions and HTTP requests set it when they start so their log
// lines can be grouped.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(correlationIDContextKey{}).(string)
	if !ok {
		return invalidCorrelationID
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, cid)
}
