package logstore

import "context"

// RequestContext carries the request-scoped identifiers every entry logged
// within the request inherits.
type RequestContext struct {
	RequestID  string
	EndpointID string
}

type requestContextKey struct{}

// WithRequest returns a context carrying the request id and endpoint id.
// Entries logged through the store with this context pick both up
// automatically; call sites never pass them explicitly.
func WithRequest(ctx context.Context, requestID, endpointID string) context.Context {
	return context.WithValue(ctx, requestContextKey{}, RequestContext{
		RequestID:  requestID,
		EndpointID: endpointID,
	})
}

// RequestFromContext extracts the ambient request context, if any
func RequestFromContext(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	rc, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return rc, ok
}
