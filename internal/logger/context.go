package logger

import (
	"context"
	"sync"
)

type logContextKey struct{}

// LogContext is the request-scoped record every *Ctx call includes.
//
// It is created once per API request and annotated in place as the request
// moves through the stack: tracing adds the span, auth adds the user and
// handlers add the resource and volume they serve. The completion line
// written by the router therefore carries everything learnt downstream.
// All methods are safe on a nil receiver.
type LogContext struct {
	mu sync.Mutex

	requestID string
	clientIP  string
	traceID   string
	spanID    string
	username  string
	resource  string
	volume    string
}

// NewLogContext starts a record for one request.
func NewLogContext(requestID, clientIP string) *LogContext {
	return &LogContext{
		requestID: requestID,
		clientIP:  clientIP,
	}
}

// WithContext stores lc in ctx.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey{}, lc)
}

// FromContext returns the LogContext of ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey{}).(*LogContext)
	return lc
}

func (lc *LogContext) set(field *string, value string) {
	lc.mu.Lock()
	*field = value
	lc.mu.Unlock()
}

// SetTrace records the OpenTelemetry trace and span ids.
func (lc *LogContext) SetTrace(traceID, spanID string) {
	if lc == nil {
		return
	}
	lc.mu.Lock()
	lc.traceID, lc.spanID = traceID, spanID
	lc.mu.Unlock()
}

// SetUser records the authenticated username.
func (lc *LogContext) SetUser(username string) {
	if lc != nil {
		lc.set(&lc.username, username)
	}
}

// SetResource records the API resource being listed (volumes, disks, ...).
func (lc *LogContext) SetResource(resource string) {
	if lc != nil {
		lc.set(&lc.resource, resource)
	}
}

// SetVolume records the volume a request is scoped to.
func (lc *LogContext) SetVolume(volume string) {
	if lc != nil {
		lc.set(&lc.volume, volume)
	}
}

// Fields returns the non-empty fields as alternating key/value pairs.
func (lc *LogContext) Fields() []any {
	if lc == nil {
		return nil
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()

	pairs := [...]struct{ key, value string }{
		{KeyTraceID, lc.traceID},
		{KeySpanID, lc.spanID},
		{KeyRequestID, lc.requestID},
		{KeyClientIP, lc.clientIP},
		{KeyUsername, lc.username},
		{KeyResource, lc.resource},
		{KeyVolume, lc.volume},
	}
	fields := make([]any, 0, 2*len(pairs))
	for _, p := range pairs {
		if p.value != "" {
			fields = append(fields, p.key, p.value)
		}
	}
	return fields
}
