package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// ========================================================================
	// HTTP Request
	// ========================================================================
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyBytes      = "bytes"
	KeyClientIP   = "client_ip"
	KeyUsername   = "username"
	KeyRole       = "role"
	KeyDurationMs = "duration_ms"

	// ========================================================================
	// Storage Presentation
	// ========================================================================
	KeyResource = "resource" // API resource: volumes, disks, scrubs, ...
	KeyVolume   = "volume"   // Volume (pool) name
	KeyVolumeID = "volume_id"
	KeyDataset  = "dataset"
	KeyNodes    = "nodes" // Number of presentation nodes emitted
	KeyCount    = "count"
	KeyTotal    = "total"

	// ========================================================================
	// Infrastructure
	// ========================================================================
	KeyError     = "error"
	KeyStoreType = "store_type"
	KeyAddress   = "address"
	KeyFile      = "file"
)

// ============================================================================
// Attribute helpers
// ============================================================================

// TraceID creates a trace_id attribute
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID creates a span_id attribute
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// RequestID creates a request_id attribute
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ClientIP creates a client_ip attribute
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Username creates a username attribute
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// Resource creates a resource attribute
func Resource(name string) slog.Attr {
	return slog.String(KeyResource, name)
}

// Volume creates a volume attribute
func Volume(name string) slog.Attr {
	return slog.String(KeyVolume, name)
}

// VolumeID creates a volume_id attribute
func VolumeID(id uint) slog.Attr {
	return slog.Uint64(KeyVolumeID, uint64(id))
}

// Nodes creates a nodes attribute
func Nodes(n int) slog.Attr {
	return slog.Int(KeyNodes, n)
}

// DurationMs creates a duration_ms attribute
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err creates an error attribute. A nil error yields an empty attribute.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
