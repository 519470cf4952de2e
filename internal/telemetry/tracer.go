package telemetry

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. HTTP and client keys follow the OpenTelemetry semantic
// conventions, the rest use the "nas." prefix.
const (
	AttrClientIP = "client.address"

	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"

	AttrUsername = "enduser.id"
	AttrRole     = "enduser.role"

	AttrResource   = "nas.resource"    // volumes, disks, lagg, ...
	AttrVolume     = "nas.volume"      // pool name
	AttrVolumeID   = "nas.volume_id"   // pool primary key
	AttrNodes      = "nas.tree.nodes"  // nodes emitted by a projection
	AttrStride     = "nas.tree.stride" // id block width
	AttrRows       = "nas.rows"        // rows returned by a listing
	AttrTotal      = "nas.total"       // rows matching before paging
	AttrDBOp       = "db.operation"    // list, get, replace
	AttrImportFile = "nas.import.file" // inventory document path
)

// ClientIP returns an attribute for the client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// HTTPMethod returns an attribute for the request method
func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPRoute returns an attribute for the matched route pattern
func HTTPRoute(route string) attribute.KeyValue {
	return attribute.String(AttrHTTPRoute, route)
}

// HTTPStatus returns an attribute for the response status code
func HTTPStatus(status int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, status)
}

// Username returns an attribute for the authenticated user
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// Role returns an attribute for the authenticated user's role
func Role(role string) attribute.KeyValue {
	return attribute.String(AttrRole, role)
}

// Resource returns an attribute for the API resource name
func Resource(name string) attribute.KeyValue {
	return attribute.String(AttrResource, name)
}

// Volume returns an attribute for a volume name
func Volume(name string) attribute.KeyValue {
	return attribute.String(AttrVolume, name)
}

// VolumeID returns an attribute for a volume id
func VolumeID(id uint) attribute.KeyValue {
	return attribute.Int64(AttrVolumeID, int64(id))
}

// Nodes returns an attribute for the node count of a projection
func Nodes(n int) attribute.KeyValue {
	return attribute.Int(AttrNodes, n)
}

// Stride returns an attribute for the id stride
func Stride(n int) attribute.KeyValue {
	return attribute.Int(AttrStride, n)
}

// Rows returns an attribute for the number of rows in a page
func Rows(n int) attribute.KeyValue {
	return attribute.Int(AttrRows, n)
}

// Total returns an attribute for the total row count
func Total(n int64) attribute.KeyValue {
	return attribute.Int64(AttrTotal, n)
}

// ImportFile returns an attribute for the inventory document path
func ImportFile(path string) attribute.KeyValue {
	return attribute.String(AttrImportFile, path)
}

// StartStoreSpan starts a span for a control plane store operation, named
// "store.<operation>".
func StartStoreSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{attribute.String(AttrDBOp, operation)}, attrs...)
	return StartSpan(ctx, "store."+operation, trace.WithAttributes(allAttrs...))
}

// StartTreeSpan starts a span around the projection of one volume.
func StartTreeSpan(ctx context.Context, volume string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{Volume(volume)}, attrs...)
	return StartSpan(ctx, "storagetree.project", trace.WithAttributes(allAttrs...))
}

// StartHTTPSpan starts a server span for r, continuing any trace carried by
// the W3C traceparent header.
func StartHTTPSpan(r *http.Request) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return StartSpan(ctx, r.Method+" "+r.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(HTTPMethod(r.Method)),
	)
}
