package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/internal/telemetry"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// Paging and ordering of list endpoints follows the Dojo store protocol:
//
//	Range: items=0-24            -> first 25 rows
//	GET /disks?sort(-disk_name)  -> descending by disk_name
//	Content-Range: items 0-24/66 -> rows returned and the total
//
// Plain ?offset=&limit= and ?ordering=-a,b are accepted as well.
const (
	headerRange        = "Range"
	headerContentRange = "Content-Range"
	rangeUnit          = "items"
)

// MaxPageSize caps the rows returned by a single list request.
const MaxPageSize = 1000

// ParseListOptions extracts paging and ordering from r. Errors wrap
// models.ErrInvalidRange so HandleStoreError maps them to 400.
func ParseListOptions(r *http.Request) (store.ListOptions, error) {
	var opts store.ListOptions

	if h := r.Header.Get(headerRange); h != "" {
		offset, limit, err := parseRange(h)
		if err != nil {
			return opts, err
		}
		opts.Offset, opts.Limit = offset, limit
	} else {
		q := r.URL.Query()
		var err error
		if opts.Offset, err = nonNegative(q.Get("offset"), "offset"); err != nil {
			return opts, err
		}
		if opts.Limit, err = nonNegative(q.Get("limit"), "limit"); err != nil {
			return opts, err
		}
	}

	if opts.Limit == 0 || opts.Limit > MaxPageSize {
		opts.Limit = MaxPageSize
	}

	opts.OrderBy = parseOrdering(r.URL.RawQuery)
	return opts, nil
}

// parseRange parses "items=<first>-<last>", both bounds inclusive.
func parseRange(h string) (offset, limit int, err error) {
	unit, spec, ok := strings.Cut(strings.TrimSpace(h), "=")
	if !ok || unit != rangeUnit {
		return 0, 0, fmt.Errorf("%w: unsupported range %q", models.ErrInvalidRange, h)
	}
	a, b, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: malformed range %q", models.ErrInvalidRange, h)
	}
	first, err1 := strconv.Atoi(strings.TrimSpace(a))
	last, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil || first < 0 || last < first {
		return 0, 0, fmt.Errorf("%w: malformed range %q", models.ErrInvalidRange, h)
	}
	return first, last - first + 1, nil
}

func nonNegative(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", models.ErrInvalidRange, name)
	}
	return n, nil
}

// parseOrdering reads sort(+a,-b) keys and the ordering parameter from the
// raw query. The raw form is needed because url.ParseQuery turns the "+"
// of sort(+a) into a space.
func parseOrdering(rawQuery string) []string {
	var fields []string
	for _, part := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(part, "=")
		key, err := url.PathUnescape(key)
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(key, "sort(") && strings.HasSuffix(key, ")"):
			fields = append(fields, splitFields(key[len("sort("):len(key)-1])...)
		case key == "ordering":
			if v, err := url.QueryUnescape(value); err == nil {
				fields = append(fields, splitFields(v)...)
			}
		}
	}
	return fields
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// contentRange formats the Content-Range of a page of n rows starting at
// offset out of total.
func contentRange(offset, n int, total int64) string {
	if n == 0 {
		return fmt.Sprintf("%s */%d", rangeUnit, total)
	}
	return fmt.Sprintf("%s %d-%d/%d", rangeUnit, offset, offset+n-1, total)
}

// serveList runs the common list flow: parse paging, read one page inside a
// store span, decorate each row, then write the rows as a bare JSON array
// with the Content-Range header.
func serveList[T, R any](w http.ResponseWriter, r *http.Request, resource string, list func(context.Context, store.ListOptions) ([]*T, int64, error), decorate func(*T) (R, error)) {
	logger.FromContext(r.Context()).SetResource(resource)

	opts, err := ParseListOptions(r)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	ctx, span := telemetry.StartStoreSpan(r.Context(), "list_"+resource, telemetry.Resource(resource))
	rows, total, err := list(ctx, opts)
	if err != nil {
		telemetry.RecordError(ctx, err)
		span.End()
		HandleStoreError(w, r, err)
		return
	}
	span.SetAttributes(telemetry.Rows(len(rows)), telemetry.Total(total))
	span.End()

	out := make([]R, 0, len(rows))
	for _, row := range rows {
		item, err := decorate(row)
		if err != nil {
			HandleStoreError(w, r, err)
			return
		}
		out = append(out, item)
	}

	w.Header().Set(headerContentRange, contentRange(opts.Offset, len(out), total))
	WriteJSONOK(w, out)
}
