package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

func TestParseListOptions(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		rangeHdr   string
		wantOffset int
		wantLimit  int
		wantOrder  []string
		wantErr    bool
	}{
		{name: "defaults", target: "/x", wantLimit: MaxPageSize},
		{name: "range header", target: "/x", rangeHdr: "items=10-19", wantOffset: 10, wantLimit: 10},
		{name: "range wins over query", target: "/x?offset=3&limit=4", rangeHdr: "items=0-0", wantLimit: 1},
		{name: "offset and limit", target: "/x?offset=3&limit=4", wantOffset: 3, wantLimit: 4},
		{name: "limit capped", target: "/x?limit=100000", wantLimit: MaxPageSize},
		{name: "dojo sort", target: "/x?sort(+vol_name,-id)", wantLimit: MaxPageSize, wantOrder: []string{"+vol_name", "-id"}},
		{name: "ordering param", target: "/x?ordering=-vol_name,status", wantLimit: MaxPageSize, wantOrder: []string{"-vol_name", "status"}},
		{name: "escaped sort", target: "/x?sort(%2Bvol_name)", wantLimit: MaxPageSize, wantOrder: []string{"+vol_name"}},
		{name: "bad unit", target: "/x", rangeHdr: "bytes=0-10", wantErr: true},
		{name: "inverted range", target: "/x", rangeHdr: "items=9-3", wantErr: true},
		{name: "negative offset", target: "/x?offset=-1", wantErr: true},
		{name: "non-numeric limit", target: "/x?limit=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.rangeHdr != "" {
				req.Header.Set("Range", tt.rangeHdr)
			}

			opts, err := ParseListOptions(req)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidRange) {
					t.Fatalf("ParseListOptions() error = %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseListOptions() error = %v", err)
			}
			if opts.Offset != tt.wantOffset || opts.Limit != tt.wantLimit {
				t.Errorf("offset/limit = %d/%d, want %d/%d", opts.Offset, opts.Limit, tt.wantOffset, tt.wantLimit)
			}
			if !reflect.DeepEqual(opts.OrderBy, tt.wantOrder) {
				t.Errorf("OrderBy = %v, want %v", opts.OrderBy, tt.wantOrder)
			}
		})
	}
}

func TestContentRange(t *testing.T) {
	tests := []struct {
		offset, n int
		total     int64
		want      string
	}{
		{0, 25, 66, "items 0-24/66"},
		{50, 16, 66, "items 50-65/66"},
		{0, 0, 0, "items */0"},
		{70, 0, 66, "items */66"},
	}
	for _, tt := range tests {
		if got := contentRange(tt.offset, tt.n, tt.total); got != tt.want {
			t.Errorf("contentRange(%d, %d, %d) = %q, want %q", tt.offset, tt.n, tt.total, got, tt.want)
		}
	}
}
