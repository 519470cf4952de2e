// Package handlers serves the read-only NAS listings of the DittoNAS API.
package handlers

import (
	"encoding/json"
	"net/http"
)

// ContentTypeProblemJSON is the Content-Type of RFC 7807 error bodies.
const ContentTypeProblemJSON = "application/problem+json"

// Problem type URIs for failures clients may want to tell apart. Every
// other failure is "about:blank".
const (
	ProblemTypeMalformedTree = "urn:dittonas:problem:malformed-tree"
	ProblemTypeNoMountPoint  = "urn:dittonas:problem:no-mountpoint"
	ProblemTypeInvalidRange  = "urn:dittonas:problem:invalid-range"
)

// Problem is an RFC 7807 problem details document.
type Problem struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"` // request path
}

func newProblem(status int, detail string) *Problem {
	return &Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// Write sends p with its own status code.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentTypeProblemJSON)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func BadRequest(w http.ResponseWriter, detail string) {
	newProblem(http.StatusBadRequest, detail).Write(w)
}

func Unauthorized(w http.ResponseWriter, detail string) {
	newProblem(http.StatusUnauthorized, detail).Write(w)
}

func Forbidden(w http.ResponseWriter, detail string) {
	newProblem(http.StatusForbidden, detail).Write(w)
}

func InternalServerError(w http.ResponseWriter, detail string) {
	newProblem(http.StatusInternalServerError, detail).Write(w)
}

// WriteJSON encodes data as the response body.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteJSONOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}
