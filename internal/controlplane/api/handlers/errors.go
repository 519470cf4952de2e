package handlers

import (
	"errors"
	"net/http"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/storagetree"
)

// storeErrors maps domain sentinels to a status and a client-facing
// message. Order matters only for errors that wrap more than one sentinel.
var storeErrors = []struct {
	err    error
	status int
	msg    string
}{
	{models.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{models.ErrVolumeNotFound, http.StatusNotFound, "Volume not found"},
	{models.ErrDiskNotFound, http.StatusNotFound, "Disk not found"},
	{models.ErrInterfaceNotFound, http.StatusNotFound, "Interface not found"},
	{models.ErrLAGGNotFound, http.StatusNotFound, "Link aggregation not found"},
	{models.ErrSettingNotFound, http.StatusNotFound, "Setting not found"},
	{models.ErrRecordNotFound, http.StatusNotFound, "Record not found"},

	{models.ErrDuplicateUser, http.StatusConflict, "User already exists"},
	{models.ErrDuplicateVolume, http.StatusConflict, "Volume already exists"},
	{models.ErrDuplicate, http.StatusConflict, "Record already exists"},

	{models.ErrUserDisabled, http.StatusForbidden, "User account is disabled"},

	{models.ErrInvalidOrdering, http.StatusBadRequest, "Invalid ordering field"},
	{models.ErrInvalidRange, http.StatusBadRequest, "Invalid range"},

	{storagetree.ErrMalformedTree, http.StatusInternalServerError, "Malformed dataset hierarchy"},
	{storagetree.ErrNoMountPoint, http.StatusInternalServerError, "Volume has no mount point"},
	{models.ErrNoMountPoint, http.StatusInternalServerError, "Volume has no mount point"},
}

// MapStoreError maps a store or projection error to an HTTP status and a
// message safe to show to clients. Unknown errors map to 500.
func MapStoreError(err error) (int, string) {
	for _, e := range storeErrors {
		if errors.Is(err, e.err) {
			return e.status, e.msg
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// HandleStoreError writes the problem response for err. Server-side
// failures are logged at ERROR with the underlying cause; the client only
// sees the mapped message.
func HandleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := MapStoreError(err)

	switch {
	case status >= http.StatusInternalServerError:
		logger.ErrorCtx(r.Context(), "request failed", logger.Err(err))
	case status == http.StatusBadRequest:
		// The wrapped error names the offending field or range.
		msg = err.Error()
	}

	p := newProblem(status, msg)
	p.Instance = r.URL.Path
	switch {
	case errors.Is(err, storagetree.ErrMalformedTree):
		p.Type = ProblemTypeMalformedTree
	case errors.Is(err, storagetree.ErrNoMountPoint), errors.Is(err, models.ErrNoMountPoint):
		p.Type = ProblemTypeNoMountPoint
	case errors.Is(err, models.ErrInvalidRange):
		p.Type = ProblemTypeInvalidRange
	}
	p.Write(w)
}
