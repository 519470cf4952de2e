package storagetree

import "errors"

var (
	// ErrMalformedTree is returned when the input hierarchy is inconsistent:
	// nil entries, duplicate sibling names, orphans or foreign datasets.
	ErrMalformedTree = errors.New("malformed storage tree")

	// ErrNoMountPoint is returned when a volume has no mount point to
	// source its status and usage from.
	ErrNoMountPoint = errors.New("volume has no mount point")
)
