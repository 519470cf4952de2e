package models

import "errors"

// Common errors for control plane operations.
var (
	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
	ErrUserDisabled  = errors.New("user account is disabled")

	// Storage errors
	ErrVolumeNotFound  = errors.New("volume not found")
	ErrDuplicateVolume = errors.New("volume already exists")
	ErrNoMountPoint    = errors.New("volume has no mount point")
	ErrDiskNotFound    = errors.New("disk not found")

	// Network errors
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrLAGGNotFound      = errors.New("link aggregation not found")

	// Generic record errors for resources without a dedicated sentinel
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("record already exists")

	// Setting errors
	ErrSettingNotFound = errors.New("setting not found")

	// Listing errors
	ErrInvalidOrdering = errors.New("invalid ordering field")
	ErrInvalidRange    = errors.New("invalid range")
)
