// Package prompt wraps promptui for the interactive parts of dnas.
package prompt

import (
	"errors"
	"net/mail"

	"github.com/manifoldco/promptui"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

var (
	// ErrAborted is returned when the user presses Ctrl+C.
	ErrAborted = errors.New("aborted")

	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// IsAborted reports whether err came from the user cancelling a prompt.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}

func run(p promptui.Prompt) (string, error) {
	result, err := p.Run()
	if err != nil && IsAborted(err) {
		return "", ErrAborted
	}
	return result, err
}

// Confirm asks a yes/no question. Anything but y/yes is a no.
func Confirm(label string) (bool, error) {
	_, err := run(promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	})
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ConfirmWithForce skips the question when force is set.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label)
}

// Input asks for a value, offering def.
func Input(label, def string, validate func(string) error) (string, error) {
	return run(promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	})
}

// Password asks for a masked secret without validation.
func Password(label string) (string, error) {
	return run(promptui.Prompt{
		Label: label,
		Mask:  '*',
	})
}

// NewPassword asks for a password accepted by models.ValidatePassword and
// its confirmation.
func NewPassword() (string, error) {
	password, err := run(promptui.Prompt{
		Label:    "New password",
		Mask:     '*',
		Validate: models.ValidatePassword,
	})
	if err != nil {
		return "", err
	}

	confirm, err := Password("Confirm password")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}
	return password, nil
}

// ValidateUsername applies the account rules used by the user store.
func ValidateUsername(s string) error {
	return models.ValidateUsername(s)
}

// ValidateOptionalEmail accepts an empty string or a bare address.
func ValidateOptionalEmail(s string) error {
	if s == "" {
		return nil
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return errors.New("invalid email address")
	}
	return nil
}
