package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

func TestIsAborted(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"aborted", ErrAborted, true},
		{"interrupt", promptui.ErrInterrupt, true},
		{"eof", promptui.ErrEOF, true},
		{"wrapped", errors.Join(errors.New("reading"), ErrAborted), true},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAborted(tt.err); got != tt.want {
				t.Errorf("IsAborted(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfirmWithForce(t *testing.T) {
	ok, err := ConfirmWithForce("Replace inventory", true)
	if err != nil || !ok {
		t.Fatalf("ConfirmWithForce(force) = %v, %v", ok, err)
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"admin", false},
		{"ops.team", false},
		{"", true},
		{"two words", true},
		{strings.Repeat("a", models.MaxUsernameLength+1), true},
	}
	for _, tt := range tests {
		if err := ValidateUsername(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateOptionalEmail(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"root@nas.local", false},
		{"Root <root@nas.local>", true},
		{"not-an-address", true},
	}
	for _, tt := range tests {
		if err := ValidateOptionalEmail(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateOptionalEmail(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
