package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "tRNA", false},
		{"valid with dash", "1GID-A", false},
		{"valid with dot", "rnase.p", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"space", "my rna", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", "untitled"},
		{"  ", "untitled"},
		{"my rna", "my_rna"},
		{"tRNA", "tRNA"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.input); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if err := ValidateName(SanitizeName(tt.input)); err != nil {
			t.Errorf("sanitized name %q does not validate: %v", tt.input, err)
		}
	}
}

func TestValidateStructureAlphabet(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"..((..))..", false},
		{"((..))&((..))", false},
		{"(([[))]]", false},
		{"((AA))aa", false},
		{"", true},
		{"((..))x1", true},
		{"(( ))", true},
	}
	for _, tt := range tests {
		err := ValidateStructureAlphabet(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStructureAlphabet(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidStructure) {
			t.Errorf("ValidateStructureAlphabet(%q) code = %v", tt.input, GetCode(err))
		}
	}
}
