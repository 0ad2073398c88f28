package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		// Valid names
		{name: "simple name", input: "virtualtime", wantErr: nil},
		{name: "name with hyphen", input: "set-vars", wantErr: nil},
		{name: "name with underscore", input: "set_vars", wantErr: nil},
		{name: "name with numbers", input: "script123", wantErr: nil},

		// Invalid names
		{name: "empty name", input: "", wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "path/to/script", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: "path\\to\\script", wantErr: ErrInvalidAssetName},
		{name: "parent traversal", input: "../secret", wantErr: ErrInvalidAssetName},
		{name: "extension included", input: "advance.js", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
