package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNoteInput(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    error
	}{
		{"valid", "t", "c", nil},
		{"missing title", "", "c", ErrTitleRequired},
		{"missing content", "t", "", ErrContentRequired},
		{"both missing", "", "", ErrTitleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoteInput(tt.title, tt.content)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
