package errmsg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Empty(t, Format(OpSeek, nil))
	assert.Equal(t,
		"Failed to seek: position out of range",
		Format(OpSeek, errors.New("position out of range")))
	assert.Equal(t,
		"Failed to save resume position: database is locked",
		Format(OpResumeSave, errors.New("database is locked")))
}

func TestFormatWith(t *testing.T) {
	cause := errors.New("no decoder for .m4a")
	tests := []struct {
		name    string
		context string
		err     error
		want    string
	}{
		{"nil error", "a.m4a", nil, ""},
		{"with media", "a.m4a", cause, "Failed to open media 'a.m4a': no decoder for .m4a"},
		{"without media", "", cause, "Failed to open media: no decoder for .m4a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWith(OpOpenMedia, tt.context, tt.err))
		})
	}
}

func TestOperationNamesReadAsVerbs(t *testing.T) {
	for _, op := range []Op{
		OpPrepare, OpStart, OpPause, OpToggle, OpStop, OpSeek, OpRestart, OpReset,
		OpOpenMedia, OpResumeLoad, OpResumeSave, OpVolumeSave,
		OpMPRISStart, OpNotify, OpConfigLoad, OpInitialize,
	} {
		assert.NotEmpty(t, op)
		assert.NotContains(t, string(op), "Failed", "op %q", op)
	}
}
