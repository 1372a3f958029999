// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code matching

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "invalid_operation",
			code:    errors.ErrInvalidOperation,
			message: "block is not part of the alignment",
			wantStr: "[INVALID_OPERATION] block is not part of the alignment",
		},
		{
			name:    "unexpected_naming",
			code:    errors.ErrUnexpectedNaming,
			message: "prefix 0a is not an ordinal",
			wantStr: "[UNEXPECTED_NAMING] prefix 0a is not an ordinal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("disk full")

	err := errors.Wrapf(base, errors.ErrFileWrite, "cannot write %s", "common/x.txt")
	require.NotNil(t, err)

	assert.Equal(t, "[FILE_WRITE] cannot write common/x.txt: disk full", err.Error())
	assert.True(t, stderrors.Is(err, base))
	assert.Nil(t, errors.Wrap(nil, errors.ErrFileWrite, "nothing"))
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrOutOfRange, "prefix overflow").
		WithDetail("path", "common/z9_x.txt")

	wrapped := errors.Wrap(err, errors.ErrInternal, "renumber failed")

	assert.True(t, errors.IsErrorCode(err, errors.ErrOutOfRange))
	assert.False(t, errors.IsErrorCode(err, errors.ErrUnexpectedNaming))
	assert.Equal(t, errors.ErrInternal, errors.GetErrorCode(wrapped))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Equal(t, "common/z9_x.txt", errors.GetErrorDetails(err)["path"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.New(errors.ErrUnresolved, "common/x.txt has 2 sources")

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrUnresolved, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrNotFound, "")))
}
