package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := NotFound("dataset \"a\"")
	err := Wrapf(base, "summary of %s", "a")

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, HasCode(err, CodeNotFound))
	assert.Equal(t, "summary of a: dataset \"a\" not found", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrap_PlainErrors(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))

	err := Wrap(io.EOF, "reading")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, stderrors.Is(err, io.EOF))
	assert.False(t, HasCode(nil, CodeInternalError))
}

func TestFileError(t *testing.T) {
	err := FileError("data.csv", io.ErrUnexpectedEOF)
	assert.Equal(t, CodeFileError, err.Code)
	assert.Contains(t, err.Error(), "data.csv")
	assert.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
}
