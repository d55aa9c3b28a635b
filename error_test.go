package domcrawl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/domcrawl"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := domcrawl.Errorf(domcrawl.EINVALID, "invalid start URL %q", "ftp://bad")

	assert.Equal(t, domcrawl.EINVALID, domcrawl.ErrorCode(err))
	assert.Equal(t, "invalid start URL \"ftp://bad\"", domcrawl.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("crawl: %w", domcrawl.Errorf(domcrawl.ENOTFOUND, "run not found"))

	assert.Equal(t, domcrawl.ENOTFOUND, domcrawl.ErrorCode(err))
	assert.Equal(t, "run not found", domcrawl.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, domcrawl.EINTERNAL, domcrawl.ErrorCode(err))
	assert.Equal(t, "Internal error.", domcrawl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, domcrawl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, domcrawl.ErrorMessage(nil))
}
