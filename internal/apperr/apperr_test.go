package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errProductMissing = NotFound("PRODUCT_NOT_FOUND", "product not found")

func TestWrapKeepsIdentity(t *testing.T) {
	cause := errors.New("mongo: no documents in result")
	err := fmt.Errorf("get product: %w", errProductMissing.Wrap(cause))

	assert.ErrorIs(t, err, errProductMissing)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternal(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)

	assert.Equal(t, KindInternal, err.Kind())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "internal", Kind(42).String())
}
