package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := Errorf(KindNotFound, "repo.Get", "record %d not found", 7)
	assert.Equal(t, KindNotFound, KindOf(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, KindNotFound, KindOf(wrapped), "래핑돼도 종류 유지")

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	err := E(KindNetwork, "client.Fetch", errors.New("connection refused"))
	assert.Contains(t, err.Error(), "client.Fetch")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := E(KindServer, "op", inner)
	assert.ErrorIs(t, err, inner)
}
