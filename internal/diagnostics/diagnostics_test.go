package diagnostics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferrumdb/ferrum/internal/diagnostics"
)

func TestMustPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		diagnostics.Must(errors.New("boom"))
	})
}

func TestMustIsANoOpOnNil(t *testing.T) {
	assert.NotPanics(t, func() {
		diagnostics.Must(nil)
	})
}

func TestMustvReturnsValueOnNilError(t *testing.T) {
	assert.Equal(t, 42, diagnostics.Mustv(42, nil))
}

func TestMustvPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		diagnostics.Mustv(42, errors.New("boom"))
	})
}

func TestWarnfDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		diagnostics.Warnf("table %q declares no primary key", "t")
	})
}
