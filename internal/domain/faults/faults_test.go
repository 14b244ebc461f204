package faults

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorage(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("slots.insert", cause)

	assert.True(t, IsStorage(err))
	assert.False(t, IsProvisioning(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "slots.insert")

	assert.NoError(t, Storage("noop", nil))
	assert.Same(t, err, Storage("outer", err))
}

func TestStorageTimeout(t *testing.T) {
	err := Storage("usage.increment", context.DeadlineExceeded)

	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestProvisioning(t *testing.T) {
	cause := errors.New("missing permissions")
	err := Provisioning("channel.create", cause)

	assert.True(t, IsProvisioning(err))
	assert.False(t, IsStorage(err))
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, Provisioning("noop", nil))
}
