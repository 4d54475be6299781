package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultInjectorCountdown(t *testing.T) {
	b := NewBuilder()
	b.BeginThrowingExceptionsAfterCount(2)

	_, err := b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	require.NoError(t, err)
	_, err = b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	require.NoError(t, err)

	_, err = b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	assert.ErrorIs(t, err, ErrInjectedFault)

	// stays failing until disarmed
	_, err = b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	assert.ErrorIs(t, err, ErrInjectedFault)
}

func TestFaultInjectorZeroCountFailsImmediately(t *testing.T) {
	b := NewBuilder()
	b.BeginThrowingExceptionsAfterCount(0)

	_, err := b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	assert.ErrorIs(t, err, ErrInjectedFault)
}

func TestFaultInjectorIgnoredPrefixes(t *testing.T) {
	b := NewBuilder()
	b.BeginThrowingExceptionsAfterCount(1, "/balances/")

	// ignored calls never consume the budget and never fail
	for i := 0; i < 5; i++ {
		_, err := b.Request(context.Background(), "GET", "/balances/1Some", nil)
		require.NoError(t, err)
	}

	_, err := b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	require.NoError(t, err)
	_, err = b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	assert.ErrorIs(t, err, ErrInjectedFault)

	// ignored prefix bypasses the armed failure as well
	_, err = b.Request(context.Background(), "GET", "/balances/1Some", nil)
	assert.NoError(t, err)
}

func TestFaultInjectorStop(t *testing.T) {
	b := NewBuilder()
	b.BeginThrowingExceptionsAfterCount(0)

	_, err := b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	require.ErrorIs(t, err, ErrInjectedFault)

	b.StopThrowingExceptions()
	_, err = b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	assert.NoError(t, err)
}

func TestFaultedCallsAreNotRecorded(t *testing.T) {
	b := NewBuilder()
	b.BeginThrowingExceptionsAfterCount(1)

	_, err := b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	require.NoError(t, err)
	_, err = b.Request(context.Background(), "POST", "/addresses", map[string]any{})
	require.ErrorIs(t, err, ErrInjectedFault)

	assert.Equal(t, 1, b.Recorder().Len())
}
