package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("detail-cache")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "detail-cache", b.Name())
}

func TestBreakerOpensAtFailureThreshold(t *testing.T) {
	b := New("detail-cache", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		useFallback, change := b.RecordFailure()
		require.False(t, useFallback)
		require.False(t, change.Opened)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreakerClosesAtSuccessThreshold(t *testing.T) {
	b := New("detail-cache", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	require.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreakerCountsAreRuns(t *testing.T) {
	t.Run("success resets the failure run", func(t *testing.T) {
		b := New("detail-cache", WithFailureThreshold(3))

		b.RecordFailure()
		b.RecordFailure()
		b.RecordSuccess()

		b.RecordFailure()
		b.RecordFailure()
		assert.False(t, b.IsOpen())

		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})

	t.Run("failure resets the recovery run", func(t *testing.T) {
		b := New("detail-cache", WithFailureThreshold(1), WithSuccessThreshold(3))

		b.RecordFailure()
		require.True(t, b.IsOpen())

		b.RecordSuccess()
		b.RecordSuccess()
		b.RecordFailure()
		require.True(t, b.IsOpen())

		b.RecordSuccess()
		b.RecordSuccess()
		assert.True(t, b.IsOpen())
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})
}

func TestBreakerOpenFailureIsNotAChange(t *testing.T) {
	b := New("detail-cache", WithFailureThreshold(1))

	b.RecordFailure()
	require.True(t, b.IsOpen())

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
}

func TestBreakerReset(t *testing.T) {
	b := New("detail-cache", WithFailureThreshold(1))

	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}
