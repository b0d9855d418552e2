package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SucceedsAndSatisfiesInvariants(t *testing.T) {
	m := NewManager(nil)
	id := m.Start(context.Background(), "analytics_run", func(ctx context.Context) (any, error) {
		return map[string]any{"ok": true}, nil
	})
	snapshot, ok := m.WaitForTerminalState(context.Background(), id, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, StatusSucceeded, snapshot.Status)
	assert.Equal(t, 100, snapshot.ProgressPct)
	assert.NotNil(t, snapshot.Output)
	assert.Nil(t, snapshot.Error)
}

func TestManager_Fails(t *testing.T) {
	m := NewManager(nil)
	id := m.Start(context.Background(), "analytics_run", func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	snapshot, ok := m.WaitForTerminalState(context.Background(), id, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, snapshot.Status)
	require.NotNil(t, snapshot.Error)
}

func TestManager_CancelIsSticky(t *testing.T) {
	m := NewManager(nil)
	started := make(chan struct{})
	release := make(chan struct{})
	id := m.Start(context.Background(), "slow", func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "done", nil
	})
	<-started
	m.Cancel(context.Background(), id)
	close(release)

	snapshot, ok := m.WaitForTerminalState(context.Background(), id, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, StatusCanceled, snapshot.Status)
	require.NotNil(t, snapshot.Error)
	assert.Equal(t, "canceled", snapshot.Error.Kind)
}
