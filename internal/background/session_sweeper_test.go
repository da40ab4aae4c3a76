package background

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/session"
	"github.com/prismaasset360/web/pkg/errorcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	store := session.NewMemoryStore()
	now := time.Now()
	require.NoError(t, store.Save(&session.Data{ID: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Save(&session.Data{ID: "old", ExpiresAt: now.Add(-time.Hour)}))

	sweeper := NewSessionSweeper(store, time.Minute)
	count, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = store.Get("old")
	assert.Equal(t, errorcode.ErrorNotFound, errors.Cause(err))
	_, err = store.Get("live")
	assert.NoError(t, err)
}

func TestSweeperRunsInBackground(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(&session.Data{ID: "old", ExpiresAt: time.Now().Add(-time.Hour)}))

	sweeper := NewSessionSweeper(store, 10*time.Millisecond)
	require.NoError(t, sweeper.Start())
	assert.Error(t, sweeper.Start())

	assert.Eventually(t, func() bool {
		_, err := store.Get("old")
		return errors.Cause(err) == errorcode.ErrorNotFound
	}, time.Second, 10*time.Millisecond)

	wg, err := sweeper.Stop()
	require.NoError(t, err)
	wg.Wait()

	assert.Eventually(t, func() bool {
		return sweeper.status.get() == stateStopped
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, sweeper.Start())
	wg, err = sweeper.Stop()
	require.NoError(t, err)
	wg.Wait()
}

func TestSweeperRejectsBadLifecycle(t *testing.T) {
	sweeper := NewSessionSweeper(session.NewMemoryStore(), time.Minute)

	_, err := sweeper.Stop()
	assert.Error(t, err)

	sweeper.Interval = 0
	assert.Error(t, sweeper.Start())
}
