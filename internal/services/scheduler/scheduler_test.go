package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/services/ingest"
)

type mockRefresher struct {
	refreshFunc func(ctx context.Context) (ingest.Stats, error)
}

func (m *mockRefresher) Refresh(ctx context.Context) (ingest.Stats, error) {
	return m.refreshFunc(ctx)
}

func signallingRefresher(err error) (*mockRefresher, chan struct{}) {
	done := make(chan struct{}, 1)
	return &mockRefresher{refreshFunc: func(ctx context.Context) (ingest.Stats, error) {
		done <- struct{}{}
		return ingest.Stats{Chunks: 3}, err
	}}, done
}

func TestStart_EmptyScheduleIsDisabled(t *testing.T) {
	refresher, _ := signallingRefresher(nil)
	s := NewScheduler(refresher, arbor.NewLogger())

	require.NoError(t, s.Start(""))

	assert.Nil(t, s.NextRun())
	assert.Equal(t, "", s.Schedule())
	s.Stop()
}

func TestStart_ValidSchedule(t *testing.T) {
	refresher, _ := signallingRefresher(nil)
	s := NewScheduler(refresher, arbor.NewLogger())

	require.NoError(t, s.Start("0 0 */6 * * *"))
	defer s.Stop()

	assert.Equal(t, "0 0 */6 * * *", s.Schedule())
	next := s.NextRun()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
}

func TestStart_InvalidSchedule(t *testing.T) {
	tests := []string{"not a schedule", "* * * * * *", "*/5 * * * * *"}

	for _, schedule := range tests {
		t.Run(schedule, func(t *testing.T) {
			refresher, _ := signallingRefresher(nil)
			s := NewScheduler(refresher, arbor.NewLogger())

			assert.Error(t, s.Start(schedule))
			assert.Nil(t, s.NextRun())
		})
	}
}

func TestRunNow(t *testing.T) {
	for _, refreshErr := range []error{nil, errors.New("list failed")} {
		refresher, done := signallingRefresher(refreshErr)
		s := NewScheduler(refresher, arbor.NewLogger())

		s.RunNow()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("refresh was not triggered")
		}
	}
}
