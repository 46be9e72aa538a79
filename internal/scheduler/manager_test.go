package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contentradar/internal/domain/content"
	"contentradar/internal/service/listening"
)

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(ctx context.Context, reason content.SnapshotReason) (*listening.Result, error) {
	args := m.Called(ctx, reason)
	result, _ := args.Get(0).(*listening.Result)
	return result, args.Error(1)
}

func TestRefreshJob_UsesCronReason(t *testing.T) {
	r := &mockRefresher{}
	r.On("Refresh", mock.Anything, content.ReasonCron).Return(&listening.Result{}, nil).Once()

	NewRefreshJob(r, time.Minute).Run()

	r.AssertExpectations(t)
}

func TestRefreshJob_SetsDeadline(t *testing.T) {
	r := &mockRefresher{}
	r.On("Refresh", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), content.ReasonCron).Return(nil, nil).Once()

	NewRefreshJob(r, time.Minute).Run()

	r.AssertExpectations(t)
}

func TestRefreshJob_AbsorbsErrors(t *testing.T) {
	for _, err := range []error{listening.ErrRefreshInProgress, errors.New("boom")} {
		r := &mockRefresher{}
		r.On("Refresh", mock.Anything, content.ReasonCron).Return(nil, err).Once()

		assert.NotPanics(t, NewRefreshJob(r, 0).Run)
		r.AssertExpectations(t)
	}
}

func TestManager_RegisterJobs(t *testing.T) {
	m := NewManager(NewRefreshJob(&mockRefresher{}, 0))

	require.NoError(t, m.RegisterJobs("@every 30m"))
	assert.Equal(t, 1, m.Entries())

	assert.Error(t, m.RegisterJobs("not a spec"))
	assert.Equal(t, 1, m.Entries())
}

func TestManager_EmptySpecDisables(t *testing.T) {
	m := NewManager(NewRefreshJob(&mockRefresher{}, 0))

	require.NoError(t, m.RegisterJobs(""))
	assert.Equal(t, 0, m.Entries())
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager(NewRefreshJob(&mockRefresher{}, 0))
	require.NoError(t, m.RegisterJobs("@every 1h"))

	m.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, m.Stop(ctx))
}
