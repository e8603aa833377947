package workorder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rooterworks/rmetrack/internal/workorder"
)

func TestCache_SnapshotReadThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	records := []workorder.WorkOrder{{ID: "1"}, {ID: "2"}}

	lister := workorder.NewMockLister(ctrl)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return(records, nil).Times(1)

	cache := workorder.NewCache(lister, time.Minute)

	got, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Second read within the interval is served from cache.
	got, err = cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := workorder.NewMockLister(ctrl)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return([]workorder.WorkOrder{{ID: "1"}}, nil)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return([]workorder.WorkOrder{{ID: "1"}, {ID: "2"}}, nil)

	cache := workorder.NewCache(lister, time.Minute)

	got, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	cache.Invalidate()

	got, err = cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCache_ServesStaleOnFetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := workorder.NewMockLister(ctrl)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return([]workorder.WorkOrder{{ID: "1"}}, nil)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return(nil, errors.New("backend down"))

	cache := workorder.NewCache(lister, time.Minute)

	_, err := cache.Snapshot(context.Background())
	require.NoError(t, err)

	cache.Invalidate()

	got, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCache_StaleCopySurvivesInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := workorder.NewMockLister(ctrl)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return([]workorder.WorkOrder{{ID: "1"}}, nil)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return(nil, errors.New("backend down")).Times(2)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return([]workorder.WorkOrder{{ID: "1"}, {ID: "2"}}, nil)

	cache := workorder.NewCache(lister, time.Minute)

	_, err := cache.Snapshot(context.Background())
	require.NoError(t, err)

	// A save invalidates; the refetch failing must not lose the collection,
	// even across repeated failures.
	cache.Invalidate()

	got, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	cache.Invalidate()

	got, err = cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Once the backend recovers the next read picks up the fresh copy.
	cache.Invalidate()

	got, err = cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCache_ErrorWithNoCachedCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := workorder.NewMockLister(ctrl)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return(nil, errors.New("backend down"))

	cache := workorder.NewCache(lister, time.Minute)

	_, err := cache.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestCache_ActiveAndDeletedSplit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	records := []workorder.WorkOrder{
		{ID: "1"},
		{ID: "2", IsDeleted: true},
		{ID: "3"},
	}

	lister := workorder.NewMockLister(ctrl)
	lister.EXPECT().ListWorkOrders(gomock.Any()).Return(records, nil).Times(1)

	cache := workorder.NewCache(lister, time.Minute)

	active, err := cache.Active(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "1", active[0].ID)
	assert.Equal(t, "3", active[1].ID)

	deleted, err := cache.Deleted(context.Background())
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "2", deleted[0].ID)
}
