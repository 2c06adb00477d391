package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/testutil"
	"github.com/iho/billingledger/internal/usecase"
	"github.com/iho/billingledger/internal/usecase/mocks"
)

func TestProcessor_SkipsEventsBehindCursor(t *testing.T) {
	l := testutil.NewMemoryLedger(t)
	f := testutil.NewEventFactory(testutil.LaunchTimestamp)
	ctx := context.Background()

	first := f.TokensAdded(testutil.User1, 10)
	second := f.TokensAdded(testutil.User1, 5)
	l.Apply(first, second)

	for _, replay := range []domain.Event{first, second} {
		applied, err := l.Processor.Process(ctx, replay)
		require.NoError(t, err)
		assert.False(t, applied)
	}

	assert.True(t, l.Account(testutil.User1).Balance.Equal(d(15)), "replays must not double count")

	pos, ok, err := l.Processor.Position(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.Position(), pos)
}

func TestProcessor_PositionBeforeFirstEvent(t *testing.T) {
	l := testutil.NewMemoryLedger(t)

	_, ok, err := l.Processor.Position(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessor_AppliesLaterLogInSameBlock(t *testing.T) {
	l := testutil.NewMemoryLedger(t)
	f := testutil.NewEventFactory(testutil.LaunchTimestamp)

	first := f.TokensAdded(testutil.User1, 1)
	second := f.TokensAdded(testutil.User1, 1)
	second.BlockNumber = first.BlockNumber
	second.LogIndex = first.LogIndex + 3

	l.Apply(first, second)
	assert.True(t, l.Account(testutil.User1).Balance.Equal(d(2)))
}

func TestProcessor_ReducerErrorRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	cursors := mocks.NewMockCursorRepository(ctrl)
	reducer := mocks.NewMockReducer(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	event := testutil.NewEventFactory(testutil.LaunchTimestamp).TokensAdded(testutil.User1, 1)
	boom := errors.New("connection reset")

	retrier.EXPECT().Retry(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, op func() error) error {
		return op()
	})
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	cursors.EXPECT().Get(gomock.Any(), tx, usecase.BillingCursorID).Return(nil, domain.ErrCursorNotFound)
	reducer.EXPECT().Apply(gomock.Any(), tx, event).Return(boom)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	p := usecase.NewProcessor(txManager, cursors, reducer, retrier, usecase.BillingCursorID, nil)
	applied, err := p.Process(ctx, event)

	assert.False(t, applied)
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsFatal(err))
}

func TestProcessor_SavesCursorBeforeCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	cursors := mocks.NewMockCursorRepository(ctrl)
	reducer := mocks.NewMockReducer(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	event := testutil.NewEventFactory(testutil.LaunchTimestamp).TokensAdded(testutil.User1, 1)
	stored := &domain.Cursor{ID: usecase.BillingCursorID, Position: domain.Position{BlockNumber: 1}}

	retrier.EXPECT().Retry(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, op func() error) error {
		return op()
	})
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	gomock.InOrder(
		cursors.EXPECT().Get(gomock.Any(), tx, usecase.BillingCursorID).Return(stored, nil),
		reducer.EXPECT().Apply(gomock.Any(), tx, event).Return(nil),
		cursors.EXPECT().Save(gomock.Any(), tx, &domain.Cursor{ID: usecase.BillingCursorID, Position: event.Position()}).Return(nil),
		tx.EXPECT().Commit(gomock.Any()).Return(nil),
	)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	p := usecase.NewProcessor(txManager, cursors, reducer, retrier, usecase.BillingCursorID, nil)
	applied, err := p.Process(ctx, event)

	require.NoError(t, err)
	assert.True(t, applied)
}

func TestEventRouter_UnknownKindIsFatal(t *testing.T) {
	router := usecase.NewEventRouter()
	event := testutil.NewEventFactory(testutil.LaunchTimestamp).Transfer(testutil.User1, testutil.User2, 1)

	err := router.Apply(context.Background(), nil, event)
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)
	assert.True(t, domain.IsFatal(err))
}
