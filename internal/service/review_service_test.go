package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/internal/testutil"
)

func TestReviewService_Moderation(t *testing.T) {
	db := testutil.NewDB(t)
	cat := testutil.SeedCatalog(t, db)
	u := testutil.CreateUser(t, db, "mykola")
	store := repository.NewStore(db)
	reviews := service.NewReviewService(store)
	ctx := context.Background()

	for _, bad := range []int{0, 6, -1} {
		_, err := reviews.SubmitReview(ctx, cat.Borscht.ID, u.ID, bad, "meh")
		assert.ErrorIs(t, err, service.ErrInvalidInput, "rating %d", bad)
	}
	_, err := reviews.SubmitReview(ctx, 9999, u.ID, 5, "ghost")
	assert.ErrorIs(t, err, service.ErrNotFound)

	good, err := reviews.SubmitReview(ctx, cat.Borscht.ID, u.ID, 5, "  like grandma's  ")
	require.NoError(t, err)
	assert.False(t, good.IsApproved)
	require.NotNil(t, good.Text)
	assert.Equal(t, "like grandma's", *good.Text)
	spam, err := reviews.SubmitReview(ctx, cat.Borscht.ID, u.ID, 1, "spam")
	require.NoError(t, err)

	approved, err := reviews.ListApproved(ctx, cat.Borscht.ID)
	require.NoError(t, err)
	assert.Empty(t, approved)

	pending, err := reviews.ListPending(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, reviews.Approve(ctx, good.ID))
	require.NoError(t, reviews.Reject(ctx, spam.ID))
	assert.ErrorIs(t, reviews.Reject(ctx, spam.ID), service.ErrNotFound)
	assert.ErrorIs(t, reviews.Approve(ctx, 9999), service.ErrNotFound)

	approved, err = reviews.ListApproved(ctx, cat.Borscht.ID)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, good.ID, approved[0].ID)
	for _, r := range approved {
		assert.True(t, r.IsApproved)
	}

	n, err := store.Outbox().CountByStatus(ctx, model.OutboxPending)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
