package repository

import (
	"context"
	"testing"

	"LunchVoter/internal/model"
	"LunchVoter/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementIsCompareAndSwap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewVoteRepository(db)
	u := testutil.CreateUser(t, db, "alice")
	r := testutil.CreateRestaurant(t, db, "A")
	v := testutil.CreateVote(t, db, &u.ID, r.ID, "2024-05-10", 1, 1.0)

	err := repo.WithUserLock(context.Background(), u.ID, func(tx VoteTx) error {
		v.Amount, v.Score = 2, 1.5
		return tx.Increment(v, 1)
	})
	require.NoError(t, err)

	// 旧版本号不再命中
	err = repo.WithUserLock(context.Background(), u.ID, func(tx VoteTx) error {
		v.Amount, v.Score = 2, 9.9
		return tx.Increment(v, 1)
	})
	assert.ErrorIs(t, err, ErrStaleVote)

	var got model.VoteRecord
	require.NoError(t, db.First(&got, v.ID).Error)
	assert.Equal(t, 2, got.Amount)
	assert.Equal(t, 1.5, got.Score)
}

func TestUniqueTripleRejectsDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewVoteRepository(db)
	u := testutil.CreateUser(t, db, "alice")
	r := testutil.CreateRestaurant(t, db, "A")
	testutil.CreateVote(t, db, &u.ID, r.ID, "2024-05-10", 1, 1.0)

	err := repo.WithUserLock(context.Background(), u.ID, func(tx VoteTx) error {
		return tx.Create(&model.VoteRecord{UserID: &u.ID, RestaurantID: r.ID, Day: "2024-05-10", Amount: 1, Score: 1})
	})
	assert.True(t, IsDuplicateKey(err))
}

func TestFindAndSumAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewVoteRepository(db)
	u := testutil.CreateUser(t, db, "alice")
	a := testutil.CreateRestaurant(t, db, "A")
	b := testutil.CreateRestaurant(t, db, "B")
	testutil.CreateVote(t, db, &u.ID, a.ID, "2024-05-10", 2, 1.5)
	testutil.CreateVote(t, db, &u.ID, b.ID, "2024-05-10", 3, 1.75)
	testutil.CreateVote(t, db, &u.ID, b.ID, "2024-05-09", 4, 2.0)

	err := repo.WithUserLock(context.Background(), u.ID, func(tx VoteTx) error {
		sum, err := tx.SumAmount(u.ID, "2024-05-10")
		require.NoError(t, err)
		assert.Equal(t, 5, sum)

		empty, err := tx.SumAmount(u.ID, "2024-05-11")
		require.NoError(t, err)
		assert.Zero(t, empty)

		found, err := tx.Find(u.ID, b.ID, "2024-05-10")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 3, found.Amount)

		missing, err := tx.Find(u.ID, a.ID, "2024-05-09")
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)

	list, err := repo.ListByDay(context.Background(), "2024-05-10")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestWithUserLockRollsBackOnError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewVoteRepository(db)
	u := testutil.CreateUser(t, db, "alice")
	r := testutil.CreateRestaurant(t, db, "A")

	err := repo.WithUserLock(context.Background(), u.ID, func(tx VoteTx) error {
		require.NoError(t, tx.Create(&model.VoteRecord{UserID: &u.ID, RestaurantID: r.ID, Day: "2024-05-10", Amount: 1, Score: 1}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var n int64
	require.NoError(t, db.Model(&model.VoteRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUserDeleteClearsVoteOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := NewUserRepository(db)
	u := testutil.CreateUser(t, db, "alice")
	r := testutil.CreateRestaurant(t, db, "A")
	v := testutil.CreateVote(t, db, &u.ID, r.ID, "2024-05-10", 1, 1.0)

	require.NoError(t, users.Delete(context.Background(), u.ID))
	assert.True(t, IsNotFound(users.Delete(context.Background(), u.ID)))

	var got model.VoteRecord
	require.NoError(t, db.First(&got, v.ID).Error)
	assert.Nil(t, got.UserID)
}
