package service

import (
	"context"
	"testing"

	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/repository"
	"LunchVoter/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsServiceDefaultsThenHotReload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defaults := interfaces.VotingSettings{Weights: []float64{1, 0.5, 0.25}, DailyBudget: 10, CutoffHour: 12}
	svc := NewSettingsService(repository.NewSettingsRepository(db), defaults, testutil.Logger())
	ctx := context.Background()

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaults, cur)

	updated := interfaces.VotingSettings{Weights: []float64{2, 1}, DailyBudget: 3, CutoffHour: 0}
	_, err = svc.Update(ctx, updated)
	require.NoError(t, err)

	cur, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, cur)

	// 第二次保存覆盖同一行
	updated.DailyBudget = 5
	_, err = svc.Update(ctx, updated)
	require.NoError(t, err)
	cur, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, cur.DailyBudget)
}

func TestSettingsUpdateFeedsLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewSettingsService(repository.NewSettingsRepository(db),
		interfaces.VotingSettings{Weights: []float64{1}, DailyBudget: 10, CutoffHour: 12}, testutil.Logger())
	ledger := NewVoteLedger(repository.NewRestaurantRepository(db), repository.NewVoteRepository(db), svc, morning.Location(), testutil.Logger())
	user := testutil.CreateUser(t, db, "alice")
	rest := testutil.CreateRestaurant(t, db, "A")
	ctx := context.Background()

	_, err := ledger.CastVote(ctx, user.ID, rest.ID, morning)
	require.NoError(t, err)

	_, err = svc.Update(ctx, interfaces.VotingSettings{Weights: []float64{1}, DailyBudget: 1, CutoffHour: 12})
	require.NoError(t, err)
	_, err = ledger.CastVote(ctx, user.ID, rest.ID, morning)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestValidateSettings(t *testing.T) {
	valid := interfaces.VotingSettings{Weights: []float64{1, 0.5}, DailyBudget: 1, CutoffHour: 23}
	require.NoError(t, ValidateSettings(valid))
	require.NoError(t, ValidateSettings(interfaces.VotingSettings{DailyBudget: 1}))

	bad := []interfaces.VotingSettings{
		{Weights: []float64{1, 0}, DailyBudget: 1},
		{Weights: []float64{-1}, DailyBudget: 1},
		{DailyBudget: 0},
		{DailyBudget: 1, CutoffHour: 24},
		{DailyBudget: 1, CutoffHour: -1},
	}
	for _, s := range bad {
		assert.ErrorIs(t, ValidateSettings(s), ErrInvalidInput, "%+v", s)
	}
}
