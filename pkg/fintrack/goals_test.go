package fintrack

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestGoalService_CreateValidation(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	_, err := c.Goals.Create(ctx, &CreateGoalParams{Name: "", TargetAmount: 0, CurrentAmount: floatPtr(-5)})
	require.Error(t, err)

	var ve *ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.NotNil(t, ve.Field("name"))
	assert.NotNil(t, ve.Field("targetAmount"))
	assert.NotNil(t, ve.Field("currentAmount"))
	assert.Equal(t, uint64(0), c.Version())
}

func TestGoalService_UpdateAndClearDate(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()
	target := MustParseDate("2024-06-01")

	goal, err := c.Goals.Create(ctx, &CreateGoalParams{Name: "Trip", TargetAmount: 2000, CurrentAmount: floatPtr(100), TargetDate: &target})
	require.NoError(t, err)
	assert.Equal(t, 100.0, goal.CurrentAmount)

	// The caller's date is not shared with the stored goal
	target = MustParseDate("2030-01-01")
	stored, err := c.Goals.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", stored.TargetDate.String())

	name := "Japan trip"
	updated, err := c.Goals.Update(ctx, goal.ID, &UpdateGoalParams{Name: &name, TargetAmount: floatPtr(3000)})
	require.NoError(t, err)
	assert.Equal(t, "Japan trip", updated.Name)
	assert.Equal(t, 3000.0, updated.TargetAmount)
	assert.NotNil(t, updated.TargetDate)

	updated, err = c.Goals.Update(ctx, goal.ID, &UpdateGoalParams{ClearDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.TargetDate)

	_, err = c.Goals.Update(ctx, "missing", &UpdateGoalParams{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoalService_Contribute(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	goal, err := c.Goals.Create(ctx, &CreateGoalParams{Name: "Fund", TargetAmount: 1})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		goal, err = c.Goals.Contribute(ctx, goal.ID, 0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, 0.3, goal.CurrentAmount)

	_, err = c.Goals.Contribute(ctx, goal.ID, 0)
	assert.True(t, IsValidationError(err))

	_, err = c.Goals.Contribute(ctx, goal.ID, -10)
	assert.True(t, IsValidationError(err))

	_, err = c.Goals.Contribute(ctx, "missing", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoalService_TopActive(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	create := func(name string, target, current float64) {
		_, err := c.Goals.Create(ctx, &CreateGoalParams{Name: name, TargetAmount: target, CurrentAmount: floatPtr(current)})
		require.NoError(t, err)
	}
	create("Ten", 100, 10)
	create("Done", 100, 100)
	create("Ninety", 100, 90)
	create("Fifty", 200, 100)
	create("Zero", 100, 0)

	top, err := c.Goals.TopActive(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, DefaultTopGoals)
	assert.Equal(t, "Ninety", top[0].Name)
	assert.Equal(t, "Fifty", top[1].Name)
	assert.Equal(t, "Ten", top[2].Name)

	all, err := c.Goals.TopActive(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	goals, err := c.Goals.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ten", goals[0].Name, "List keeps creation order")
}

func TestGoalService_PartitionEmpty(t *testing.T) {
	c := newTestClient(t, nil)

	p, err := c.Goals.Partition(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, p.Active)
	assert.NotNil(t, p.Completed)
	assert.Empty(t, p.Active)
	assert.Empty(t, p.Completed)
}

func TestProgressOf(t *testing.T) {
	due := MustParseDate("2024-01-25")
	past := MustParseDate("2024-01-10")

	tests := []struct {
		name string
		goal SavingsGoal
		want GoalProgress
		days *int
	}{
		{
			name: "no target date",
			goal: SavingsGoal{TargetAmount: 500, CurrentAmount: 125},
			want: GoalProgress{Percent: 25, Remaining: 375},
		},
		{
			name: "future date rounds up",
			goal: SavingsGoal{TargetAmount: 500, CurrentAmount: 0, TargetDate: &due},
			want: GoalProgress{Percent: 0, Remaining: 500},
			days: intPtr(10),
		},
		{
			name: "past due",
			goal: SavingsGoal{TargetAmount: 500, CurrentAmount: 250, TargetDate: &past},
			want: GoalProgress{Percent: 50, Remaining: 250},
			days: intPtr(-5),
		},
		{
			name: "over target is not clamped",
			goal: SavingsGoal{TargetAmount: 500, CurrentAmount: 600},
			want: GoalProgress{Percent: 120, Remaining: -100, Completed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.want
			want.DaysLeft = tt.days
			assert.Equal(t, want, ProgressOf(tt.goal, testNow))
		})
	}
}

func TestGoalService_Progress(t *testing.T) {
	c := newTestClient(t, nil)
	due := MustParseDate("2024-01-16")

	p := c.Goals.Progress(SavingsGoal{TargetAmount: 100, CurrentAmount: 100, TargetDate: &due}, testNow.Add(-12*time.Hour))

	assert.True(t, p.Completed)
	require.NotNil(t, p.DaysLeft)
	assert.Equal(t, 1, *p.DaysLeft)
}

func intPtr(v int) *int { return &v }
