package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync-be/apperrors"
	"civicsync-be/models"
)

func TestVoteService_Scenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	a := env.user(t, "a")
	b := env.user(t, "b")
	issue := env.issue(t, owner.ID, nil)

	_, err := env.votes.Vote(ctx, issue.ID, a.ID)
	require.NoError(t, err)
	vote, err := env.votes.Vote(ctx, issue.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, vote.IssueID)
	assert.Equal(t, b.ID, vote.UserID)

	count, err := env.votes.GetVoteCount(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = env.votes.Vote(ctx, issue.ID, a.ID)
	assert.True(t, apperrors.IsConflict(err))

	require.NoError(t, env.votes.Unvote(ctx, issue.ID, a.ID))
	count, err = env.votes.GetVoteCount(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = env.votes.Unvote(ctx, issue.ID, a.ID)
	assert.True(t, apperrors.IsNotFound(err))

	voted, err := env.votes.HasVoted(ctx, issue.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, voted)
	voted, err = env.votes.HasVoted(ctx, issue.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestVoteService_MissingIssue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.votes.Vote(ctx, "missing", "u")
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(env.votes.Unvote(ctx, "missing", "u")))
	_, err = env.votes.GetVoteCount(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
	_, err = env.votes.HasVoted(ctx, "missing", "u")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestVoteService_CounterMatchesVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	issue := env.issue(t, owner.ID, nil)

	users := make([]*models.User, 5)
	for i := range users {
		users[i] = env.user(t, string(rune('a'+i))+"-voter")
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 100; step++ {
		u := users[rng.Intn(len(users))]
		if rng.Intn(2) == 0 {
			_, _ = env.votes.Vote(ctx, issue.ID, u.ID)
		} else {
			_ = env.votes.Unvote(ctx, issue.ID, u.ID)
		}

		got, err := env.store.Issues().FindByID(ctx, issue.ID)
		require.NoError(t, err)
		rows, err := env.store.Votes().CountByIssue(ctx, issue.ID)
		require.NoError(t, err)
		require.Equal(t, rows, got.VoteCount, "step %d", step)
	}
}

func TestVoteService_ConcurrentVotesAndUnvotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	issue := env.issue(t, owner.ID, nil)

	users := make([]*models.User, 6)
	for i := range users {
		users[i] = env.user(t, string(rune('a'+i))+"-concurrent")
	}

	var wg sync.WaitGroup
	for _, u := range users {
		for i := 0; i < 3; i++ {
			wg.Add(2)
			go func(id string) {
				defer wg.Done()
				_, _ = env.votes.Vote(ctx, issue.ID, id)
			}(u.ID)
			go func(id string) {
				defer wg.Done()
				_ = env.votes.Unvote(ctx, issue.ID, id)
			}(u.ID)
		}
	}
	wg.Wait()

	got, err := env.store.Issues().FindByID(ctx, issue.ID)
	require.NoError(t, err)
	rows, err := env.store.Votes().CountByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, got.VoteCount)
	assert.GreaterOrEqual(t, got.VoteCount, int64(0))
}

func TestVoteService_VotedIssues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	voter := env.user(t, "voter")
	first := env.issue(t, owner.ID, nil)
	second := env.issue(t, owner.ID, nil)

	_, err := env.votes.Vote(ctx, second.ID, voter.ID)
	require.NoError(t, err)

	voted, err := env.votes.VotedIssues(ctx, voter.ID, []string{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{second.ID: true}, voted)
}
