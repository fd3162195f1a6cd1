package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/store"
)

func TestIssueService_CreateIssue(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")

	issue := env.issue(t, owner.ID, func(in *CreateIssueInput) {
		in.Title = "<b>Leaking</b> hydrant"
		in.LocationAddress = strPtr("<script>x</script>12 Elm St")
	})

	assert.Equal(t, "Leaking hydrant", issue.Title)
	assert.Equal(t, "12 Elm St", *issue.LocationAddress)
	assert.Equal(t, models.StatusPending, issue.Status)
	assert.Zero(t, issue.VoteCount)
	assert.Equal(t, owner.ID, issue.UserID)
	assert.Equal(t, fixedNow, issue.CreatedAt)
}

func TestIssueService_GetIssueByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	issue := env.issue(t, owner.ID, nil)

	_, err := env.media.Upload(ctx, issue.ID, owner.ID, Upload{
		Filename:    "photo.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png"),
	})
	require.NoError(t, err)

	view, err := env.issues.GetIssueByID(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, view.User)
	assert.Equal(t, owner.Email, view.User.Email)
	require.Len(t, view.Media, 1)
	assert.Equal(t, "image/png", view.Media[0].FileType)
	assert.Nil(t, view.HasVoted)

	_, err = env.issues.GetIssueByID(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestIssueService_UpdateGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	other := env.user(t, "other")
	issue := env.issue(t, owner.ID, nil)

	_, err := env.issues.UpdateIssue(ctx, "missing", models.IssuePatch{Title: strPtr("x")}, owner.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = env.issues.UpdateIssue(ctx, issue.ID, models.IssuePatch{Title: strPtr("x")}, other.ID)
	assert.True(t, apperrors.IsForbidden(err))

	updated, err := env.issues.UpdateIssue(ctx, issue.ID, models.IssuePatch{Title: strPtr("Fixed title")}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fixed title", updated.Title)
	assert.Equal(t, issue.Description, updated.Description)

	_, err = env.issues.UpdateStatus(ctx, issue.ID, models.StatusInProgress)
	require.NoError(t, err)

	for _, caller := range []string{owner.ID, other.ID, ""} {
		_, err = env.issues.UpdateIssue(ctx, issue.ID, models.IssuePatch{Title: strPtr("Too late")}, caller)
		assert.True(t, apperrors.IsInvalidState(err), "caller %q", caller)
		assert.True(t, apperrors.IsInvalidState(env.issues.DeleteIssue(ctx, issue.ID, caller)), "caller %q", caller)
	}

	got, err := env.store.Issues().FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fixed title", got.Title)
}

func TestIssueService_DeleteIssue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	voter := env.user(t, "voter")
	issue := env.issue(t, owner.ID, nil)

	_, err := env.votes.Vote(ctx, issue.ID, voter.ID)
	require.NoError(t, err)
	media, err := env.media.Upload(ctx, issue.ID, owner.ID, Upload{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg"),
	})
	require.NoError(t, err)
	blobPath := filepath.Join(env.blobs.Dir(), filepath.FromSlash(media.StorageKey))
	_, err = os.Stat(blobPath)
	require.NoError(t, err)

	assert.True(t, apperrors.IsForbidden(env.issues.DeleteIssue(ctx, issue.ID, voter.ID)))
	require.NoError(t, env.issues.DeleteIssue(ctx, issue.ID, owner.ID))

	_, err = env.issues.GetIssueByID(ctx, issue.ID)
	assert.True(t, apperrors.IsNotFound(err))
	count, err := env.store.Votes().CountByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = os.Stat(blobPath)
	assert.True(t, os.IsNotExist(err))

	assert.True(t, apperrors.IsNotFound(env.issues.DeleteIssue(ctx, issue.ID, owner.ID)))
}

func TestIssueService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	issue := env.issue(t, owner.ID, nil)

	_, err := env.issues.UpdateStatus(ctx, issue.ID, models.StatusResolved)
	assert.True(t, apperrors.IsInvalidState(err))

	_, err = env.issues.UpdateStatus(ctx, issue.ID, "DONE")
	assert.True(t, apperrors.IsValidation(err))

	moved, err := env.issues.UpdateStatus(ctx, issue.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, moved.Status)

	moved, err = env.issues.UpdateStatus(ctx, issue.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, moved.Status)

	_, err = env.issues.UpdateStatus(ctx, issue.ID, models.StatusPending)
	assert.True(t, apperrors.IsInvalidState(err))

	_, err = env.issues.UpdateStatus(ctx, "missing", models.StatusInProgress)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestIssueService_CreateRejectsTextEmptiedBySanitizing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")

	tests := []struct {
		name   string
		mutate func(*CreateIssueInput)
		fields []string
	}{
		{"markup-only title", func(in *CreateIssueInput) { in.Title = "<script>alert(1)</script>" }, []string{"title"}},
		{"whitespace description", func(in *CreateIssueInput) { in.Description = "   <b></b>  " }, []string{"description"}},
		{"markup-only address", func(in *CreateIssueInput) { in.LocationAddress = strPtr("<i></i>") }, []string{"location_address"}},
		{"both texts", func(in *CreateIssueInput) {
			in.Title = "   "
			in.Description = "<p></p>"
		}, []string{"title", "description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := CreateIssueInput{
				Title:       "Pothole",
				Description: "Deep",
				Category:    models.CategoryRoad,
				LocationLat: 1,
				LocationLng: 2,
			}
			tt.mutate(&input)

			_, err := env.issues.CreateIssue(ctx, input, owner.ID)
			require.True(t, apperrors.IsValidation(err), "got %v", err)

			var fields []string
			for _, fe := range apperrors.GetAppError(err).Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}

	list, err := env.listing.GetIssues(ctx, store.IssueFilter{}, 1, 10, "")
	require.NoError(t, err)
	assert.Zero(t, list.Pagination.Total)
}

func TestIssueService_UpdateRejectsTextEmptiedBySanitizing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	issue := env.issue(t, owner.ID, nil)

	for _, patch := range []models.IssuePatch{
		{Title: strPtr("<i></i>")},
		{Description: strPtr("  \t ")},
		{LocationAddress: strPtr("<script>x</script>")},
	} {
		_, err := env.issues.UpdateIssue(ctx, issue.ID, patch, owner.ID)
		assert.True(t, apperrors.IsValidation(err), "got %v", err)
	}

	got, err := env.issues.GetIssueByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.Title, got.Title)
	assert.Equal(t, issue.Description, got.Description)
}
