package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/store"
)

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("[12.9, 77.5, 13.1, 77.7]")
	require.NoError(t, err)
	assert.Equal(t, &store.Bounds{South: 12.9, West: 77.5, North: 13.1, East: 77.7}, b)

	b, err = ParseBounds("")
	require.NoError(t, err)
	assert.Nil(t, b)

	for _, raw := range []string{"nope", "[1,2,3]", "[20, 0, 10, 5]", "[-91, 0, 0, 5]"} {
		_, err := ParseBounds(raw)
		assert.True(t, apperrors.IsValidation(err), raw)
	}
}

func TestMapService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	inside := env.insertIssue(t, &models.Issue{UserID: owner.ID, LocationLat: 13, LocationLng: 77.6, LocationAddress: strPtr("MG Road")})
	env.insertIssue(t, &models.Issue{UserID: owner.ID, LocationLat: -33.8, LocationLng: 151.2})

	markers, err := env.maps.Issues(ctx, &store.Bounds{South: 12.9, West: 77.5, North: 13.1, East: 77.7})
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, inside.ID, markers[0].ID)

	all, err := env.maps.Issues(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	details, err := env.maps.IssueDetails(ctx, inside.ID)
	require.NoError(t, err)
	assert.Equal(t, "MG Road", *details.LocationAddress)

	_, err = env.maps.IssueDetails(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}
