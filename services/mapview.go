package services

import (
	"context"
	"encoding/json"
	"fmt"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/store"
)

// MapService serves issue markers for the map view.
type MapService struct {
	store store.Store
}

func NewMapService(st store.Store) *MapService {
	return &MapService{store: st}
}

// ParseBounds decodes a "[south, west, north, east]" JSON array. An empty
// string means no bounds.
func ParseBounds(raw string) (*store.Bounds, error) {
	if raw == "" {
		return nil, nil
	}

	var coords []float64
	if err := json.Unmarshal([]byte(raw), &coords); err != nil || len(coords) != 4 {
		return nil, apperrors.NewValidationError("Validation failed", apperrors.FieldError{
			Field:   "bounds",
			Message: "bounds must be a JSON array [south, west, north, east]",
		})
	}

	b := &store.Bounds{South: coords[0], West: coords[1], North: coords[2], East: coords[3]}
	if b.South < -90 || b.North > 90 || b.South > b.North ||
		b.West < -180 || b.East > 180 || b.West > b.East {
		return nil, apperrors.NewValidationError("Validation failed", apperrors.FieldError{
			Field:   "bounds",
			Message: "bounds are outside the valid coordinate range",
		})
	}
	return b, nil
}

// Issues returns the markers inside bounds, newest first. Nil bounds
// returns every issue.
func (s *MapService) Issues(ctx context.Context, bounds *store.Bounds) ([]models.MapIssue, error) {
	issues, err := s.store.Issues().WithinBounds(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch map issues: %w", err)
	}

	markers := make([]models.MapIssue, len(issues))
	for i, issue := range issues {
		markers[i] = models.MapIssue{
			ID:          issue.ID,
			Title:       issue.Title,
			Status:      issue.Status,
			VoteCount:   issue.VoteCount,
			LocationLat: issue.LocationLat,
			LocationLng: issue.LocationLng,
			Category:    issue.Category,
		}
	}
	return markers, nil
}

func (s *MapService) IssueDetails(ctx context.Context, id string) (*models.MapIssueDetails, error) {
	issue, err := findIssue(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	return &models.MapIssueDetails{
		ID:              issue.ID,
		Title:           issue.Title,
		Description:     issue.Description,
		Status:          issue.Status,
		VoteCount:       issue.VoteCount,
		Category:        issue.Category,
		CreatedAt:       issue.CreatedAt,
		LocationAddress: issue.LocationAddress,
	}, nil
}
