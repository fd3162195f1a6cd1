package services

import (
	"context"
	"fmt"
	"strings"

	"civicsync-be/models"
	"civicsync-be/store"
	"civicsync-be/utils"
)

// IssueList is one page of issues with pagination metadata.
type IssueList struct {
	Issues     []models.IssueView   `json:"issues"`
	Pagination utils.PaginationMeta `json:"pagination"`
}

// ListingService answers filtered, paginated issue queries.
type ListingService struct {
	store store.Store
	votes *VoteService
}

func NewListingService(st store.Store, votes *VoteService) *ListingService {
	return &ListingService{store: st, votes: votes}
}

// GetIssues returns the page of issues matching filter. viewerID, when set,
// annotates every issue with has_voted; it never narrows the result.
func (s *ListingService) GetIssues(ctx context.Context, filter store.IssueFilter, page, limit int, viewerID string) (*IssueList, error) {
	p := utils.NewPagination(page, limit)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Sort == "" {
		filter.Sort = store.SortNewest
	}

	issues, total, err := s.store.Issues().List(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	var voted map[string]bool
	if viewerID != "" {
		ids := make([]string, len(issues))
		for i := range issues {
			ids[i] = issues[i].ID
		}
		if voted, err = s.votes.VotedIssues(ctx, viewerID, ids); err != nil {
			return nil, err
		}
		if voted == nil {
			voted = map[string]bool{}
		}
	}

	views, err := buildViews(ctx, s.store, issues, voted)
	if err != nil {
		return nil, err
	}

	return &IssueList{Issues: views, Pagination: p.Meta(total)}, nil
}

// GetIssuesByUser lists the issues owned by userID, annotated with
// userID's own vote status.
func (s *ListingService) GetIssuesByUser(ctx context.Context, userID string, page, limit int) (*IssueList, error) {
	return s.GetIssues(ctx, store.IssueFilter{UserID: userID}, page, limit, userID)
}
