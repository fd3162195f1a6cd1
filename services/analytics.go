package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"civicsync-be/models"
	"civicsync-be/store"
	"civicsync-be/utils"
)

const (
	dailyWindow           = 7
	DefaultMostVotedLimit = 5
)

// CategoryBreakdown is a page of per-category issue counts.
type CategoryBreakdown struct {
	Categories []store.CategoryCount `json:"categories"`
	Pagination utils.PaginationMeta  `json:"pagination"`
}

// DailyCount is the number of issues created on one calendar day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// CategorySummary aggregates the votes of one category.
type CategorySummary struct {
	TotalVotes   int64   `json:"total_votes"`
	TotalIssues  int64   `json:"total_issues"`
	AverageVotes float64 `json:"average_votes"`
}

// MostVoted lists the top issues and vote summary of every category.
type MostVoted struct {
	TopIssues map[models.IssueCategory][]models.TopIssue `json:"top_issues"`
	Summary   map[models.IssueCategory]CategorySummary   `json:"summary"`
}

// AnalyticsService computes read-only aggregates over issues.
type AnalyticsService struct {
	store store.Store
	loc   *time.Location
	now   Clock
}

func NewAnalyticsService(st store.Store, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{store: st, loc: loc, now: systemClock}
}

// WithClock replaces the time source.
func (s *AnalyticsService) WithClock(now Clock) *AnalyticsService {
	s.now = now
	return s
}

// IssuesByCategory returns per-category counts ordered by category name.
func (s *AnalyticsService) IssuesByCategory(ctx context.Context, page, limit int) (*CategoryBreakdown, error) {
	p := utils.NewPagination(page, limit)

	counts, err := s.store.Issues().CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues by category: %w", err)
	}

	start, end := utils.ApplyPagination(len(counts), p)
	return &CategoryBreakdown{
		Categories: append([]store.CategoryCount{}, counts[start:end]...),
		Pagination: p.Meta(int64(len(counts))),
	}, nil
}

// DailySubmissions returns exactly seven days of submission counts, oldest
// first, ending with today in the configured timezone.
func (s *AnalyticsService) DailySubmissions(ctx context.Context) ([]DailyCount, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	days := make([]DailyCount, dailyWindow)
	for i := range days {
		start := today.AddDate(0, 0, i-(dailyWindow-1))
		date := start.Format("2006-01-02")

		count, err := s.store.Issues().CountCreatedBetween(ctx, start, start.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("failed to count submissions for %s: %w", date, err)
		}
		days[i] = DailyCount{Date: date, Count: count}
	}
	return days, nil
}

// MostVotedByCategory returns up to limit issues per category by vote
// count, and per-category vote totals. Every category is present.
func (s *AnalyticsService) MostVotedByCategory(ctx context.Context, limit int) (*MostVoted, error) {
	if limit < 1 {
		limit = DefaultMostVotedLimit
	}
	if limit > utils.MaxLimit {
		limit = utils.MaxLimit
	}

	result := &MostVoted{
		TopIssues: make(map[models.IssueCategory][]models.TopIssue, len(models.Categories)),
		Summary:   make(map[models.IssueCategory]CategorySummary, len(models.Categories)),
	}

	for _, category := range models.Categories {
		issues, err := s.store.Issues().TopVoted(ctx, category, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load top issues for %s: %w", category, err)
		}
		top := make([]models.TopIssue, len(issues))
		for i, issue := range issues {
			top[i] = models.TopIssue{
				ID:        issue.ID,
				Title:     issue.Title,
				Status:    issue.Status,
				VoteCount: issue.VoteCount,
				CreatedAt: issue.CreatedAt,
			}
		}
		result.TopIssues[category] = top
		result.Summary[category] = CategorySummary{}
	}

	totals, err := s.store.Issues().VotesByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum votes by category: %w", err)
	}
	for _, t := range totals {
		if !t.Category.Valid() {
			continue
		}
		result.Summary[t.Category] = CategorySummary{
			TotalVotes:   t.TotalVotes,
			TotalIssues:  t.TotalIssues,
			AverageVotes: averageVotes(t.TotalVotes, t.TotalIssues),
		}
	}
	return result, nil
}

// averageVotes is total/issues rounded to two decimals, 0 for no issues.
func averageVotes(total, issues int64) float64 {
	if issues == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(issues)*100) / 100
}
