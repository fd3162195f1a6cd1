package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"civicsync-be/models"
	"civicsync-be/services"
	"civicsync-be/store"
)

type mockIssueService struct {
	mock.Mock
}

func (m *mockIssueService) CreateIssue(ctx context.Context, input services.CreateIssueInput, ownerID string) (*models.Issue, error) {
	args := m.Called(ctx, input, ownerID)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) GetIssueByID(ctx context.Context, id string) (*models.IssueView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*models.IssueView)
	return view, args.Error(1)
}

func (m *mockIssueService) UpdateIssue(ctx context.Context, id string, patch models.IssuePatch, callerID string) (*models.Issue, error) {
	args := m.Called(ctx, id, patch, callerID)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) DeleteIssue(ctx context.Context, id, callerID string) error {
	return m.Called(ctx, id, callerID).Error(0)
}

func (m *mockIssueService) UpdateStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error) {
	args := m.Called(ctx, id, status)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

type mockListingService struct {
	mock.Mock
}

func (m *mockListingService) GetIssues(ctx context.Context, filter store.IssueFilter, page, limit int, viewerID string) (*services.IssueList, error) {
	args := m.Called(ctx, filter, page, limit, viewerID)
	list, _ := args.Get(0).(*services.IssueList)
	return list, args.Error(1)
}

func (m *mockListingService) GetIssuesByUser(ctx context.Context, userID string, page, limit int) (*services.IssueList, error) {
	args := m.Called(ctx, userID, page, limit)
	list, _ := args.Get(0).(*services.IssueList)
	return list, args.Error(1)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, name, email, password)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockMapService struct {
	mock.Mock
}

func (m *mockMapService) Issues(ctx context.Context, bounds *store.Bounds) ([]models.MapIssue, error) {
	args := m.Called(ctx, bounds)
	markers, _ := args.Get(0).([]models.MapIssue)
	return markers, args.Error(1)
}

func (m *mockMapService) IssueDetails(ctx context.Context, id string) (*models.MapIssueDetails, error) {
	args := m.Called(ctx, id)
	details, _ := args.Get(0).(*models.MapIssueDetails)
	return details, args.Error(1)
}

type mockMediaService struct {
	mock.Mock
}

func (m *mockMediaService) Upload(ctx context.Context, issueID, callerID string, file services.Upload) (*models.Media, error) {
	args := m.Called(ctx, issueID, callerID, file)
	media, _ := args.Get(0).(*models.Media)
	return media, args.Error(1)
}

func (m *mockMediaService) Delete(ctx context.Context, mediaID, callerID string) error {
	return m.Called(ctx, mediaID, callerID).Error(0)
}

func (m *mockMediaService) ListByIssue(ctx context.Context, issueID string) ([]models.Media, error) {
	args := m.Called(ctx, issueID)
	media, _ := args.Get(0).([]models.Media)
	return media, args.Error(1)
}
