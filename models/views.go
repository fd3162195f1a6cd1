package models

import "time"

// UserSummary is the public part of a user embedded in issue responses.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the public fields of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// MediaSummary is the media projection embedded in issue responses.
type MediaSummary struct {
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
}

// IssueView is an issue joined with its owner, media and, when a viewer is
// known, whether the viewer has voted on it.
type IssueView struct {
	Issue
	User     *UserSummary   `json:"User"`
	Media    []MediaSummary `json:"Media"`
	HasVoted *bool          `json:"has_voted,omitempty"`
}

// TopIssue is the projection used by the most-voted analytics.
type TopIssue struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Status    IssueStatus `json:"status"`
	VoteCount int64       `json:"vote_count"`
	CreatedAt time.Time   `json:"created_at"`
}

// MapIssue is the marker projection returned by the map endpoints.
type MapIssue struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Status      IssueStatus   `json:"status"`
	VoteCount   int64         `json:"vote_count"`
	LocationLat float64       `json:"location_lat"`
	LocationLng float64       `json:"location_lng"`
	Category    IssueCategory `json:"category"`
}

// MapIssueDetails is shown when a map marker is opened.
type MapIssueDetails struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Status          IssueStatus   `json:"status"`
	VoteCount       int64         `json:"vote_count"`
	Category        IssueCategory `json:"category"`
	CreatedAt       time.Time     `json:"createdAt"`
	LocationAddress *string       `json:"location_address"`
}
