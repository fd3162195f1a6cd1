package models

import (
	"time"
)

// Vote represents a user's vote on an issue. At most one exists per
// (issue, user) pair.
type Vote struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	IssueID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_issue_user,priority:1" bson:"issue_id" json:"issue_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_issue_user,priority:2;index" bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
