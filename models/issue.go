package models

import (
	"time"
)

// IssueCategory enum
type IssueCategory string

const (
	CategoryRoad        IssueCategory = "ROAD"
	CategoryWater       IssueCategory = "WATER"
	CategorySanitation  IssueCategory = "SANITATION"
	CategoryElectricity IssueCategory = "ELECTRICITY"
	CategoryOther       IssueCategory = "OTHER"
)

// Categories lists every category in alphabetical order.
var Categories = []IssueCategory{
	CategoryElectricity,
	CategoryOther,
	CategoryRoad,
	CategorySanitation,
	CategoryWater,
}

// Valid reports whether c is a known category.
func (c IssueCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusPending    IssueStatus = "PENDING"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusResolved   IssueStatus = "RESOLVED"
)

// Valid reports whether s is a known status.
func (s IssueStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Next returns the status an issue may move to from s, or false when s is final.
func (s IssueStatus) Next() (IssueStatus, bool) {
	switch s {
	case StatusPending:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusResolved, true
	}
	return "", false
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID              string        `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Title           string        `gorm:"type:varchar(255);not null" bson:"title" json:"title"`
	Description     string        `gorm:"type:text;not null" bson:"description" json:"description"`
	Category        IssueCategory `gorm:"type:varchar(20);not null;index" bson:"category" json:"category"`
	Status          IssueStatus   `gorm:"type:varchar(20);not null;index" bson:"status" json:"status"`
	LocationLat     float64       `gorm:"not null" bson:"location_lat" json:"location_lat"`
	LocationLng     float64       `gorm:"not null" bson:"location_lng" json:"location_lng"`
	LocationAddress *string       `gorm:"type:varchar(255)" bson:"location_address,omitempty" json:"location_address"`
	VoteCount       int64         `gorm:"not null;default:0" bson:"vote_count" json:"vote_count"`
	UserID          string        `gorm:"type:varchar(36);not null;index" bson:"user_id" json:"user_id"`
	CreatedAt       time.Time     `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether userID created the issue.
func (i *Issue) OwnedBy(userID string) bool {
	return userID != "" && i.UserID == userID
}

// Editable reports whether the owner may still change or delete the issue.
func (i *Issue) Editable() bool {
	return i.Status == StatusPending
}

// IssuePatch carries the owner-editable fields of an update. Nil fields are
// left unchanged.
type IssuePatch struct {
	Title           *string
	Description     *string
	Category        *IssueCategory
	LocationLat     *float64
	LocationLng     *float64
	LocationAddress *string
}
