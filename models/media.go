package models

import "time"

// Media is an image attached to an issue.
type Media struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	IssueID    string    `gorm:"type:varchar(36);not null;index" bson:"issue_id" json:"issue_id"`
	FilePath   string    `gorm:"type:text;not null" bson:"file_path" json:"file_path"`
	FileType   string    `gorm:"type:varchar(100);not null" bson:"file_type" json:"file_type"`
	FileSize   int64     `gorm:"not null" bson:"file_size" json:"file_size"`
	StorageKey string    `gorm:"type:varchar(512);not null" bson:"storage_key" json:"-"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// TableName keeps the plural of media stable across GORM naming strategies.
func (Media) TableName() string {
	return "media"
}
