package types

import "time"

// Form templates authored through the setup wizard. The Fields column holds
// the JSON forms.TemplateData document (ordered fields, embed, button).
type FormTemplate struct {
	ID                uint64 `gorm:"primaryKey"`
	GuildID           string `gorm:"size:64;index;not null"`
	Name              string `gorm:"size:256;not null"`
	Fields            string `gorm:"type:text;not null"`
	FormChannelID     string `gorm:"size:64;not null"`
	ResponseChannelID string `gorm:"size:64;not null"`
	PublicChannelID   string `gorm:"size:64"`
	FormType          string `gorm:"size:16;default:private"`
	RequiresApproval  bool   `gorm:"default:false"`
	CreatedAt         time.Time
}

// User submissions and their approval lifecycle.
type SubmittedForm struct {
	ID              uint64 `gorm:"primaryKey"`
	TemplateID      uint64 `gorm:"index;not null"`
	UserID          string `gorm:"size:64;not null"`
	Responses       string `gorm:"type:text;not null"`
	Status          string `gorm:"size:16;default:pending"`
	ResponseReason  string `gorm:"size:1024"`
	RespondedBy     string `gorm:"size:64"`
	SubmittedAt     time.Time
	RespondedAt     *time.Time
	PublicMessageID string       `gorm:"size:64"`
	Upvotes         int64        `gorm:"default:0"`
	Downvotes       int64        `gorm:"default:0"`
	Template        FormTemplate `gorm:"foreignKey:TemplateID;references:ID"`
}

// One vote per user per submission. The unique index carries the guarantee;
// application code only provides the friendlier error.
type FormVote struct {
	ID           uint64 `gorm:"primaryKey"`
	SubmissionID uint64 `gorm:"not null;uniqueIndex:uniq_submission_user"`
	UserID       string `gorm:"size:64;not null;uniqueIndex:uniq_submission_user"`
	VoteType     string `gorm:"size:16;not null"`
	VotedAt      time.Time
	Submission   SubmittedForm `gorm:"foreignKey:SubmissionID;references:ID"`
}

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}
