package models

import "time"

const (
	NotificationAnswer  = "answer"
	NotificationMention = "mention"
	NotificationUpvote  = "upvote"
)

// Notification model - in-app notifications for answers, mentions and upvotes
type Notification struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;index" json:"user_id"`
	Type       string    `gorm:"not null" json:"type"`
	Title      string    `gorm:"not null" json:"title"`
	Message    string    `json:"message"`
	QuestionID *int      `json:"question_id,omitempty"`
	AnswerID   *int      `json:"answer_id,omitempty"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
