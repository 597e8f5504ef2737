package models

import "time"

type Answer struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	Content    string `gorm:"not null" json:"content"`
	QuestionID int    `gorm:"not null" json:"question_id"`
	AuthorID   int    `json:"author_id"`
	User       User   `gorm:"foreignKey:AuthorID" json:"user"`

	VoteScore  int  `gorm:"default:0" json:"vote_score"`
	IsAccepted bool `gorm:"default:false" json:"is_accepted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content string `json:"content"`
}
