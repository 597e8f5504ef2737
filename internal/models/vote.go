package models

import "time"

// TargetType tags which entity table a vote applies to.
type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

func (t TargetType) Valid() bool {
	return t == TargetQuestion || t == TargetAnswer
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote model - one row per (voter, target). The votes table is the source
// of truth for scores; the vote_score columns on questions and answers are
// projections derived from it.
type Vote struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UserID     int        `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"user_id"`
	TargetType TargetType `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"target_type"`
	TargetID   int        `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"target_id"`
	VoteType   VoteType   `gorm:"not null" json:"vote_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type VoteRequest struct {
	VoteType   string `json:"vote_type"`
	QuestionID *int   `json:"question_id,omitempty"`
	AnswerID   *int   `json:"answer_id,omitempty"`
}
