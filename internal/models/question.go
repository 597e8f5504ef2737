package models

import (
	"encoding/json"
	"time"
)

type Question struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	AuthorID    int    `json:"author_id"`
	User        User   `gorm:"foreignKey:AuthorID" json:"user"`

	// Tags is a JSON-encoded array of tag names.
	Tags string `json:"-"`

	VoteScore        int  `gorm:"default:0" json:"vote_score"`
	ViewCount        int  `gorm:"default:0" json:"view_count"`
	AcceptedAnswerID *int `json:"accepted_answer_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList decodes the stored tag array; a malformed or empty column
// yields no tags rather than an error.
func (q *Question) TagList() []string {
	if q.Tags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(q.Tags), &tags); err != nil {
		return []string{}
	}
	return tags
}

func (q *Question) SetTags(tags []string) {
	if len(tags) == 0 {
		q.Tags = ""
		return
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		q.Tags = ""
		return
	}
	q.Tags = string(encoded)
}

type CreateQuestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"` // comma-separated
}
