package handlers

import (
	"github.com/stackit-app/backend/internal/database"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Question     *QuestionHandler
	Answer       *AnswerHandler
	Vote         *VoteHandler
	Notification *NotificationHandler
	Tag          *TagHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *database.Database) *Handler {
	// Get the GORM DB instance from the service
	dbService := database.New()
	gormDB := dbService.GetDB()

	return &Handler{
		Auth:         NewAuthHandler(gormDB),
		Question:     NewQuestionHandler(gormDB),
		Answer:       NewAnswerHandler(gormDB),
		Vote:         NewVoteHandler(gormDB),
		Notification: NewNotificationHandler(gormDB),
		Tag:          NewTagHandler(gormDB),
	}
}
