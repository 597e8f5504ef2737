package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-app/backend/internal/models"
	"github.com/stackit-app/backend/internal/votes"
)

type VoteHandler struct {
	db      *gorm.DB
	service *votes.Service
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{db: db, service: votes.NewService(db)}
}

// CastVote handles voting on questions and answers (PROTECTED - requires
// authentication). The target type is inferred from which id the body
// supplies; exactly one of question_id and answer_id must be set.
func (h *VoteHandler) CastVote(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var targetType models.TargetType
	var targetID int
	switch {
	case input.QuestionID != nil && input.AnswerID == nil:
		targetType, targetID = models.TargetQuestion, *input.QuestionID
	case input.AnswerID != nil && input.QuestionID == nil:
		targetType, targetID = models.TargetAnswer, *input.AnswerID
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide exactly one of question_id or answer_id"})
		return
	}

	voteType := models.VoteType(input.VoteType)
	if !voteType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote type must be \"up\" or \"down\""})
		return
	}

	result, err := h.service.CastVote(c.Request.Context(), userID, targetType, targetID, voteType)
	if err != nil {
		switch {
		case errors.Is(err, votes.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		case errors.Is(err, votes.ErrTargetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Vote target not found"})
		case errors.Is(err, votes.ErrInvalidVote):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		}
		return
	}

	// Fire-and-forget: the vote has committed, a notification failure must
	// not undo it.
	h.notifyUpvote(userID, targetType, targetID, voteType, result)

	c.JSON(http.StatusOK, gin.H{
		"score":  result.Score,
		"action": result.Action,
	})
}

// notifyUpvote tells an answer's author their answer was upvoted. Retractions
// never notify, and neither does a score still at or below zero.
func (h *VoteHandler) notifyUpvote(userID int, targetType models.TargetType, targetID int, voteType models.VoteType, result votes.Result) {
	if targetType != models.TargetAnswer || voteType != models.VoteUp {
		return
	}
	if result.Action == votes.ActionRetracted || result.Score <= 0 {
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, targetID).Error; err != nil {
		return
	}
	if answer.AuthorID == userID {
		return
	}

	var question models.Question
	if err := h.db.First(&question, answer.QuestionID).Error; err != nil {
		return
	}

	h.db.Create(&models.Notification{
		UserID:     answer.AuthorID,
		Type:       models.NotificationUpvote,
		Title:      "Your answer was upvoted",
		Message:    fmt.Sprintf("Someone upvoted your answer to %q", question.Title),
		QuestionID: &answer.QuestionID,
		AnswerID:   &answer.ID,
	})
}
