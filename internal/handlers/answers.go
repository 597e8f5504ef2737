package handlers

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-app/backend/internal/models"
)

type AnswerHandler struct {
	db *gorm.DB
}

func NewAnswerHandler(db *gorm.DB) *AnswerHandler {
	return &AnswerHandler{db: db}
}

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// parseMentions returns the distinct usernames mentioned as @username.
func parseMentions(content string) []string {
	seen := make(map[string]bool)
	var usernames []string
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			usernames = append(usernames, m[1])
		}
	}
	return usernames
}

// CreateAnswer posts an answer to a question (PROTECTED - requires authentication)
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID := c.Param("id")

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required,min=10"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Verify question exists
	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	answer := models.Answer{
		Content:    input.Content,
		QuestionID: question.ID,
		AuthorID:   authorID,
	}

	if err := h.db.Create(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer"})
		return
	}

	h.notifyQuestionAuthor(&question, &answer, authorID)
	h.notifyMentions(&question, &answer, authorID)

	h.db.Preload("User").First(&answer, answer.ID)
	c.JSON(http.StatusCreated, answer)
}

// notifyQuestionAuthor tells the question author about a new answer.
// Notification failures are logged by GORM and never fail the request.
func (h *AnswerHandler) notifyQuestionAuthor(question *models.Question, answer *models.Answer, authorID int) {
	if question.AuthorID == authorID {
		return
	}
	h.db.Create(&models.Notification{
		UserID:     question.AuthorID,
		Type:       models.NotificationAnswer,
		Title:      "New answer to your question",
		Message:    fmt.Sprintf("Someone answered your question %q", question.Title),
		QuestionID: &question.ID,
		AnswerID:   &answer.ID,
	})
}

// notifyMentions creates a notification for every @username in the answer body
func (h *AnswerHandler) notifyMentions(question *models.Question, answer *models.Answer, authorID int) {
	var author models.User
	if err := h.db.First(&author, authorID).Error; err != nil {
		return
	}

	for _, username := range parseMentions(answer.Content) {
		var mentioned models.User
		if err := h.db.Where("username = ?", username).First(&mentioned).Error; err != nil {
			continue
		}
		if mentioned.ID == authorID {
			continue
		}
		h.db.Create(&models.Notification{
			UserID:     mentioned.ID,
			Type:       models.NotificationMention,
			Title:      "You were mentioned in an answer",
			Message:    fmt.Sprintf("@%s mentioned you in an answer to %q", author.Username, question.Title),
			QuestionID: &question.ID,
			AnswerID:   &answer.ID,
		})
	}
}

// AcceptAnswer marks an answer as accepted (PROTECTED - question author only)
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	answerID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, answer.QuestionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only accept answers to your own questions"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		// Unaccept the previously accepted answer, if any
		if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID != answer.ID {
			if err := tx.Model(&models.Answer{}).
				Where("id = ?", *question.AcceptedAnswerID).
				Update("is_accepted", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Answer{}).
			Where("id = ?", answer.ID).
			Update("is_accepted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", question.ID).
			Update("accepted_answer_id", answer.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer accepted"})
}
