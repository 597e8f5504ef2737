package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-app/backend/internal/models"
)

type QuestionHandler struct {
	db *gorm.DB
}

func NewQuestionHandler(db *gorm.DB) *QuestionHandler {
	return &QuestionHandler{db: db}
}

// parseTagInput splits a comma-separated tag string, dropping blanks.
func parseTagInput(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func questionResponse(q *models.Question, answerCount int64) gin.H {
	return gin.H{
		"id":                 q.ID,
		"title":              q.Title,
		"description":        q.Description,
		"author_id":          q.AuthorID,
		"author":             q.User.FullName(),
		"tags":               q.TagList(),
		"vote_score":         q.VoteScore,
		"view_count":         q.ViewCount,
		"answer_count":       answerCount,
		"accepted_answer_id": q.AcceptedAnswerID,
		"created_at":         q.CreatedAt,
		"updated_at":         q.UpdatedAt,
	}
}

// GetQuestions returns the question list, newest first, with optional title
// search, unanswered filter and pagination
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	query := h.db.Model(&models.Question{}).Preload("User")

	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if c.Query("filter") == "unanswered" {
		query = query.Where("NOT EXISTS (SELECT 1 FROM answers WHERE answers.question_id = questions.id)")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	var questions []models.Question
	if err := query.Order("created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	var responses []gin.H
	for i := range questions {
		var answerCount int64
		h.db.Model(&models.Answer{}).Where("question_id = ?", questions[i].ID).Count(&answerCount)
		responses = append(responses, questionResponse(&questions[i], answerCount))
	}

	// If no questions, return empty array not null
	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": responses,
		"page":      page,
		"per_page":  perPage,
		"total":     total,
	})
}

// GetQuestion returns a single question with its answers and increments the
// view counter
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.Param("id")
	var question models.Question

	if err := h.db.Preload("User").First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	h.db.Model(&question).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	question.ViewCount++

	var answers []models.Answer
	h.db.Where("question_id = ?", question.ID).Preload("User").Order("created_at desc").Find(&answers)

	answerResponses := []gin.H{}
	for i := range answers {
		answerResponses = append(answerResponses, gin.H{
			"id":          answers[i].ID,
			"content":     answers[i].Content,
			"question_id": answers[i].QuestionID,
			"author_id":   answers[i].AuthorID,
			"author":      answers[i].User.FullName(),
			"vote_score":  answers[i].VoteScore,
			"is_accepted": answers[i].IsAccepted,
			"created_at":  answers[i].CreatedAt,
			"updated_at":  answers[i].UpdatedAt,
		})
	}

	resp := questionResponse(&question, int64(len(answers)))
	resp["answers"] = answerResponses

	c.JSON(http.StatusOK, resp)
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required,min=10,max=200"`
		Description string `json:"description" binding:"required,min=20"`
		Tags        string `json:"tags" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tags := parseTagInput(input.Tags)
	if len(tags) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one tag is required"})
		return
	}

	question := models.Question{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    authorID,
	}
	question.SetTags(tags)

	if err := h.db.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	// Reload with author information
	h.db.Preload("User").First(&question, question.ID)

	c.JSON(http.StatusCreated, questionResponse(&question, 0))
}
