package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-app/backend/internal/models"
)

type TagHandler struct {
	db *gorm.DB
}

func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{db: db}
}

// GetTags returns every distinct tag in use, sorted. Tags live as JSON
// arrays on the question rows, so this walks the questions rather than a
// tag table.
func (h *TagHandler) GetTags(c *gin.Context) {
	var questions []models.Question
	if err := h.db.Select("tags").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	seen := make(map[string]bool)
	tags := []string{}
	for i := range questions {
		for _, tag := range questions[i].TagList() {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GetTagQuestions returns the questions carrying a specific tag
func (h *TagHandler) GetTagQuestions(c *gin.Context) {
	tag := c.Param("tag")

	var questions []models.Question
	if err := h.db.Preload("User").Order("created_at desc").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	responses := []gin.H{}
	for i := range questions {
		for _, t := range questions[i].TagList() {
			if t == tag {
				var answerCount int64
				h.db.Model(&models.Answer{}).Where("question_id = ?", questions[i].ID).Count(&answerCount)
				responses = append(responses, questionResponse(&questions[i], answerCount))
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag, "questions": responses})
}
