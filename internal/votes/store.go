package votes

import (
	"errors"

	"gorm.io/gorm"

	"github.com/stackit-app/backend/internal/models"
)

// voteStore is the durable record of one vote per (user, target) pair.
// Every method takes the transaction handle it must run on; the service
// owns the unit of work.
type voteStore struct{}

// Find returns the caller's current vote for the target, or nil if absent.
func (voteStore) Find(tx *gorm.DB, userID int, targetType models.TargetType, targetID int) (*models.Vote, error) {
	var vote models.Vote
	err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Insert creates a fresh vote row. The unique index on
// (user_id, target_type, target_id) rejects a second row for the same pair
// even if two requests race past Find.
func (voteStore) Insert(tx *gorm.DB, userID int, targetType models.TargetType, targetID int, voteType models.VoteType) (*models.Vote, error) {
	vote := models.Vote{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		VoteType:   voteType,
	}
	if err := tx.Create(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

// UpdateType changes the direction of an existing vote in place.
func (voteStore) UpdateType(tx *gorm.DB, voteID int, voteType models.VoteType) error {
	return tx.Model(&models.Vote{}).Where("id = ?", voteID).Update("vote_type", voteType).Error
}

// Remove deletes a retracted vote.
func (voteStore) Remove(tx *gorm.DB, voteID int) error {
	return tx.Delete(&models.Vote{}, voteID).Error
}
