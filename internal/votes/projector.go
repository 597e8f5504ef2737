package votes

import (
	"gorm.io/gorm"

	"github.com/stackit-app/backend/internal/models"
)

// scoreProjector maintains the denormalized vote_score column on the voted-on
// entity. It is the only writer of that column; nothing else in the codebase
// touches vote_score directly.
type scoreProjector struct{}

// Recompute derives the net score from the votes table and writes it onto the
// target row, dispatching on the target type. A full recount rather than an
// incremental delta, so the stored score can never drift from the ledger.
func (scoreProjector) Recompute(tx *gorm.DB, targetType models.TargetType, targetID int) (int, error) {
	var up, down int64
	if err := tx.Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND vote_type = ?", targetType, targetID, models.VoteUp).
		Count(&up).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND vote_type = ?", targetType, targetID, models.VoteDown).
		Count(&down).Error; err != nil {
		return 0, err
	}

	score := int(up - down)

	var err error
	switch targetType {
	case models.TargetQuestion:
		err = tx.Model(&models.Question{}).Where("id = ?", targetID).Update("vote_score", score).Error
	case models.TargetAnswer:
		err = tx.Model(&models.Answer{}).Where("id = ?", targetID).Update("vote_score", score).Error
	default:
		err = ErrInvalidVote
	}
	if err != nil {
		return 0, err
	}
	return score, nil
}
