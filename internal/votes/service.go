package votes

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-app/backend/internal/models"
)

// Action describes what CastVote did to the caller's vote.
type Action string

const (
	ActionCreated   Action = "created"
	ActionChanged   Action = "changed"
	ActionRetracted Action = "retracted"
)

// Result is the outcome of a cast: the target's new net score and the
// state transition that produced it.
type Result struct {
	Score  int    `json:"score"`
	Action Action `json:"action"`
}

// Service is the only entry point through which votes are mutated. It owns
// the toggle/change/retract state machine:
//
//	NoVote    --cast(up)-->   Upvoted
//	Upvoted   --cast(up)-->   NoVote      (toggle off)
//	Upvoted   --cast(down)--> Downvoted   (change)
//
// and symmetrically for down. Each cast runs as one transaction covering the
// vote mutation and the score projection, so readers never observe one
// without the other.
type Service struct {
	db        *gorm.DB
	store     voteStore
	projector scoreProjector
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CastVote applies one click of the vote button for userID on the given
// target and returns the target's new score.
//
// The target row is locked before branching, so concurrent casts against one
// target serialize and the recount the projector writes is never stale. If a
// duplicate-row race slips through anyway, the unique index rejects it and
// the whole unit of work is retried once: the second pass finds the winner's
// row and branches to change/retract instead of insert.
func (s *Service) CastVote(ctx context.Context, userID int, targetType models.TargetType, targetID int, voteType models.VoteType) (Result, error) {
	if userID <= 0 {
		return Result{}, ErrUnauthenticated
	}
	if !targetType.Valid() || !voteType.Valid() {
		return Result{}, ErrInvalidVote
	}

	var result Result
	err := retry.Do(
		func() error {
			return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return s.castOnce(tx, userID, targetType, targetID, voteType, &result)
			})
		},
		retry.Attempts(2),
		retry.RetryIf(isDuplicateVote),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if errors.Is(err, ErrTargetNotFound) {
			return Result{}, ErrTargetNotFound
		}
		return Result{}, fmt.Errorf("%w: %v", ErrVoteFailed, err)
	}
	return result, nil
}

func (s *Service) castOnce(tx *gorm.DB, userID int, targetType models.TargetType, targetID int, voteType models.VoteType, result *Result) error {
	if err := lockTarget(tx, targetType, targetID); err != nil {
		return err
	}

	existing, err := s.store.Find(tx, userID, targetType, targetID)
	if err != nil {
		return err
	}

	switch {
	case existing == nil:
		if _, err := s.store.Insert(tx, userID, targetType, targetID, voteType); err != nil {
			return err
		}
		result.Action = ActionCreated
	case existing.VoteType == voteType:
		// Same direction again toggles the vote off.
		if err := s.store.Remove(tx, existing.ID); err != nil {
			return err
		}
		result.Action = ActionRetracted
	default:
		if err := s.store.UpdateType(tx, existing.ID, voteType); err != nil {
			return err
		}
		result.Action = ActionChanged
	}

	score, err := s.projector.Recompute(tx, targetType, targetID)
	if err != nil {
		return err
	}
	result.Score = score
	return nil
}

// lockTarget verifies the voted-on entity exists and takes a row lock on it
// for the duration of the transaction.
func lockTarget(tx *gorm.DB, targetType models.TargetType, targetID int) error {
	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id")

	var err error
	switch targetType {
	case models.TargetQuestion:
		err = locked.First(&models.Question{}, targetID).Error
	case models.TargetAnswer:
		err = locked.First(&models.Answer{}, targetID).Error
	default:
		return ErrInvalidVote
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTargetNotFound
	}
	return err
}
