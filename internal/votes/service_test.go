package votes

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stackit-app/backend/internal/models"
)

type voteServiceSuite struct {
	suite.Suite

	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	service   *Service

	alice    models.User
	bob      models.User
	question models.Question
	answer   models.Answer
}

func TestVoteServiceSuite(t *testing.T) {
	suite.Run(t, new(voteServiceSuite))
}

func (s *voteServiceSuite) SetupSuite() {
	s.ctx = context.Background()

	testcontainers.SkipIfProviderIsNotHealthy(s.T())

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stackit_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		s.T().Skipf("docker not available, skipping: %v", err)
	}
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.Notification{},
	)
	s.Require().NoError(err)

	s.service = NewService(db)
}

func (s *voteServiceSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *voteServiceSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE users, questions, answers, votes, notifications RESTART IDENTITY CASCADE").Error
	s.Require().NoError(err)

	s.alice = models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	s.bob = models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	s.Require().NoError(s.db.Create(&s.alice).Error)
	s.Require().NoError(s.db.Create(&s.bob).Error)

	s.question = models.Question{Title: "How do transactions work?", Description: "Testing fixture question body", AuthorID: s.alice.ID}
	s.Require().NoError(s.db.Create(&s.question).Error)

	s.answer = models.Answer{Content: "They either fully commit or fully roll back.", QuestionID: s.question.ID, AuthorID: s.bob.ID}
	s.Require().NoError(s.db.Create(&s.answer).Error)
}

// requireProjection asserts the stored vote_score equals the net tally
// recounted straight from the votes table.
func (s *voteServiceSuite) requireProjection(targetType models.TargetType, targetID int) {
	var up, down int64
	s.Require().NoError(s.db.Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND vote_type = ?", targetType, targetID, models.VoteUp).
		Count(&up).Error)
	s.Require().NoError(s.db.Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND vote_type = ?", targetType, targetID, models.VoteDown).
		Count(&down).Error)

	stored := s.storedScore(targetType, targetID)
	s.Require().Equal(int(up-down), stored, "projected score drifted from the vote ledger")
}

func (s *voteServiceSuite) storedScore(targetType models.TargetType, targetID int) int {
	if targetType == models.TargetQuestion {
		var q models.Question
		s.Require().NoError(s.db.First(&q, targetID).Error)
		return q.VoteScore
	}
	var a models.Answer
	s.Require().NoError(s.db.First(&a, targetID).Error)
	return a.VoteScore
}

func (s *voteServiceSuite) voteCount(targetType models.TargetType, targetID int) int64 {
	var n int64
	s.Require().NoError(s.db.Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&n).Error)
	return n
}

func (s *voteServiceSuite) TestFirstUpvoteCreates() {
	result, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteUp)
	s.Require().NoError(err)
	s.Require().Equal(ActionCreated, result.Action)
	s.Require().Equal(1, result.Score)
	s.requireProjection(models.TargetQuestion, s.question.ID)
}

func (s *voteServiceSuite) TestSameVoteTogglesOff() {
	_, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteUp)
	s.Require().NoError(err)

	result, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteUp)
	s.Require().NoError(err)
	s.Require().Equal(ActionRetracted, result.Action)
	s.Require().Equal(0, result.Score)
	s.Require().EqualValues(0, s.voteCount(models.TargetQuestion, s.question.ID))
	s.requireProjection(models.TargetQuestion, s.question.ID)
}

func (s *voteServiceSuite) TestOppositeVoteChanges() {
	_, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteUp)
	s.Require().NoError(err)

	result, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteDown)
	s.Require().NoError(err)
	s.Require().Equal(ActionChanged, result.Action)
	s.Require().Equal(-1, result.Score)

	// A change mutates the row in place rather than creating a second one
	s.Require().EqualValues(1, s.voteCount(models.TargetQuestion, s.question.ID))
	s.requireProjection(models.TargetQuestion, s.question.ID)
}

func (s *voteServiceSuite) TestTwoVotersAccumulate() {
	resultA, err := s.service.CastVote(s.ctx, s.alice.ID, models.TargetAnswer, s.answer.ID, models.VoteUp)
	s.Require().NoError(err)
	s.Require().Equal(ActionCreated, resultA.Action)

	resultB, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetAnswer, s.answer.ID, models.VoteUp)
	s.Require().NoError(err)
	s.Require().Equal(ActionCreated, resultB.Action)
	s.Require().Equal(2, resultB.Score)

	s.Require().EqualValues(2, s.voteCount(models.TargetAnswer, s.answer.ID))
	s.requireProjection(models.TargetAnswer, s.answer.ID)
}

func (s *voteServiceSuite) TestConcurrentFirstVotes() {
	var wg sync.WaitGroup
	errs := make([]error, 2)
	voters := []int{s.alice.ID, s.bob.ID}

	for i, userID := range voters {
		wg.Add(1)
		go func(i, userID int) {
			defer wg.Done()
			_, errs[i] = s.service.CastVote(s.ctx, userID, models.TargetAnswer, s.answer.ID, models.VoteUp)
		}(i, userID)
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])

	s.Require().EqualValues(2, s.voteCount(models.TargetAnswer, s.answer.ID))
	s.Require().Equal(2, s.storedScore(models.TargetAnswer, s.answer.ID))
	s.requireProjection(models.TargetAnswer, s.answer.ID)
}

func (s *voteServiceSuite) TestConcurrentDoubleClickSameUser() {
	// Rapid double click: both casts serialize on the target row, so one
	// creates the vote and the other toggles it straight back off.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	results := make([]Result, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteUp)
		}(i)
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])

	actions := map[Action]bool{results[0].Action: true, results[1].Action: true}
	s.Require().True(actions[ActionCreated])
	s.Require().True(actions[ActionRetracted])

	s.Require().EqualValues(0, s.voteCount(models.TargetQuestion, s.question.ID))
	s.Require().Equal(0, s.storedScore(models.TargetQuestion, s.question.ID))
	s.requireProjection(models.TargetQuestion, s.question.ID)
}

func (s *voteServiceSuite) TestMissingTarget() {
	_, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, 99999, models.VoteUp)
	s.Require().ErrorIs(err, ErrTargetNotFound)

	var total int64
	s.Require().NoError(s.db.Model(&models.Vote{}).Count(&total).Error)
	s.Require().EqualValues(0, total)
}

func (s *voteServiceSuite) TestUnauthenticated() {
	_, err := s.service.CastVote(s.ctx, 0, models.TargetQuestion, s.question.ID, models.VoteUp)
	s.Require().ErrorIs(err, ErrUnauthenticated)
}

func (s *voteServiceSuite) TestInvalidVoteType() {
	_, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteType("sideways"))
	s.Require().ErrorIs(err, ErrInvalidVote)

	_, err = s.service.CastVote(s.ctx, s.bob.ID, models.TargetType("comment"), s.question.ID, models.VoteUp)
	s.Require().ErrorIs(err, ErrInvalidVote)
}

func (s *voteServiceSuite) TestQuestionAndAnswerScoresIndependent() {
	_, err := s.service.CastVote(s.ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteUp)
	s.Require().NoError(err)
	_, err = s.service.CastVote(s.ctx, s.alice.ID, models.TargetAnswer, s.answer.ID, models.VoteDown)
	s.Require().NoError(err)

	s.Require().Equal(1, s.storedScore(models.TargetQuestion, s.question.ID))
	s.Require().Equal(-1, s.storedScore(models.TargetAnswer, s.answer.ID))
	s.requireProjection(models.TargetQuestion, s.question.ID)
	s.requireProjection(models.TargetAnswer, s.answer.ID)
}

func (s *voteServiceSuite) TestCancelledContextRollsBack() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := s.service.CastVote(ctx, s.bob.ID, models.TargetQuestion, s.question.ID, models.VoteUp)
	s.Require().Error(err)

	s.Require().EqualValues(0, s.voteCount(models.TargetQuestion, s.question.ID))
	s.Require().Equal(0, s.storedScore(models.TargetQuestion, s.question.ID))
}
