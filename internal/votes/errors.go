package votes

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrUnauthenticated means no valid caller identity was supplied.
	ErrUnauthenticated = errors.New("votes: caller is not authenticated")

	// ErrTargetNotFound means the question or answer being voted on does not exist.
	ErrTargetNotFound = errors.New("votes: vote target not found")

	// ErrInvalidVote means the target type or vote type is not a known value.
	ErrInvalidVote = errors.New("votes: invalid vote request")

	// ErrVoteFailed means the transaction failed after exhausting the
	// constraint-violation retry. Safe for the client to retry.
	ErrVoteFailed = errors.New("votes: vote operation failed")
)

const pgUniqueViolation = "23505"

// isDuplicateVote reports whether err is the unique-constraint violation on
// (user_id, target_type, target_id). GORM translates it when TranslateError
// is enabled; the raw pg error code is checked as well since the bootstrap
// schema path runs without translation.
func isDuplicateVote(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
