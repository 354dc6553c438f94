package implementation

import (
	"errors"

	"ai-voicebot-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// translateError maps driver errors onto repository errors.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errors.Join(contract.ErrActiveConflict, err)
	}
	return err
}
