// Package userspgxstore persists users in PostgreSQL.
package userspgxstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo"
	"github.com/jrazmi/taskboard/infrastructure/postgresdb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

const userColumns = `user_id::text AS user_id, username, password_hash, created_at`

// Store provides database access for users.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

type userRow struct {
	UserID       string    `db:"user_id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toUser() usersrepo.User {
	return usersrepo.User{
		ID:           r.UserID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Store) Create(ctx context.Context, user usersrepo.User) (usersrepo.User, error) {
	query := `INSERT INTO users (user_id, username, password_hash)
		VALUES (@user_id, @username, @password_hash)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"user_id":       user.ID,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
	}
	return s.one(ctx, query, args)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (usersrepo.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE username = @username`

	return s.one(ctx, query, pgx.NamedArgs{"username": username})
}

func (s *Store) GetByID(ctx context.Context, id string) (usersrepo.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE user_id = @user_id`

	return s.one(ctx, query, pgx.NamedArgs{"user_id": id})
}

func (s *Store) one(ctx context.Context, query string, args pgx.NamedArgs) (usersrepo.User, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return usersrepo.User{}, translate(err)
	}
	defer rows.Close()

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return usersrepo.User{}, translate(err)
	}
	return row.toUser(), nil
}

func translate(err error) error {
	err = postgresdb.HandlePgError(err)
	switch {
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, postgresdb.ErrDBDuplicatedEntry):
		return repositories.ErrDuplicate
	}
	return err
}
