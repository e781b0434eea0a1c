// Package userssqlitestore persists users in an embedded SQLite database.
package userssqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo"
	"github.com/jrazmi/taskboard/infrastructure/sqlitedb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

const userColumns = `user_id, username, password_hash, created_at`

// Store provides database access for users.
type Store struct {
	log *logger.Logger
	db  *sql.DB
}

func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

func (s *Store) Create(ctx context.Context, user usersrepo.User) (usersrepo.User, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, password_hash) VALUES (?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash)
	if err != nil {
		return usersrepo.User{}, translate(err)
	}
	return s.GetByID(ctx, user.ID)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (usersrepo.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (s *Store) GetByID(ctx context.Context, id string) (usersrepo.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (usersrepo.User, error) {
	var (
		u       usersrepo.User
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		return usersrepo.User{}, translate(err)
	}
	// CURRENT_TIMESTAMP is UTC in "YYYY-MM-DD HH:MM:SS" form.
	if t, err := time.Parse(time.DateTime, created); err == nil {
		u.CreatedAt = t
	}
	return u, nil
}

func translate(err error) error {
	err = sqlitedb.HandleSQLiteError(err)
	switch {
	case errors.Is(err, sqlitedb.ErrDBNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, sqlitedb.ErrDBDuplicatedEntry):
		return repositories.ErrDuplicate
	}
	return err
}
