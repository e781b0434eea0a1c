package usersrepo

import "time"

// User is a registered account. Usernames are unique and case-sensitive.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser carries an already hashed password to the store.
type CreateUser struct {
	Username     string
	PasswordHash string
}
