package auth

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/crucial707/student-records/internal/models"
	"github.com/crucial707/student-records/internal/repo"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingCredentials is returned when username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrUsernameTooLong is returned when the username exceeds MaxUsernameLen characters.
	ErrUsernameTooLong = errors.New("username is too long")
)

// MaxUsernameLen is the width of users.username.
const MaxUsernameLen = 100

// Register creates a user after checking the username is free. The password is
// stored only as a bcrypt hash. The username is stored as submitted.
// A taken username yields repo.ErrUsernameTaken.
func Register(ctx context.Context, users *repo.UserRepo, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}

	exists, err := users.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repo.ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return users.Create(ctx, username, hash)
}

// Authenticate looks the user up and verifies the password. Unknown users and
// wrong passwords both return ErrInvalidCredentials.
func Authenticate(ctx context.Context, users *repo.UserRepo, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
