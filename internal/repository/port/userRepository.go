package repository

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by FindByID when the directory has no such user.
var ErrUserNotFound = errors.New("user directory: user not found")

// User is the directory entry the messaging service denormalizes into
// thread and message records.
type User struct {
	ID          string
	DisplayName string
	AvatarURL   string
	UserType    string
}

// Define the interface (contract)
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, user *User) error
}
