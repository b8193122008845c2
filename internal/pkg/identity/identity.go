// Package identity resolves user ids to the display data that messaging
// denormalizes into thread and message records.
package identity

import (
	"context"
	"errors"
	"strings"

	users "github.com/iwoork/homeforpup-sub008/internal/repository/port"
)

// Profile is what a resolver knows about a user.
type Profile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	// Placeholder is set when the user is unknown and DisplayName was
	// derived from the id.
	Placeholder bool `json:"-"`
}

// Resolver looks up display data. Unknown users resolve to a placeholder,
// not an error; errors mean the backing directory could not be reached.
type Resolver interface {
	Resolve(ctx context.Context, userID string) (Profile, error)
}

// Placeholder derives a deterministic profile from the id suffix.
func Placeholder(userID string) Profile {
	suffix := userID
	if r := []rune(userID); len(r) > 6 {
		suffix = string(r[len(r)-6:])
	}
	return Profile{UserID: userID, DisplayName: "User " + suffix, Placeholder: true}
}

// DirectoryResolver resolves against a user directory.
type DirectoryResolver struct {
	Users users.UserRepository
}

func NewDirectoryResolver(repo users.UserRepository) *DirectoryResolver {
	return &DirectoryResolver{Users: repo}
}

var _ Resolver = (*DirectoryResolver)(nil)

func (r *DirectoryResolver) Resolve(ctx context.Context, userID string) (Profile, error) {
	u, err := r.Users.FindByID(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return Placeholder(userID), nil
	}
	if err != nil {
		return Placeholder(userID), err
	}
	p := Profile{
		UserID:      u.ID,
		DisplayName: strings.TrimSpace(u.DisplayName),
		AvatarURL:   u.AvatarURL,
		UserType:    u.UserType,
	}
	if p.DisplayName == "" {
		p.DisplayName = Placeholder(userID).DisplayName
	}
	return p, nil
}
