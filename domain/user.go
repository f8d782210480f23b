package domain

import "time"

type UserID string

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Settings struct {
	Theme         Theme `json:"theme"`
	Notifications bool  `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{Theme: ThemeDark, Notifications: true}
}

// User is an account. Online and LastSeen belong to the connection lifecycle,
// REST handlers never write them.
type User struct {
	ID           UserID     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"displayName"`
	AvatarURL    *string    `json:"avatarUrl"`
	Bio          string     `json:"bio"`
	Online       bool       `json:"online"`
	LastSeen     *time.Time `json:"lastSeen,omitempty"`
	Settings     Settings   `json:"settings"`
	Verified     bool       `json:"verified"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// UserSummary is the public projection of a user attached to messages and search results.
type UserSummary struct {
	ID          UserID  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	Online      bool    `json:"online"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Online:      u.Online,
	}
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil pointers are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	Settings    *Settings
}

func (u *User) Apply(update ProfileUpdate) {
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.AvatarURL != nil {
		u.AvatarURL = update.AvatarURL
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Settings != nil {
		u.Settings = *update.Settings
	}
}

// NewUser builds a fresh offline account. DisplayName falls back to the username.
func NewUser(username, email, passwordHash, displayName string, at time.Time) User {
	if displayName == "" {
		displayName = username
	}
	return User{
		ID:           UserID(NewID()),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Settings:     DefaultSettings(),
		CreatedAt:    at,
	}
}
