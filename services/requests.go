package services

import (
	"fmt"
	"synaptik/auth"
	"synaptik/domain"
	"synaptik/errors"
)

type CreateRoomRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"max=500"`
	Category    string `json:"category" validate:"max=32"`
	IsPrivate   bool   `json:"isPrivate"`
}

type UpdateProfileRequest struct {
	DisplayName *string          `json:"displayName" validate:"omitempty,min=1,max=64"`
	AvatarURL   *string          `json:"avatarUrl" validate:"omitempty,max=2048"`
	Bio         *string          `json:"bio" validate:"omitempty,max=280"`
	Settings    *SettingsRequest `json:"settings"`
}

type SettingsRequest struct {
	Theme         domain.Theme `json:"theme" validate:"oneof=light dark"`
	Notifications bool         `json:"notifications"`
}

func (r UpdateProfileRequest) toUpdate() domain.ProfileUpdate {
	update := domain.ProfileUpdate{
		DisplayName: r.DisplayName,
		AvatarURL:   r.AvatarURL,
		Bio:         r.Bio,
	}
	if r.Settings != nil {
		update.Settings = &domain.Settings{Theme: r.Settings.Theme, Notifications: r.Settings.Notifications}
	}
	return update
}

func validateRequest(request any) error {
	if err := auth.Validator().Struct(request); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMissingFields, err)
	}
	return nil
}
