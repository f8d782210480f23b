//go:generate go run go.uber.org/mock/mockgen -source=dm_service.go -destination=../mocks/mock_dm_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"synaptik/domain"
	"synaptik/errors"
	"synaptik/repositories"
)

type IDMService interface {
	List(ctx context.Context, userID domain.UserID) ([]DMView, error)
	Start(ctx context.Context, userID domain.UserID, otherID string) (DMView, error)
}

// DMView is a conversation together with the public profile of both participants.
type DMView struct {
	domain.DMConversation
	Users []domain.UserSummary `json:"users"`
}

type DMService struct {
	log   *slog.Logger
	dms   repositories.IDMRepository
	users repositories.IUserRepository
}

func NewDMService(log *slog.Logger, dms repositories.IDMRepository, users repositories.IUserRepository) *DMService {
	return &DMService{log: log, dms: dms, users: users}
}

func (s *DMService) List(ctx context.Context, userID domain.UserID) ([]DMView, error) {
	dms, err := s.dms.ListDMs(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]DMView, 0, len(dms))
	for _, dm := range dms {
		views = append(views, s.view(ctx, dm))
	}
	return views, nil
}

// Start returns the conversation between the two users, creating it the first time.
func (s *DMService) Start(ctx context.Context, userID domain.UserID, otherID string) (DMView, error) {
	if !domain.IsValidID(otherID) {
		return DMView{}, errors.ErrInvalidUserID
	}
	other := domain.UserID(otherID)
	if other == userID {
		return DMView{}, errors.ErrCannotDMYourself
	}
	if _, err := s.users.FindUser(ctx, other); err != nil {
		return DMView{}, err
	}
	dm, err := s.dms.FindOrCreateDM(ctx, userID, other)
	if err != nil {
		return DMView{}, err
	}
	return s.view(ctx, dm), nil
}

func (s *DMService) view(ctx context.Context, dm domain.DMConversation) DMView {
	view := DMView{DMConversation: dm, Users: make([]domain.UserSummary, 0, 2)}
	for _, id := range dm.Participants {
		user, err := s.users.FindUser(ctx, id)
		if err != nil {
			s.log.Debug("Participant not found", "dm_id", dm.ID, "user_id", id, "error", err)
			view.Users = append(view.Users, domain.UserSummary{ID: id})
			continue
		}
		view.Users = append(view.Users, user.Summary())
	}
	return view
}
