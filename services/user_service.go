//go:generate go run go.uber.org/mock/mockgen -source=user_service.go -destination=../mocks/mock_user_service.go -package=mocks
package services

import (
	"context"
	"strings"
	"synaptik/domain"
	"synaptik/repositories"

	"github.com/samber/lo"
)

const userSearchLimit = 10

type IUserService interface {
	Profile(ctx context.Context, userID domain.UserID) (domain.User, error)
	UpdateProfile(ctx context.Context, userID domain.UserID, request UpdateProfileRequest) (domain.User, error)
	Search(ctx context.Context, userID domain.UserID, query string) ([]domain.UserSummary, error)
}

type UserService struct {
	users repositories.IUserRepository
}

func NewUserService(users repositories.IUserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, userID domain.UserID) (domain.User, error) {
	return s.users.FindUser(ctx, userID)
}

// UpdateProfile never touches presence fields, those belong to the connection lifecycle.
func (s *UserService) UpdateProfile(ctx context.Context, userID domain.UserID, request UpdateProfileRequest) (domain.User, error) {
	if err := validateRequest(request); err != nil {
		return domain.User{}, err
	}
	return s.users.UpdateProfile(ctx, userID, request.toUpdate())
}

// Search matches a case-insensitive username prefix and never returns the caller.
func (s *UserService) Search(ctx context.Context, userID domain.UserID, query string) ([]domain.UserSummary, error) {
	users, err := s.users.SearchByUsername(ctx, strings.TrimSpace(query), userID, userSearchLimit)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u domain.User, _ int) domain.UserSummary { return u.Summary() }), nil
}
