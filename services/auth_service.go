//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"synaptik/auth"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/errors"
	"synaptik/repositories"
	"time"
)

type IAuthService interface {
	Register(ctx context.Context, request auth.RegisterRequest) (AuthResult, error)
	Verify(ctx context.Context, request auth.VerifyRequest) (AuthResult, error)
	Login(ctx context.Context, request auth.LoginRequest) (AuthResult, error)
	Me(ctx context.Context, userID domain.UserID) (domain.User, error)
}

// AuthResult is returned by every auth endpoint. Token is empty while the email awaits verification.
type AuthResult struct {
	User                 domain.User `json:"user"`
	Token                string      `json:"token,omitempty"`
	VerificationRequired bool        `json:"verificationRequired,omitempty"`
}

type TokenIssuer interface {
	Generate(userID domain.UserID) (string, error)
}

type AuthOptions struct {
	RequireVerification bool
	OTPTTL              time.Duration
}

type AuthService struct {
	log     *slog.Logger
	users   repositories.IUserRepository
	otps    repositories.IOTPRepository
	mailer  contract.IMailer
	tokens  TokenIssuer
	options AuthOptions
	now     func() time.Time
}

func NewAuthService(log *slog.Logger, users repositories.IUserRepository, otps repositories.IOTPRepository,
	mailer contract.IMailer, tokens TokenIssuer, options AuthOptions) *AuthService {
	return &AuthService{
		log:     log,
		users:   users,
		otps:    otps,
		mailer:  mailer,
		tokens:  tokens,
		options: options,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, request auth.RegisterRequest) (AuthResult, error) {
	// Validation comes before any expensive hashing
	if err := auth.ValidateRegister(request); err != nil {
		return AuthResult{}, err
	}

	hashedPassword, err := auth.HashPassword(request.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.NewUser(request.Username, request.Email, hashedPassword, request.DisplayName, s.now().UTC())
	user.Verified = !s.options.RequireVerification
	if err := s.users.CreateUser(ctx, user); err != nil {
		return AuthResult{}, err
	}
	s.log.Info("User registered", "user_id", user.ID, "verification_required", s.options.RequireVerification)

	if s.options.RequireVerification {
		if err := s.sendCode(ctx, user.Email); err != nil {
			return AuthResult{}, err
		}
		return AuthResult{User: user, VerificationRequired: true}, nil
	}
	return s.issue(user)
}

// Verify consumes the emailed code and logs the user in.
func (s *AuthService) Verify(ctx context.Context, request auth.VerifyRequest) (AuthResult, error) {
	if err := auth.ValidateVerify(request); err != nil {
		return AuthResult{}, err
	}
	user, err := s.users.FindByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return AuthResult{}, errors.ErrInvalidOTP
		}
		return AuthResult{}, err
	}
	if err := s.otps.ConsumeCode(ctx, user.Email, request.Code); err != nil {
		return AuthResult{}, err
	}
	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return AuthResult{}, err
	}
	user.Verified = true
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, request auth.LoginRequest) (AuthResult, error) {
	if err := auth.ValidateLogin(request); err != nil {
		return AuthResult{}, err
	}
	user, err := s.users.FindByEmailOrUsername(ctx, request.EmailOrUsername)
	if err != nil {
		// Same answer for unknown login and wrong password
		if errors.Is(err, errors.ErrUserNotFound) {
			return AuthResult{}, errors.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	match, err := auth.ComparePassword(request.Password, user.PasswordHash)
	if err != nil || !match {
		return AuthResult{}, errors.ErrInvalidCredentials
	}
	if s.options.RequireVerification && !user.Verified {
		return AuthResult{}, errors.ErrEmailNotVerified
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID domain.UserID) (domain.User, error) {
	return s.users.FindUser(ctx, userID)
}

func (s *AuthService) issue(user domain.User) (AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return AuthResult{}, errors.ErrTokenGeneration
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) sendCode(ctx context.Context, email string) error {
	code, err := auth.NewOTPCode()
	if err != nil {
		return err
	}
	if err := s.otps.SaveCode(ctx, email, code, s.options.OTPTTL); err != nil {
		return err
	}
	body := fmt.Sprintf("Your Synaptik verification code is %s.\nIt expires in %s.", code, s.options.OTPTTL)
	if err := s.mailer.Send(ctx, email, "Verify your email", body); err != nil {
		s.log.Error("Unable to send verification code", "email", email, "error", err)
		return err
	}
	return nil
}
