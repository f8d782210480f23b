package services_test

import (
	"context"
	"fmt"
	"synaptik/auth"
	"synaptik/domain"
	"synaptik/errors"
	"synaptik/mocks"
	"synaptik/services"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "auth-service-test-secret"

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	mockOTP := mocks.NewMockIOTPRepository(ctrl)
	mockMailer := mocks.NewMockIMailer(ctrl)
	tokens := auth.NewTokenManager(testSecret, 24*time.Hour)
	svc := services.NewAuthService(testLogger(), mockRepo, mockOTP, mockMailer, tokens, services.AuthOptions{})
	ctx := context.Background()

	valid := auth.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "ComplexPass123!"}

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)

		// Expect CreateUser with a hashed password, never the plain one
		mockRepo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, user domain.User) error {
				req.NotEqual(valid.Password, user.PasswordHash)
				req.True(user.Verified)
				req.Equal("alice", user.DisplayName)
				return nil
			}).
			Times(1)

		result, err := svc.Register(ctx, valid)

		req.NoError(err)
		req.NotEmpty(result.Token)
		req.False(result.VerificationRequired)
		claims, err := tokens.Validate(result.Token)
		req.NoError(err)
		req.Equal(result.User.ID, claims.UserID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		request := valid
		request.Password = "simplepassword"

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		result, err := svc.Register(ctx, request)

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(result.Token)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			Return(errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(ctx, valid)

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_RegisterWithVerification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	mockOTP := mocks.NewMockIOTPRepository(ctrl)
	mockMailer := mocks.NewMockIMailer(ctrl)
	options := services.AuthOptions{RequireVerification: true, OTPTTL: 10 * time.Minute}
	svc := services.NewAuthService(testLogger(), mockRepo, mockOTP, mockMailer, auth.NewTokenManager(testSecret, time.Hour), options)
	ctx := context.Background()
	request := auth.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "ComplexPass123!"}

	t.Run("should store and mail a code instead of issuing a token", func(t *testing.T) {
		req := require.New(t)
		var savedCode string

		mockRepo.EXPECT().CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, user domain.User) error {
				req.False(user.Verified)
				return nil
			})
		mockOTP.EXPECT().SaveCode(ctx, "bob@example.com", gomock.Any(), 10*time.Minute).
			DoAndReturn(func(_ context.Context, _ string, code string, _ time.Duration) error {
				savedCode = code
				return nil
			})
		mockMailer.EXPECT().Send(ctx, "bob@example.com", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, body string) error {
				req.Contains(body, savedCode)
				return nil
			})

		result, err := svc.Register(ctx, request)

		req.NoError(err)
		req.True(result.VerificationRequired)
		req.Empty(result.Token)
		req.Len(savedCode, 6)
	})

	t.Run("should surface a mailer failure", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().CreateUser(ctx, gomock.Any()).Return(nil)
		mockOTP.EXPECT().SaveCode(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		mockMailer.EXPECT().Send(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("smtp down"))

		_, err := svc.Register(ctx, request)

		req.ErrorContains(err, "smtp down")
	})
}

func TestAuthService_Verify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	mockOTP := mocks.NewMockIOTPRepository(ctrl)
	options := services.AuthOptions{RequireVerification: true, OTPTTL: time.Minute}
	svc := services.NewAuthService(testLogger(), mockRepo, mockOTP, mocks.NewMockIMailer(ctrl), auth.NewTokenManager(testSecret, time.Hour), options)
	ctx := context.Background()
	user := newUser("carol")

	t.Run("should verify and log in with the right code", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
		mockOTP.EXPECT().ConsumeCode(ctx, user.Email, "123456").Return(nil)
		mockRepo.EXPECT().MarkVerified(ctx, user.ID).Return(nil)

		result, err := svc.Verify(ctx, auth.VerifyRequest{Email: user.Email, Code: "123456"})

		req.NoError(err)
		req.True(result.User.Verified)
		req.NotEmpty(result.Token)
	})

	t.Run("should reject a wrong code", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
		mockOTP.EXPECT().ConsumeCode(ctx, user.Email, "000000").Return(errors.ErrInvalidOTP)
		mockRepo.EXPECT().MarkVerified(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Verify(ctx, auth.VerifyRequest{Email: user.Email, Code: "000000"})

		req.ErrorIs(err, errors.ErrInvalidOTP)
	})

	t.Run("should not reveal unknown emails", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(domain.User{}, errors.ErrUserNotFound)

		_, err := svc.Verify(ctx, auth.VerifyRequest{Email: "ghost@example.com", Code: "123456"})

		req.ErrorIs(err, errors.ErrInvalidOTP)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := auth.NewTokenManager(testSecret, 24*time.Hour)
	svc := services.NewAuthService(testLogger(), mockRepo, mocks.NewMockIOTPRepository(ctrl), mocks.NewMockIMailer(ctrl), tokens,
		services.AuthOptions{RequireVerification: true})
	ctx := context.Background()

	password := "Secret123456!"
	hashedPassword, err := auth.HashPassword(password)
	require.NoError(t, err)
	storedUser := newUser("dave")
	storedUser.PasswordHash = hashedPassword
	storedUser.Verified = true

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			FindByEmailOrUsername(ctx, "dave").
			Return(storedUser, nil).
			Times(1)

		result, err := svc.Login(ctx, auth.LoginRequest{EmailOrUsername: "dave", Password: password})

		req.NoError(err)
		claims, err := tokens.Validate(result.Token)
		req.NoError(err)
		req.Equal(storedUser.ID, claims.UserID)
	})

	t.Run("should return invalid credentials when password matches nothing", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			FindByEmailOrUsername(ctx, storedUser.Email).
			Return(storedUser, nil).
			Times(1)

		_, err := svc.Login(ctx, auth.LoginRequest{EmailOrUsername: storedUser.Email, Password: "WrongPassword123!"})

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			FindByEmailOrUsername(ctx, "unknown@example.com").
			Return(domain.User{}, fmt.Errorf("%w: unknown@example.com", errors.ErrUserNotFound)).
			Times(1)

		_, err := svc.Login(ctx, auth.LoginRequest{EmailOrUsername: "unknown@example.com", Password: "anyPassword"})

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should refuse an unverified email", func(t *testing.T) {
		req := require.New(t)
		unverified := storedUser
		unverified.Verified = false

		mockRepo.EXPECT().FindByEmailOrUsername(ctx, "dave").Return(unverified, nil)

		_, err := svc.Login(ctx, auth.LoginRequest{EmailOrUsername: "dave", Password: password})

		req.ErrorIs(err, errors.ErrEmailNotVerified)
	})
}
