package errors

import "fmt"

// Validation
var (
	ErrInvalidRoomID      = fmt.Errorf("invalid room id")
	ErrInvalidDMID        = fmt.Errorf("invalid dm id")
	ErrInvalidUserID      = fmt.Errorf("invalid user id")
	ErrInvalidSelector    = fmt.Errorf("exactly one of roomId or dmId is required")
	ErrInvalidMessageType = fmt.Errorf("invalid message type")
	ErrEmptyMessage       = fmt.Errorf("message has no text nor media")
	ErrMessageTooLong     = fmt.Errorf("message is too long")
	ErrSenderMismatch     = fmt.Errorf("sender does not match the connected user")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
	ErrUnknownEvent       = fmt.Errorf("unknown event")
	ErrRateLimited        = fmt.Errorf("too many messages, slow down")
	ErrCannotDMYourself   = fmt.Errorf("cannot DM yourself")
	ErrMissingFields      = fmt.Errorf("missing fields")
)

// Persistence
var (
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrRoomNotFound      = fmt.Errorf("room not found")
	ErrDMNotFound        = fmt.Errorf("dm conversation not found")
	ErrRoomNameTaken     = fmt.Errorf("room name already exists")
	ErrUserAlreadyExists = fmt.Errorf("username or email already taken")
	ErrOTPNotFound       = fmt.Errorf("verification code expired or unknown")
)

// Authorization
var (
	ErrUnauthenticated    = fmt.Errorf("authentication required")
	ErrForbidden          = fmt.Errorf("not allowed")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("invalid password")
	ErrInvalidToken       = fmt.Errorf("invalid or expired token")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrEmailNotVerified   = fmt.Errorf("email not verified")
	ErrInvalidOTP         = fmt.Errorf("invalid verification code")
	ErrMalformedHash      = fmt.Errorf("malformed password hash")
)

// Transport
var (
	ErrSinkFull   = fmt.Errorf("connection queue is full")
	ErrSinkClosed = fmt.Errorf("connection is closed")
)

// Upload
var (
	ErrFileTooLarge     = fmt.Errorf("file too large")
	ErrFileTypeRejected = fmt.Errorf("file type not allowed")
	ErrNoFile           = fmt.Errorf("no file uploaded")
)

// Runtime
var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)
