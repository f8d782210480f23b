package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a mailer whose transport is captured
	mailer := NewSMTPMailer(log, SMTPConfig{Host: "mail.local", Port: 2525, Username: "bot", Password: "pw", From: "noreply@synaptik.dev"})
	var gotAddr string
	var gotTo []string
	var gotMsg string
	mailer.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		req.NotNil(a)
		req.Equal("noreply@synaptik.dev", from)
		return nil
	}

	// When sending
	err := mailer.Send(context.Background(), "alice@synaptik.dev", "Your code", "123456\nexpires soon")

	// Then the envelope and headers are set
	req.NoError(err)
	req.Equal("mail.local:2525", gotAddr)
	req.Equal([]string{"alice@synaptik.dev"}, gotTo)
	req.Contains(gotMsg, "Subject: Your code\r\n")
	req.Contains(gotMsg, "\r\n\r\n123456\r\nexpires soon")
}

func TestSMTPMailer_Failure(t *testing.T) {
	req := require.New(t)
	mailer := NewSMTPMailer(logs.GetLoggerFromLevel(slog.LevelDebug), SMTPConfig{Host: "mail.local", Port: 25})
	mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
		return fmt.Errorf("connection refused")
	}

	err := mailer.Send(context.Background(), "bob@synaptik.dev", "s", "b")
	req.ErrorContains(err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.ErrorIs(mailer.Send(ctx, "bob@synaptik.dev", "s", "b"), context.Canceled)
}

func TestLogMailer_Send(t *testing.T) {
	req := require.New(t)
	req.NoError(NewLogMailer(logs.GetLoggerFromLevel(slog.LevelDebug)).Send(context.Background(), "a@b.io", "s", "b"))
}
