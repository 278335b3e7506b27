package service

import (
	"context"

	"github.com/rs/zerolog"
)

// Messenger delivers outbound text to the user.
type Messenger interface {
	Send(ctx context.Context, text string) error
}

// LogMessenger writes messages to the log instead of delivering them.
type LogMessenger struct {
	Log zerolog.Logger
}

func (m LogMessenger) Send(_ context.Context, text string) error {
	m.Log.Info().Str("text", text).Msg("outbound message")
	return nil
}
