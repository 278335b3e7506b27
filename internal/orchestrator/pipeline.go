package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"workboard/internal/intent"
)

// HandleMessage runs one inbound message through classify, execute and
// render, records it as a user_message check-in and returns the reply.
// chatID is remembered as the outbound chat the first time one is seen.
func (o *Orchestrator) HandleMessage(ctx context.Context, chatID int64, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	now := o.Now()

	if err := o.captureChat(ctx, chatID); err != nil {
		return "", err
	}

	c, err := o.BuildContext(ctx, now)
	if err != nil {
		return "", err
	}

	in, err := o.classifier.Classify(ctx, text, c)
	if err != nil {
		o.log.Warn().Err(err).Msg("classifier failed, treating message as unknown")
		in = intent.Unknown{Raw: text, Error: err.Error()}
	}
	log := o.log.With().Str("intent", string(in.Kind())).Logger()

	reply := Failure
	res, err := o.Execute(ctx, in, c)
	if err != nil {
		log.Error().Err(err).Msg("execute intent")
	} else {
		reply = Render(in, res, c)
	}

	if _, err := o.svc.CheckIns.RecordUserMessage(ctx, text, reply, now); err != nil {
		log.Error().Err(err).Msg("record user message")
	}
	log.Info().Msg("message handled")
	return reply, nil
}

func (o *Orchestrator) captureChat(ctx context.Context, chatID int64) error {
	if chatID == 0 {
		return nil
	}
	st, err := o.svc.Settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("capture chat id: %w", err)
	}
	if st.TelegramChatID == chatID {
		return nil
	}
	if st.TelegramChatID != 0 {
		o.log.Warn().Int64("chat_id", chatID).Msg("message from a chat other than the configured one")
		return nil
	}
	st.TelegramChatID = chatID
	if err := o.svc.Settings.Put(ctx, &st); err != nil {
		return fmt.Errorf("capture chat id: %w", err)
	}
	o.log.Info().Int64("chat_id", chatID).Msg("outbound chat captured")
	return nil
}
