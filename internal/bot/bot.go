package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"workboard/internal/repository"
)

// ErrNoChat is returned by Send before any chat has been captured.
var ErrNoChat = errors.New("no telegram chat id known yet")

// maxMessageLen is Telegram's limit on one message's text.
const maxMessageLen = 4096

// Handler answers one inbound message.
type Handler interface {
	HandleMessage(ctx context.Context, chatID int64, text string) (string, error)
}

// commandText maps slash commands onto the plain-text vocabulary.
var commandText = map[string]string{
	"today":     "today",
	"week":      "week",
	"next":      "what's next",
	"reminders": "reminders",
	"subtypes":  "subtypes",
	"pause":     "pause",
	"resume":    "resume",
}

const helpText = "👋 *Workboard*\n" +
	"Tell me what you need in plain words, for example:\n" +
	"• add grade midterms 2h tomorrow\n" +
	"• done with slides\n" +
	"• push report to friday\n" +
	"• what's next\n" +
	"• remind me to call mom at 18:00\n\n" +
	"Commands: /today /week /next /reminders /subtypes /pause /resume /help"

// Bot is the Telegram transport: it polls updates into a Handler and
// delivers proactive messages to the captured chat.
type Bot struct {
	api      *tgbotapi.BotAPI
	handler  Handler
	settings *repository.SettingsRepository
	limiter  *rate.Limiter
	log      zerolog.Logger
}

// New authorises against the Bot API. perSecond caps outbound sends.
func New(token string, handler Handler, settings *repository.SettingsRepository, perSecond float64, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Info().Str("account", api.Self.UserName).Msg("bot authorized")
	return newBot(api, handler, settings, perSecond, log), nil
}

func newBot(api *tgbotapi.BotAPI, handler Handler, settings *repository.SettingsRepository, perSecond float64, log zerolog.Logger) *Bot {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Bot{
		api:      api,
		handler:  handler,
		settings: settings,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		log:      log,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error().Err(err).Int64("chat_id", update.Message.Chat.ID).Msg("handle message")
		}
	}
	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	text, reply := InboundText(msg.Text, msg.Command())
	if reply != "" {
		return b.sendTo(ctx, msg.Chat.ID, reply)
	}
	if text == "" {
		return nil
	}
	out, err := b.handler.HandleMessage(ctx, msg.Chat.ID, text)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	return b.sendTo(ctx, msg.Chat.ID, out)
}

// InboundText resolves a message into the text handed to the Handler, or a
// direct reply for commands the bot answers itself.
func InboundText(text, command string) (string, string) {
	if command == "" {
		return strings.TrimSpace(text), ""
	}
	switch command {
	case "start", "help":
		return "", helpText
	}
	if mapped, ok := commandText[command]; ok {
		return mapped, ""
	}
	return "", "Unknown command. Try /help."
}

// Send delivers a proactive message to the captured chat.
func (b *Bot) Send(ctx context.Context, text string) error {
	st, err := b.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load chat id: %w", err)
	}
	if st.TelegramChatID == 0 {
		return ErrNoChat
	}
	return b.sendTo(ctx, st.TelegramChatID, text)
}

func (b *Bot) sendTo(ctx context.Context, chatID int64, text string) error {
	for _, part := range SplitMessage(text, maxMessageLen) {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(msg); err != nil {
			// Unbalanced markdown in user text is rejected; retry as plain text.
			b.log.Debug().Err(err).Msg("markdown send failed, retrying plain")
			msg.ParseMode = ""
			if _, err := b.api.Send(msg); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

// SplitMessage cuts text into chunks of at most limit runes, preferring
// line breaks.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			r := []rune(line)
			parts = append(parts, string(r[:limit]))
			line = string(r[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return parts
}
