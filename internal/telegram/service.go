package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/silowatch/silowatch/internal/conversation"
	"github.com/silowatch/silowatch/internal/management"
	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/internal/notifier"
	"github.com/silowatch/silowatch/pkg/logger"
)

// Service owns the bot connection and routes incoming updates to the wizard
// machines. Per-chat state lives in the session map; every update for a chat
// runs under that chat's lock.
type Service struct {
	bot      *bot.Bot
	logger   *logger.Logger
	conv     *conversation.Machine
	mgmt     *management.Machine
	out      *Messenger
	sessions sessionMap
}

func NewService(token string, conv *conversation.Machine, mgmt *management.Machine, logger *logger.Logger) (*Service, error) {
	s := &Service{
		logger: logger,
		conv:   conv,
		mgmt:   mgmt,
	}

	b, err := bot.New(token, bot.WithDefaultHandler(s.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %s", err)
	}
	s.bot = b
	s.out = NewMessenger(b, logger)
	return s, nil
}

// Messenger returns the outbound boundary for the notification dispatcher.
func (s *Service) Messenger() models.Messenger {
	return s.out
}

// Start blocks polling for updates until the context is canceled.
func (s *Service) Start(ctx context.Context) {
	s.logger.Info("Telegram bot started")
	s.bot.Start(ctx)
}

func (s *Service) handleUpdate(ctx context.Context, _ *bot.Bot, update *tgModels.Update) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Update handler panicked ", "panic ", r, " stack ", string(debug.Stack()))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		s.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		s.handleMessage(ctx, update.Message)
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *tgModels.Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	userID := msg.From.ID

	sess := s.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if msg.ChatShared != nil {
		if msg.ChatShared.RequestID != chatShareRequestID {
			return
		}
		var reply models.Reply
		sess.conv, reply = s.conv.Advance(ctx, sess.conv, strconv.FormatInt(msg.ChatShared.ChatID, 10))
		s.out.sendReply(ctx, chatID, reply)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		s.handleCommand(ctx, sess, chatID, userID, text)
		return
	}

	var reply models.Reply
	switch {
	case sess.conv.Active():
		sess.conv, reply = s.conv.Advance(ctx, sess.conv, text)
	case sess.mgmt.AwaitingValue():
		sess.mgmt, reply = s.mgmt.Input(userID, sess.mgmt, text)
	default:
		reply = models.Reply{Text: msgUnknownCommand}
	}
	s.out.sendReply(ctx, chatID, reply)
}

func (s *Service) handleCommand(ctx context.Context, sess *session, chatID, userID int64, text string) {
	fields := strings.Fields(text)
	command := strings.TrimPrefix(fields[0], "/")
	// Commands in groups arrive as /command@botname.
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}

	var reply models.Reply
	switch command {
	case "start", "help":
		sess.conv = conversation.Idle()
		sess.mgmt = management.State{}
		reply = models.Reply{
			Text:     msgWelcome,
			Markdown: true,
			Buttons: [][]models.Button{
				{{Label: "Start Watching", Callback: "watch"}},
				{{Label: "Manage Subscriptions", Callback: "manage"}},
			},
		}
	case "watch":
		address := ""
		if len(fields) > 1 {
			address = fields[1]
		}
		sess.mgmt = management.State{}
		sess.conv, reply = s.conv.Start(ctx, address)
	case "manage":
		sess.conv = conversation.Idle()
		sess.mgmt, reply = s.mgmt.Open(userID)
	case "example":
		example := exampleAlert()
		if err := s.out.Send(ctx, chatID, example); err != nil {
			s.logger.Error("Failed to send example ", "chat ", chatID, " error ", err)
		}
		return
	default:
		reply = models.Reply{Text: msgUnknownCommand}
	}
	s.out.sendReply(ctx, chatID, reply)
}

func (s *Service) handleCallback(ctx context.Context, cb *tgModels.CallbackQuery) {
	if _, err := s.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID}); err != nil {
		s.logger.Warn("Failed to answer callback query ", "error ", err)
	}
	if cb.Message.Message == nil {
		return
	}
	chatID := cb.Message.Message.Chat.ID
	userID := cb.From.ID

	act, err := DecodeCallback(cb.Data)
	if err != nil {
		s.logger.Error("Dropping callback ", "error ", err)
		return
	}

	sess := s.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var reply models.Reply
	switch a := act.(type) {
	case StartWatch:
		sess.mgmt = management.State{}
		sess.conv, reply = s.conv.Start(ctx, "")
	case OpenManage:
		sess.conv = conversation.Idle()
		sess.mgmt, reply = s.mgmt.Open(userID)
	case ConfirmSubscription:
		sess.conv, reply = s.conv.Confirm(chatID, userID, sess.conv)
	case SelectPosition:
		if sess.conv.Step != conversation.StepPositionSelection {
			return
		}
		sess.conv, reply = s.conv.Advance(ctx, sess.conv, strconv.Itoa(a.Index))
	case SelectThreshold:
		if sess.conv.Step != conversation.StepThresholdSelection {
			return
		}
		sess.conv, reply = s.conv.Advance(ctx, sess.conv, a.Value)
	case SelectCooldown:
		if sess.conv.Step != conversation.StepCooldownInput {
			return
		}
		sess.conv, reply = s.conv.Advance(ctx, sess.conv, a.Value)
	case Manage:
		sess.conv = conversation.Idle()
		sess.mgmt, reply = s.mgmt.Handle(userID, sess.mgmt, a.Action)
	}
	s.out.sendReply(ctx, chatID, reply)
}

// exampleAlert is the canned notification behind /example.
func exampleAlert() models.OutboundMessage {
	update := &models.HealthFactorUpdate{
		ChainID:      1,
		Silo:         "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37",
		Account:      "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
		HealthFactor: 0.95,
		BlockNumber:  19000000,
		ObservedAt:   time.Now(),
	}
	sub := &models.Subscription{
		ID:      1,
		ChainID: update.ChainID,
		Silo:    update.Silo,
		Account: update.Account,
	}
	return notifier.FormatAlert(update, sub)
}
