package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/myritu/internal/llm"
	"github.com/terraincognita07/myritu/internal/models"
)

const (
	ChatHistoryLimit   = 50
	MaxChatMessageRune = 2000

	ReplyTroubleGathering = "Oh dear, I'm having a little trouble gathering my thoughts right now."
	ReplyLostForWords     = "I seem to be at a loss for words. Could you try rephrasing, dear?"
	ReplyConnectionWeak   = "Oh dear, my connection seems a bit weak. Could you try asking again in a moment?"
	ReplyUnexpected       = "Goodness, something unexpected happened on my end!"

	storedConnectionError = "API Connection Error (User was shown a generic message)"
)

const chatSystemPrompt = `You are MyRitu Chat, a warm, caring companion inside a menstrual health tracking app.
Answer questions about the menstrual cycle (called a "Ritu" in this app), periods, hormones, symptoms and general well-being.
Use the user's context below to personalise your answer, keep replies short and gentle, and never diagnose.
You are not a doctor: recommend seeing a healthcare professional for anything concerning, severe or persistent.`

var (
	ErrChatUnavailable  = errors.New("chat assistant unavailable")
	ErrEmptyChatMessage = errors.New("chat message is empty")
	ErrChatMessageLong  = errors.New("chat message too long")
)

type ChatRepository interface {
	Create(message *models.ChatMessage) error
	ListRecent(userID uint, limit int) ([]models.ChatMessage, error)
}

type ChatMessageView struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ChatExchange struct {
	UserMessage ChatMessageView `json:"user_message"`
	Reply       ChatMessageView `json:"reply"`
}

type ChatService struct {
	messages  ChatRepository
	profiles  ProfileRepository
	entries   CycleEntryRepository
	generator llm.Generator
	logger    *slog.Logger
	today     func() time.Time
}

// NewChatService accepts a nil generator; Send then reports ErrChatUnavailable.
// today supplies the calendar day in the user's configured zone and defaults
// to the host clock.
func NewChatService(messages ChatRepository, profiles ProfileRepository, entries CycleEntryRepository, generator llm.Generator, today func() time.Time, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	if today == nil {
		today = time.Now
	}
	return &ChatService{
		messages:  messages,
		profiles:  profiles,
		entries:   entries,
		generator: generator,
		logger:    logger.With("component", "chat"),
		today:     today,
	}
}

func (service *ChatService) Available() bool {
	return service.generator != nil
}

func (service *ChatService) History(userID uint) ([]ChatMessageView, error) {
	messages, err := service.messages.ListRecent(userID, ChatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	views := make([]ChatMessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, chatMessageView(message))
	}
	return views, nil
}

// Send stores the user's message, asks the model and stores its reply.
// Model failures never surface as errors: the user gets an apology and the
// stored bot row records what went wrong.
func (service *ChatService) Send(ctx context.Context, userID uint, text string) (ChatExchange, error) {
	if service.generator == nil {
		return ChatExchange{}, ErrChatUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatExchange{}, ErrEmptyChatMessage
	}
	if len([]rune(text)) > MaxChatMessageRune {
		return ChatExchange{}, ErrChatMessageLong
	}

	userMessage, err := service.store(userID, models.SenderUser, text)
	if err != nil {
		return ChatExchange{}, err
	}

	contextText, err := service.userContext(userID)
	if err != nil {
		return ChatExchange{}, err
	}

	raw, generateErr := service.generator.Generate(ctx, llm.Prompt{
		System:   chatSystemPrompt,
		Context:  contextText,
		Question: text,
	})
	shown, stored := ChatReply(raw, generateErr)
	if generateErr != nil {
		service.logger.ErrorContext(ctx, "chat generation failed", "user_id", userID, "error", generateErr)
	}

	botMessage, err := service.store(userID, models.SenderBot, stored)
	if err != nil {
		return ChatExchange{}, err
	}
	reply := chatMessageView(botMessage)
	reply.Message = shown
	return ChatExchange{UserMessage: chatMessageView(userMessage), Reply: reply}, nil
}

// ChatReply maps a generation outcome to the text shown to the user and the
// text kept in the chat log. They differ only for connection and unexpected
// failures.
func ChatReply(raw string, err error) (shown string, stored string) {
	switch {
	case err == nil:
		reply := ExtractReply(raw)
		return reply, reply
	case errors.Is(err, llm.ErrInvalidResponse):
		return ReplyTroubleGathering, ReplyTroubleGathering
	case errors.Is(err, llm.ErrContentBlocked):
		return ReplyLostForWords, ReplyLostForWords
	case errors.Is(err, llm.ErrTransient), errors.Is(err, llm.ErrUpstream):
		return ReplyConnectionWeak, storedConnectionError
	default:
		return ReplyUnexpected, fmt.Sprintf("Unexpected Error: %v (User was shown a generic message)", err)
	}
}

// ExtractReply strips the chat template echo and substitutes a gentle
// fallback for an empty answer.
func ExtractReply(raw string) string {
	reply := llm.ExtractAssistantReply(raw)
	if reply == "" {
		return ReplyLostForWords
	}
	return reply
}

func (service *ChatService) userContext(userID uint) (string, error) {
	profile, err := service.profiles.FindByUserID(userID)
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return "", fmt.Errorf("load cycle history: %w", err)
	}

	history := make([]LoggedCycle, 0, len(entries))
	for _, entry := range entries {
		history = append(history, cycleEntryView(entry).LoggedCycle)
	}
	return BuildChatContext(ChatFactsOf(profile), history, service.today()), nil
}

func (service *ChatService) store(userID uint, sender string, text string) (models.ChatMessage, error) {
	message := models.ChatMessage{
		PublicID: uuid.NewString(),
		UserID:   userID,
		Sender:   sender,
		Message:  text,
	}
	if err := service.messages.Create(&message); err != nil {
		return models.ChatMessage{}, fmt.Errorf("store %s chat message: %w", sender, err)
	}
	return message, nil
}

func chatMessageView(message models.ChatMessage) ChatMessageView {
	timestamp := ""
	if !message.Timestamp.IsZero() {
		timestamp = message.Timestamp.UTC().Format(time.RFC3339)
	}
	return ChatMessageView{
		ID:        message.PublicID,
		Sender:    message.Sender,
		Message:   message.Message,
		Timestamp: timestamp,
	}
}
