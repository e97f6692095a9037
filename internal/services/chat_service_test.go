package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/myritu/internal/llm"
	"github.com/terraincognita07/myritu/internal/models"
)

func newTestChatService(generator llm.Generator) (*ChatService, *stubChatRepo) {
	messages := &stubChatRepo{}
	profiles := &stubProfileRepo{profile: models.Profile{FullName: "Riya", AvgCycleLength: 28, AvgPeriodLength: 5}}
	entries := &stubCycleEntryRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChatService(messages, profiles, entries, generator, nil, logger), messages
}

func TestChatServiceSendStoresBothTurns(t *testing.T) {
	t.Parallel()

	generator := &stubGenerator{reply: "<|assistant|>\n  Warm tea can ease cramps, dear.  "}
	service, messages := newTestChatService(generator)

	exchange, err := service.Send(context.Background(), 1, "  Any tips for cramps?  ")
	require.NoError(t, err)

	assert.Equal(t, "Any tips for cramps?", exchange.UserMessage.Message)
	assert.Equal(t, models.SenderUser, exchange.UserMessage.Sender)
	assert.Equal(t, "Warm tea can ease cramps, dear.", exchange.Reply.Message)
	assert.Equal(t, models.SenderBot, exchange.Reply.Sender)

	require.Len(t, messages.messages, 2)
	assert.Equal(t, "Warm tea can ease cramps, dear.", messages.messages[1].Message)

	require.Len(t, generator.prompts, 1)
	assert.Equal(t, "Any tips for cramps?", generator.prompts[0].Question)
	assert.Contains(t, generator.prompts[0].Context, "- Name: Riya\n")
	assert.Contains(t, generator.prompts[0].System, "MyRitu")
}

func TestChatServiceSendMapsGenerationFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		err        error
		reply      string
		wantShown  string
		wantStored string
	}{
		{
			name:       "connection",
			err:        fmt.Errorf("%w: status 503", llm.ErrTransient),
			wantShown:  ReplyConnectionWeak,
			wantStored: "API Connection Error (User was shown a generic message)",
		},
		{
			name:       "upstream rejection",
			err:        fmt.Errorf("%w: status 401", llm.ErrUpstream),
			wantShown:  ReplyConnectionWeak,
			wantStored: "API Connection Error (User was shown a generic message)",
		},
		{
			name:       "unreadable reply",
			err:        fmt.Errorf("%w: no generated_text", llm.ErrInvalidResponse),
			wantShown:  ReplyTroubleGathering,
			wantStored: ReplyTroubleGathering,
		},
		{
			name:       "blocked",
			err:        llm.ErrContentBlocked,
			wantShown:  ReplyLostForWords,
			wantStored: ReplyLostForWords,
		},
		{
			name:       "empty reply",
			reply:      "<|assistant|>   ",
			wantShown:  ReplyLostForWords,
			wantStored: ReplyLostForWords,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantShown:  ReplyUnexpected,
			wantStored: "Unexpected Error: boom (User was shown a generic message)",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, messages := newTestChatService(&stubGenerator{reply: testCase.reply, err: testCase.err})

			exchange, err := service.Send(context.Background(), 1, "hello")
			require.NoError(t, err)
			assert.Equal(t, testCase.wantShown, exchange.Reply.Message)
			require.Len(t, messages.messages, 2)
			assert.Equal(t, testCase.wantStored, messages.messages[1].Message)
		})
	}
}

func TestChatServiceSendRejectsBadInput(t *testing.T) {
	t.Parallel()

	unavailable, _ := newTestChatService(nil)
	_, err := unavailable.Send(context.Background(), 1, "hello")
	assert.ErrorIs(t, err, ErrChatUnavailable)
	assert.False(t, unavailable.Available())

	service, messages := newTestChatService(&stubGenerator{reply: "hi"})
	_, err = service.Send(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyChatMessage)

	_, err = service.Send(context.Background(), 1, strings.Repeat("a", MaxChatMessageRune+1))
	assert.ErrorIs(t, err, ErrChatMessageLong)
	assert.Empty(t, messages.messages)
}

func TestChatServiceHistory(t *testing.T) {
	t.Parallel()

	service, _ := newTestChatService(&stubGenerator{reply: "Hello, dear."})
	_, err := service.Send(context.Background(), 2, "hi")
	require.NoError(t, err)

	history, err := service.History(2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.SenderUser, history[0].Sender)
	assert.Equal(t, "Hello, dear.", history[1].Message)
	assert.Equal(t, "2024-01-01T12:00:01Z", history[1].Timestamp)

	other, err := service.History(3)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestChatServiceContextUsesInjectedDay(t *testing.T) {
	t.Parallel()

	generator := &stubGenerator{reply: "<|assistant|> Hello"}
	profiles := &stubProfileRepo{profile: models.Profile{BirthDate: "1994-01-21", AvgCycleLength: 28, AvgPeriodLength: 5}}
	today := func() time.Time { return time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC) }
	service := NewChatService(&stubChatRepo{}, profiles, &stubCycleEntryRepo{}, generator, today, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Send(context.Background(), 1, "hi")
	require.NoError(t, err)
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0].Context, "- Age: 30 years old.")
}
