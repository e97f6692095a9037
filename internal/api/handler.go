// Package api serves the MyRitu JSON API over fiber.
package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/terraincognita07/myritu/internal/db"
	"github.com/terraincognita07/myritu/internal/llm"
	"github.com/terraincognita07/myritu/internal/services"
)

const defaultAuthTokenTTL = 7 * 24 * time.Hour

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	logger       *slog.Logger
	now          func() time.Time
	loginLimiter *attemptLimiter

	authService      *services.AuthService
	profileService   *services.ProfileService
	cycleLogService  *services.CycleLogService
	dashboardService *services.DashboardService
	calendarService  *services.CalendarService
	insightsService  *services.InsightsService
	chatService      *services.ChatService
}

type Options struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	Generator    llm.Generator
	Logger       *slog.Logger
}

func NewHandler(repositories *db.Repositories, options Options) (*Handler, error) {
	if repositories == nil {
		return nil, errors.New("repositories are required")
	}
	if len(options.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	location := options.Location
	if location == nil {
		location = time.UTC
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler := &Handler{
		secretKey:    []byte(options.SecretKey),
		location:     location,
		cookieSecure: options.CookieSecure,
		logger:       logger,
		now:          time.Now,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),

		authService:      services.NewAuthService(repositories.Users, db.IsUniqueViolation),
		profileService:   services.NewProfileService(repositories.Profiles),
		cycleLogService:  services.NewCycleLogService(repositories.Cycles),
		dashboardService: services.NewDashboardService(repositories.Profiles),
		calendarService:  services.NewCalendarService(repositories.Profiles, repositories.Cycles),
		insightsService:  services.NewInsightsService(repositories.Profiles, repositories.Cycles),
	}
	handler.chatService = services.NewChatService(repositories.Chat, repositories.Profiles, repositories.Cycles, options.Generator, handler.today, logger)
	return handler, nil
}

// today is the current calendar day in the configured zone.
func (handler *Handler) today() time.Time {
	return services.CalendarDay(handler.now().In(handler.location))
}
