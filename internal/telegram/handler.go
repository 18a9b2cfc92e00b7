package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"interview-runtime/internal/interviewer"
)

// maxMessageLength stays under the Telegram limit of 4096 characters.
const maxMessageLength = 4000

// Sender is the part of Bot the handler needs.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.RWMutex
	limit    int
	window   time.Duration
	clock    clock.PassiveClock
}

func NewRateLimiter(limit int, window time.Duration, c clock.PassiveClock) *RateLimiter {
	if c == nil {
		c = clock.RealClock{}
	}
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		clock:    c,
	}
}

func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.clock.Now()

	if requests, exists := rl.requests[userID]; exists {
		var valid []time.Time
		for _, t := range requests {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		rl.requests[userID] = valid
	}

	if len(rl.requests[userID]) >= rl.limit {
		return false
	}

	rl.requests[userID] = append(rl.requests[userID], now)
	return true
}

// HandlerConfig tunes the handler.
type HandlerConfig struct {
	DefaultSessionID string
	RateLimit        int
	RateWindow       time.Duration
	SessionTTL       time.Duration
	CleanupInterval  time.Duration
	RequestTimeout   time.Duration
}

type Handler struct {
	bot           Sender
	service       *interviewer.Service
	cfg           HandlerConfig
	sessions      map[int64]*UserSession
	sessionsMutex sync.RWMutex
	rateLimiter   *RateLimiter
	clock         clock.WithTicker
	log           *zap.Logger
}

func NewHandler(bot Sender, service *interviewer.Service, cfg HandlerConfig, c clock.WithTicker, log *zap.Logger) *Handler {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 30
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if c == nil {
		c = clock.RealClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		bot:         bot,
		service:     service,
		cfg:         cfg,
		sessions:    make(map[int64]*UserSession),
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.RateWindow, c),
		clock:       c,
		log:         log,
	}
}

// StartSessionCleanup drops sessions idle longer than the TTL until ctx is
// done.
func (h *Handler) StartSessionCleanup(ctx context.Context) {
	ticker := h.clock.NewTicker(h.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				h.cleanupInactiveSessions()
			}
		}
	}()
}

func (h *Handler) cleanupInactiveSessions() {
	h.sessionsMutex.Lock()
	defer h.sessionsMutex.Unlock()

	cutoff := h.clock.Now().Add(-h.cfg.SessionTTL)
	for uid, sess := range h.sessions {
		if sess.LastActivity.Before(cutoff) {
			sess.Interview.Close()
			delete(h.sessions, uid)
			h.log.Info("Removed inactive session", zap.Int64("user_id", uid), zap.String("session_id", sess.SessionID))
		}
	}
}

// Close closes every open session.
func (h *Handler) Close() {
	h.sessionsMutex.Lock()
	defer h.sessionsMutex.Unlock()
	for uid, sess := range h.sessions {
		sess.Interview.Close()
		delete(h.sessions, uid)
	}
}

func (h *Handler) HandleUpdate(update Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	if !h.rateLimiter.IsAllowed(userID) {
		h.send(chatID, "⏳ Too many messages. Please wait a minute.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.RequestTimeout)
	defer cancel()

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, chatID, userID, text)
		return
	}
	h.handleUserInput(ctx, chatID, userID, text)
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, text string) {
	command, arg, _ := strings.Cut(text, " ")
	// Commands may arrive as /start@botname in groups.
	command, _, _ = strings.Cut(strings.ToLower(command), "@")
	arg = strings.TrimSpace(arg)

	switch command {
	case "/start":
		h.handleStartCommand(ctx, chatID, userID, arg)
	case "/stop":
		h.handleStopCommand(chatID, userID)
	case "/help":
		h.send(chatID, interviewer.HelpText())
	default:
		session := h.getSession(userID)
		if session == nil {
			h.send(chatID, "No interview loaded. Use /start <session id> to begin.")
			return
		}
		h.send(chatID, session.Interview.Execute(ctx, command+" "+arg))
	}
}

func (h *Handler) handleStartCommand(ctx context.Context, chatID, userID int64, sessionID string) {
	if sessionID == "" {
		sessionID = h.cfg.DefaultSessionID
	}
	if sessionID == "" {
		h.send(chatID, "Usage: /start <session id>")
		return
	}

	interview, reply := h.service.Open(ctx, sessionID, strconv.FormatInt(userID, 10))

	h.sessionsMutex.Lock()
	if previous, exists := h.sessions[userID]; exists {
		previous.Interview.Close()
	}
	h.sessions[userID] = &UserSession{
		UserID:       userID,
		ChatID:       chatID,
		SessionID:    sessionID,
		Interview:    interview,
		LastActivity: h.clock.Now(),
	}
	h.sessionsMutex.Unlock()

	h.log.Info("Session opened", zap.Int64("user_id", userID), zap.String("session_id", sessionID))
	h.send(chatID, reply)
}

func (h *Handler) handleStopCommand(chatID, userID int64) {
	h.sessionsMutex.Lock()
	session, exists := h.sessions[userID]
	if exists {
		session.Interview.Close()
		delete(h.sessions, userID)
	}
	h.sessionsMutex.Unlock()

	if !exists {
		h.send(chatID, "There is no active interview.")
		return
	}
	h.send(chatID, "⏹ Interview closed. Use /start <session id> to load another one.")
}

func (h *Handler) handleUserInput(ctx context.Context, chatID, userID int64, text string) {
	session := h.getSession(userID)
	if session == nil {
		h.send(chatID, "No interview loaded. Use /start <session id> to begin.")
		return
	}
	h.send(chatID, session.Interview.Execute(ctx, text))
}

// getSession returns the user's session and refreshes its activity time.
func (h *Handler) getSession(userID int64) *UserSession {
	h.sessionsMutex.Lock()
	defer h.sessionsMutex.Unlock()

	session, exists := h.sessions[userID]
	if !exists {
		return nil
	}
	session.LastActivity = h.clock.Now()
	return session
}

// SessionCount returns the number of open sessions.
func (h *Handler) SessionCount() int {
	h.sessionsMutex.RLock()
	defer h.sessionsMutex.RUnlock()
	return len(h.sessions)
}

func (h *Handler) send(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageLength) {
		if err := h.bot.SendMessage(chatID, part); err != nil {
			h.log.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	}
}

// splitMessage cuts text into parts of at most limit bytes, preferring line
// breaks.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			// Do not split a multi-byte rune.
			for cut > 0 && !isRuneStart(text[cut]) {
				cut--
			}
		}
		parts = append(parts, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
