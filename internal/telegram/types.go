package telegram

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"interview-runtime/internal/interviewer"
)

// Bot is a minimal Telegram Bot API client.
type Bot struct {
	token   string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// Update is one incoming update.
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is a chat message. Only text messages are handled.
type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// User is the sender of a message.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat is where replies go. Private chats share the user's id.
type Chat struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Type      string `json:"type"`
}

// SendMessageRequest is the sendMessage payload.
type SendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// GetUpdatesResponse wraps getUpdates. Description is set when OK is false.
type GetUpdatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description,omitempty"`
}

type SendMessageResponse struct {
	OK          bool     `json:"ok"`
	Result      *Message `json:"result,omitempty"`
	Description string   `json:"description,omitempty"`
}

// UserSession is the interview a Telegram user is taking.
type UserSession struct {
	UserID       int64
	ChatID       int64
	SessionID    string
	Interview    *interviewer.Session
	LastActivity time.Time
}
