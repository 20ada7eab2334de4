// Command bot is the Telegram front end. It forwards user questions to
// the HTTP API over long polling and keeps a per-user session map so each
// chat continues its own conversation. All assistant state lives behind
// the API; the bot is a thin client.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/volleykb/assistant/backend/internal/log"
)

const (
	welcomeMessage = "Привет! 👋\n\n" +
		"Я AI-ассистент для принятия решений в волейболе.\n" +
		"Задавайте мне вопросы на русском или английском языке.\n\n" +
		"Я отвечаю только на основе предоставленной базы знаний.\n\n" +
		"Начните с вопроса!"

	helpMessage = "📚 Помощь\n\n" +
		"Я AI-ассистент для принятия решений в волейболе.\n\n" +
		"Команды:\n" +
		"/start - Начать работу\n" +
		"/help - Показать эту справку\n\n" +
		"Просто задайте мне вопрос на русском или английском языке. " +
		"Я отвечу на основе предоставленной базы знаний.\n\n" +
		"Важно: я отвечаю только на основе знаний из базы данных. " +
		"Если информации нет в базе, я сообщу об этом."

	apiErrorMessage = "Извините, произошла ошибка при обработке вашего вопроса. " +
		"Пожалуйста, попробуйте еще раз через несколько секунд."

	lowConfidenceWarning = "\n\n⚠️ Низкая уверенность в ответе. Проверьте информацию в базе знаний."
)

type askRequest struct {
	UserID    string `json:"user_id,omitempty"`
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type askResponse struct {
	Answer     string  `json:"answer"`
	SessionID  string  `json:"session_id"`
	Confidence float64 `json:"confidence"`
}

// bot glues the Telegram API to the assistant backend.
type bot struct {
	api    *tgbotapi.BotAPI
	apiURL string
	client *http.Client
	logger log.Logger

	mu       sync.Mutex
	sessions map[int64]string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(log.Config{})

	if err := godotenv.Load(); err != nil {
		logger.Warn("failed to load .env file, continuing with system environment", "error", err)
	}

	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if token == "" {
		logger.Error("TELEGRAM_BOT_TOKEN is required")
		os.Exit(1)
	}

	apiURL := strings.TrimSpace(os.Getenv("API_URL"))
	if apiURL == "" {
		apiURL = "http://localhost:8000/ask"
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("failed to create telegram bot", "error", err)
		os.Exit(1)
	}

	b := &bot{
		api:      api,
		apiURL:   apiURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
		sessions: make(map[int64]string),
	}

	logger.Info("telegram bot started", "username", api.Self.UserName, "api_url", apiURL)
	b.run(ctx)
}

func (b *bot) run(ctx context.Context) {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, welcomeMessage)
		return
	case "help":
		b.reply(msg.Chat.ID, helpMessage)
		return
	}

	question := strings.TrimSpace(msg.Text)
	if question == "" {
		return
	}

	// Typing indicator while the pipeline runs.
	_, _ = b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping))

	userID := msg.From.ID
	b.logger.Info("question received", "user_id", userID)

	result, err := b.ask(ctx, userID, question)
	if err != nil {
		b.logger.Error("api request failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, apiErrorMessage)
		return
	}

	b.mu.Lock()
	b.sessions[userID] = result.SessionID
	b.mu.Unlock()

	answer := result.Answer
	if result.Confidence < 0.5 {
		answer += lowConfidenceWarning
	}
	b.reply(msg.Chat.ID, answer)
	b.logger.Info("answer sent", "user_id", userID, "confidence", result.Confidence)
}

func (b *bot) ask(ctx context.Context, userID int64, question string) (*askResponse, error) {
	b.mu.Lock()
	sessionID := b.sessions[userID]
	b.mu.Unlock()

	payload, err := json.Marshal(askRequest{
		UserID:    fmt.Sprintf("%d", userID),
		Question:  question,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned %s", resp.Status)
	}

	var result askResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
