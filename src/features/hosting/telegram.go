package hosting

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tidyfold/src/features/config"
	"tidyfold/src/features/history"
	"tidyfold/src/features/monitoring"
	"tidyfold/src/sorting"
)

// TelegramCommandHandler interface that each feature implements
type TelegramCommandHandler interface {
	HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error
	GetCommands() map[string]string // Returns command -> description mapping
}

// TelegramBot handles Telegram bot operations
type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	config   *config.Manager
	handlers map[string]TelegramCommandHandler
	commands map[string]string // command -> feature
	updates  tgbotapi.UpdatesChannel
	stopChan chan struct{}

	mu          sync.Mutex
	subscribers map[int64]bool
}

// NewTelegramBot creates a new Telegram bot instance
func NewTelegramBot(cfg *config.Manager, monitoringService *monitoring.Service, historyService *history.Service) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram bot is disabled in configuration")
	}

	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	telegramBot := &TelegramBot{
		bot:         bot,
		config:      cfg,
		handlers:    make(map[string]TelegramCommandHandler),
		commands:    make(map[string]string),
		updates:     bot.GetUpdatesChan(updateConfig),
		stopChan:    make(chan struct{}),
		subscribers: make(map[int64]bool),
	}

	telegramBot.RegisterHandler("monitoring", monitoring.NewTelegramHandler(monitoringService))
	telegramBot.RegisterHandler("history", history.NewTelegramHandler(historyService))

	return telegramBot, nil
}

// RegisterHandler registers a feature's command handler
func (t *TelegramBot) RegisterHandler(feature string, handler TelegramCommandHandler) {
	t.handlers[feature] = handler
	for command := range handler.GetCommands() {
		t.commands[command] = feature
	}
	slog.Debug("Registered Telegram handler", "feature", feature)
}

// Start begins listening for Telegram updates
func (t *TelegramBot) Start() {
	slog.Info("Starting Telegram bot listener")

	for {
		select {
		case update := <-t.updates:
			if update.Message != nil {
				go t.handleMessage(update)
			}
		case <-t.stopChan:
			slog.Info("Stopping Telegram bot listener")
			return
		}
	}
}

// Stop gracefully stops the bot
func (t *TelegramBot) Stop() {
	close(t.stopChan)
}

// NotifyMove pushes a move notification to the subscribed chats.
func (t *TelegramBot) NotifyMove(event sorting.MoveEvent) {
	if !t.config.Get().Telegram.NotifyMoves {
		return
	}

	t.mu.Lock()
	chats := make([]int64, 0, len(t.subscribers))
	for chatID, on := range t.subscribers {
		if on {
			chats = append(chats, chatID)
		}
	}
	t.mu.Unlock()

	for _, chatID := range chats {
		t.sendMessage(chatID, fmt.Sprintf("Moved: %s -> %s", event.FileName, event.Category))
	}
}

// handleMessage processes incoming messages
func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	allowedUsers := t.config.Get().Telegram.AllowedUsers
	if len(allowedUsers) == 0 {
		slog.Warn("No allowed users configured", "chat_id", chatID)
		t.sendMessage(chatID, "Access denied: No users configured. Please add users to the config.")
		return
	}

	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
		if message.From.LastName != "" {
			username += " " + message.From.LastName
		}
	}
	if !slices.Contains(allowedUsers, username) {
		slog.Warn("Unauthorized user", "username", username, "chat_id", chatID)
		t.sendMessage(chatID, "Unknown user, please add your user to the config")
		return
	}

	if message.IsCommand() {
		t.handleCommand(update)
		return
	}

	t.sendMessage(chatID, "Send /help to see available commands")
}

// handleCommand processes bot commands
func (t *TelegramBot) handleCommand(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID
	command := message.Command()
	args := message.CommandArguments()

	slog.Debug("Processing command", "command", command, "args", args, "chat_id", chatID)

	switch command {
	case "help":
		t.handleHelp(chatID)
	case "notify":
		t.handleNotify(chatID, args)
	default:
		if err := t.routeCommand(command, args, chatID); err != nil {
			slog.Error("Failed to handle command", "command", command, "error", err)
			t.sendMessage(chatID, "Failed to process command")
		}
	}
}

// routeCommand routes commands to the appropriate feature handler
func (t *TelegramBot) routeCommand(command, args string, chatID int64) error {
	feature, exists := t.commands[command]
	if !exists {
		t.sendMessage(chatID, "Unknown command. Send /help to see available commands.")
		return nil
	}
	return t.handlers[feature].HandleCommand(t.bot, chatID, command, args)
}

// handleNotify toggles move notifications for this chat.
func (t *TelegramBot) handleNotify(chatID int64, args string) {
	switch strings.TrimSpace(args) {
	case "on":
		t.mu.Lock()
		t.subscribers[chatID] = true
		t.mu.Unlock()
		t.sendMessage(chatID, "Move notifications enabled for this chat.")
	case "off":
		t.mu.Lock()
		delete(t.subscribers, chatID)
		t.mu.Unlock()
		t.sendMessage(chatID, "Move notifications disabled for this chat.")
	default:
		t.sendMessage(chatID, "Usage: /notify on|off")
	}
}

// handleHelp lists all registered commands.
func (t *TelegramBot) handleHelp(chatID int64) {
	type entry struct{ command, description string }
	entries := []entry{{"notify", "Toggle move notifications, e.g. /notify on"}}
	for _, handler := range t.handlers {
		for command, description := range handler.GetCommands() {
			entries = append(entries, entry{command, description})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].command < entries[j].command })

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "/%s - %s\n", e.command, e.description)
	}
	t.sendMessage(chatID, b.String())
}

// sendMessage sends a message to the specified chat
func (t *TelegramBot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}
