package monitoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles monitoring commands from the Telegram bot.
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for monitoring.
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// GetCommands returns the commands this handler responds to.
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"root":   "Select the folder to organize, e.g. /root /home/user/Downloads",
		"start":  "Start monitoring the selected folder",
		"stop":   "Stop monitoring",
		"sweep":  "Organize the existing files once",
		"status": "Show the current monitoring state",
	}
}

// HandleCommand dispatches one monitoring command.
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command, args string) error {
	switch command {
	case "root":
		return h.handleRoot(bot, chatID, args)
	case "start":
		return h.handleStart(bot, chatID)
	case "stop":
		return h.handleStop(bot, chatID)
	case "sweep":
		return h.handleSweep(bot, chatID)
	case "status":
		return h.handleStatus(bot, chatID)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (h *TelegramHandler) handleRoot(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		return reply(bot, chatID, "Usage: /root <folder path>")
	}
	if err := h.service.SelectRoot(path); err != nil {
		return reply(bot, chatID, fmt.Sprintf("Could not select folder: %v", err))
	}
	return reply(bot, chatID, fmt.Sprintf("Folder selected: %s", h.service.Status().Root))
}

func (h *TelegramHandler) handleStart(bot *tgbotapi.BotAPI, chatID int64) error {
	err := h.service.Start(context.Background())
	switch {
	case errors.Is(err, ErrNoRootSelected):
		return reply(bot, chatID, "No folder selected. Use /root first.")
	case errors.Is(err, ErrAlreadyRunning):
		return reply(bot, chatID, "Monitoring is already running.")
	case err != nil:
		return reply(bot, chatID, fmt.Sprintf("Could not start monitoring: %v", err))
	}
	return reply(bot, chatID, "Monitoring started.")
}

func (h *TelegramHandler) handleStop(bot *tgbotapi.BotAPI, chatID int64) error {
	err := h.service.Stop()
	switch {
	case errors.Is(err, ErrNotRunning):
		return reply(bot, chatID, "No monitoring to stop.")
	case err != nil:
		return reply(bot, chatID, fmt.Sprintf("Could not stop monitoring: %v", err))
	}
	return reply(bot, chatID, "Monitoring stopped.")
}

func (h *TelegramHandler) handleSweep(bot *tgbotapi.BotAPI, chatID int64) error {
	stats, err := h.service.Sweep(context.Background())
	switch {
	case errors.Is(err, ErrNoRootSelected):
		return reply(bot, chatID, "No folder selected. Use /root first.")
	case errors.Is(err, ErrAlreadyRunning):
		return reply(bot, chatID, "Monitoring is already running; it organizes new files as they appear.")
	case err != nil:
		return reply(bot, chatID, fmt.Sprintf("Sweep failed: %v", err))
	}
	return reply(bot, chatID, fmt.Sprintf("Sweep done: %d moved, %d skipped, %d errors.",
		stats.Moved, stats.Skipped, stats.Errors))
}

func (h *TelegramHandler) handleStatus(bot *tgbotapi.BotAPI, chatID int64) error {
	status := h.service.Status()
	if status.Root == "" {
		return reply(bot, chatID, "No folder selected.")
	}
	state := "idle"
	if status.Running {
		state = fmt.Sprintf("monitoring since %s", status.StartedAt.Format("15:04:05"))
	}
	return reply(bot, chatID, fmt.Sprintf("Folder: %s\nState: %s", status.Root, state))
}

func reply(bot *tgbotapi.BotAPI, chatID int64, text string) error {
	_, err := bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
