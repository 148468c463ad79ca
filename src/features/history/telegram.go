package history

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles history commands from the Telegram bot.
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for history.
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// GetCommands returns the commands this handler responds to.
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"recent": "Show the latest moves, e.g. /recent 5",
		"totals": "Show how many files were moved per category",
	}
}

// HandleCommand dispatches one history command.
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command, args string) error {
	switch command {
	case "recent":
		return h.handleRecent(bot, chatID, args)
	case "totals":
		return h.handleTotals(bot, chatID)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (h *TelegramHandler) handleRecent(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	limit := 0
	if trimmed := strings.TrimSpace(args); trimmed != "" {
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return reply(bot, chatID, "Usage: /recent [count]")
		}
		limit = n
	}

	records, err := h.service.RecentMoves(context.Background(), limit)
	if err != nil {
		return reply(bot, chatID, "Could not load the move history.")
	}
	if len(records) == 0 {
		return reply(bot, chatID, "No moves recorded yet.")
	}

	var b strings.Builder
	b.WriteString("Latest moves:\n")
	for _, record := range records {
		fmt.Fprintf(&b, "%s  %s -> %s\n",
			record.MovedAt.Format("Jan 02 15:04"), record.FileName, record.Category)
	}
	return reply(bot, chatID, b.String())
}

func (h *TelegramHandler) handleTotals(bot *tgbotapi.BotAPI, chatID int64) error {
	counts, err := h.service.CategoryCounts(context.Background())
	if err != nil {
		return reply(bot, chatID, "Could not load the move history.")
	}
	if len(counts) == 0 {
		return reply(bot, chatID, "No moves recorded yet.")
	}

	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("Moves per category:\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "%s: %d\n", category, counts[category])
	}
	return reply(bot, chatID, b.String())
}

func reply(bot *tgbotapi.BotAPI, chatID int64, text string) error {
	_, err := bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
