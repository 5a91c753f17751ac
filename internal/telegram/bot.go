package telegram

import (
	"log"

	"github.com/vovavang1094/kinokviz-bot/internal/game"
	"github.com/vovavang1094/kinokviz-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the chat transport: it turns commands into registry operations and
// renders the structured outcomes back into messages. No game rules live
// here.
type Bot struct {
	api     *tgbotapi.BotAPI
	games   *game.Registry
	history *services.HistoryService
}

func NewBot(token string, games *game.Registry, history *services.HistoryService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, games: games, history: history}, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	log.Printf("bot: started as @%s", b.api.Self.UserName)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		msg := update.Message

		switch msg.Command() {
		case "start":
			b.handleStart(msg)
		case "game":
			b.handleCreate(msg)
		case "join":
			b.handleJoin(msg)
		case "players":
			b.handlePlayers(msg)
		case "mygame":
			b.handleMyGame(msg)
		case "leave":
			b.handleLeave(msg)
		case "history":
			b.handleHistory(msg)
		case "cleanup":
			b.handleCleanup(msg)
		case "help":
			b.handleHelp(msg)
		default:
			b.handleText(msg)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("bot: send to %d failed: %v", chatID, err)
	}
}

// notify delivers to a user's private chat; failures are logged and ignored,
// a player with a blocked bot must not break the game.
func (b *Bot) notify(userID int64, text string) {
	b.send(userID, text)
}
