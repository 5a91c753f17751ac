package telegram

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/vovavang1094/kinokviz-bot/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.games.Sweep()

	// Deep link: /start CODE joins straight away.
	if code := strings.TrimSpace(msg.CommandArguments()); code != "" {
		b.joinByCode(msg, game.NormalizeCode(code))
		return
	}

	b.send(msg.Chat.ID,
		"🎬 *Добро пожаловать в Кино-Квиз!*\n\n"+
			"Сыграйте в викторину по фильмам с друзьями.\n\n"+
			"✨ *Как играть:*\n"+
			"1. Создайте игру командой /game\n"+
			"2. Пригласите до 5 друзей по коду\n"+
			"3. Отвечайте на вопросы о кино\n"+
			"4. Соревнуйтесь за первое место!")
}

func (b *Bot) handleCreate(msg *tgbotapi.Message) {
	userID := msg.From.ID
	name := displayName(msg.From)

	info, err := b.games.CreateGame(userID, name)
	if err != nil {
		if errors.Is(err, game.ErrAlreadyInGame) {
			b.send(msg.Chat.ID, "❌ Вы уже в игре. Сначала выйдите: /leave")
			return
		}
		b.send(msg.Chat.ID, "❌ Не удалось создать игру, попробуйте позже")
		return
	}

	b.send(msg.Chat.ID, fmt.Sprintf(
		"🎮 *Игра создана!*\n\n"+
			"🔑 *Код игры:* `%s`\n"+
			"👥 *Игроков:* 1/%d\n\n"+
			"*Отправьте этот код друзьям:*\n"+
			"`/join %s`\n\n"+
			"*Или поделитесь ссылкой:*\n"+
			"`https://t.me/%s?start=%s`",
		info.Code, b.maxPlayers(), info.Code, b.api.Self.UserName, info.Code))
}

func (b *Bot) handleJoin(msg *tgbotapi.Message) {
	code := strings.TrimSpace(msg.CommandArguments())
	if code == "" {
		b.send(msg.Chat.ID, "❌ *Используйте:* `/join КОД_ИГРЫ`")
		return
	}
	b.joinByCode(msg, game.NormalizeCode(code))
}

func (b *Bot) joinByCode(msg *tgbotapi.Message, code string) {
	userID := msg.From.ID
	name := displayName(msg.From)

	info, err := b.games.JoinGame(code, userID, name)
	if err != nil {
		b.send(msg.Chat.ID,
			"❌ *Не удалось присоединиться*\n\n"+
				"Возможные причины:\n"+
				"• Игра не найдена\n"+
				"• Игра уже началась\n"+
				"• Достигнут лимит игроков\n"+
				"• Вы уже в игре")
		return
	}

	// The creator hears about every join; the core only reports who to tell.
	b.notify(info.CreatorID, fmt.Sprintf(
		"👤 *Новый игрок!*\n`%s` присоединился к игре `%s`\nВсего игроков: %d/%d",
		name, info.Code, info.PlayerCount, b.maxPlayers()))

	b.send(msg.Chat.ID, fmt.Sprintf(
		"✅ *Вы присоединились!*\n\n"+
			"🎮 *Код игры:* `%s`\n"+
			"👥 *Игроков:* %d/%d\n"+
			"👑 *Создатель:* %s\n\n"+
			"Ожидайте начала игры...",
		info.Code, info.PlayerCount, b.maxPlayers(), info.CreatorName))
}

func (b *Bot) handlePlayers(msg *tgbotapi.Message) {
	userID := msg.From.ID

	code, ok := b.games.CurrentGameCode(userID)
	if !ok {
		b.send(msg.Chat.ID,
			"ℹ️ *Вы не в игре*\n\nСоздайте игру командой `/game`\nИли присоединитесь командой `/join КОД`")
		return
	}

	info, err := b.games.Info(code)
	if err != nil {
		b.send(msg.Chat.ID, "❌ Игра не найдена")
		return
	}

	b.send(msg.Chat.ID, formatPlayers(info, userID, b.maxPlayers()))
}

func (b *Bot) handleMyGame(msg *tgbotapi.Message) {
	userID := msg.From.ID

	code, ok := b.games.CurrentGameCode(userID)
	if !ok {
		b.send(msg.Chat.ID, "ℹ️ Вы не участвуете в игре")
		return
	}

	info, err := b.games.Info(code)
	if err != nil {
		b.send(msg.Chat.ID, "❌ Игра не найдена")
		return
	}

	text := formatGameInfo(info, b.maxPlayers())

	// A finished game shows its podium and is torn down once everyone has
	// seen the results.
	if info.Status == game.GameStatusFinished {
		results, err := b.games.Results(code)
		if err == nil {
			text += "\n" + formatResults(results, 3)
			b.finishGame(code, results)
		}
	}

	b.send(msg.Chat.ID, text)
}

func (b *Bot) handleLeave(msg *tgbotapi.Message) {
	res, err := b.games.LeaveGame(msg.From.ID)
	if err != nil {
		b.send(msg.Chat.ID, "ℹ️ Вы не в игре")
		return
	}

	b.send(msg.Chat.ID, "👋 Вы вышли из игры")

	if !res.GameEnded && res.CreatorID != msg.From.ID {
		b.notify(res.CreatorID, fmt.Sprintf("👋 Игрок %s покинул игру `%s`", res.PlayerName, res.Code))
	}
}

func (b *Bot) handleHistory(msg *tgbotapi.Message) {
	if b.history == nil {
		b.send(msg.Chat.ID, "ℹ️ История игр не ведётся")
		return
	}

	entries, err := b.history.PlayerHistory(msg.From.ID, 10)
	if err != nil || len(entries) == 0 {
		b.send(msg.Chat.ID, "📊 У вас пока нет завершённых игр")
		return
	}

	text := "📊 *Ваши последние игры:*\n\n"
	for _, e := range entries {
		text += fmt.Sprintf("• `%s` — %d/%d, место %d из %d\n",
			e.Code, e.Score, e.TotalQuestions, e.Place, e.PlayerCount)
	}
	b.send(msg.Chat.ID, text)
}

func (b *Bot) handleCleanup(msg *tgbotapi.Message) {
	removed := b.games.Sweep()
	b.send(msg.Chat.ID, fmt.Sprintf(
		"🧹 *Очистка завершена*\n\nУдалено игр: %d\nОсталось игр: %d",
		removed, b.games.GameCount()))
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.send(msg.Chat.ID,
		"📚 *Справка по командам:*\n\n"+
			"• `/start` - Начать работу с ботом\n"+
			"• `/game` - Создать игру\n"+
			"• `/join КОД` - Присоединиться к игре\n"+
			"• `/players` - Игроки в вашей игре\n"+
			"• `/mygame` - Ваша текущая игра\n"+
			"• `/leave` - Выйти из игры\n"+
			"• `/history` - Прошлые игры\n"+
			"• `/help` - Эта справка\n\n"+
			"🎯 *Правила:*\n"+
			"• Максимум 6 игроков, минимум 2 для старта\n"+
			"• За правильный ответ - 1 балл\n"+
			"• Игра ждёт всех игроков перед следующим вопросом\n"+
			"• Побеждает игрок с наибольшим счётом")
}

// handleText picks up bare 6-character codes pasted into the chat.
func (b *Bot) handleText(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	if len(text) == 6 && isAlphanumeric(text) {
		code := game.NormalizeCode(text)
		b.send(msg.Chat.ID, fmt.Sprintf(
			"🔍 *Найден код игры:* `%s`\n\nХотите присоединиться?\nИспользуйте команду: `/join %s`",
			code, code))
		return
	}

	b.send(msg.Chat.ID,
		"🎬 *Кино-Квиз Бот*\n\nИспользуйте команду /start для начала игры\nИли /help для справки")
}

// finishGame archives the results, tells every player how it went and frees
// the session.
func (b *Bot) finishGame(code string, results []game.PlayerResult) {
	info, err := b.games.Info(code)
	if err != nil {
		return
	}

	if b.history != nil {
		if err := b.history.RecordGame(code, b.games.TotalQuestions(), results); err != nil {
			log.Printf("bot: history: %v", err)
		}
	}

	text := formatResults(results, len(results))
	for _, p := range info.Players {
		b.notify(p.ID, text)
	}

	b.games.EndGame(code)
}

func (b *Bot) maxPlayers() int {
	return b.games.MaxPlayers()
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
