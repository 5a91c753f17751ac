package telegram

import (
	"fmt"
	"strings"

	"github.com/vovavang1094/kinokviz-bot/internal/game"
)

func formatPlayers(info *game.GameInfo, userID int64, maxPlayers int) string {
	var b strings.Builder
	b.WriteString("👥 *Игроки в вашей игре:*\n\n")

	for i, p := range info.Players {
		fmt.Fprintf(&b, "%d. %s", i+1, p.Name)
		if p.ID == userID {
			b.WriteString(" 👈 (Вы)")
		}
		if p.Answered {
			b.WriteString(" ✅")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nВсего: %d/%d игроков", info.PlayerCount, maxPlayers)

	switch info.Status {
	case game.GameStatusFinished:
		b.WriteString("\n\n🏁 *Игра завершена!*\nИспользуйте /mygame для результатов")
	case game.GameStatusActive:
		fmt.Fprintf(&b, "\n\n🎮 *Игра идет!*\nВопрос: %d/%d", info.CurrentQuestion+1, info.TotalQuestions)
	default:
		b.WriteString("\n\n⏳ Ожидание начала...")
	}

	return b.String()
}

func formatGameInfo(info *game.GameInfo, maxPlayers int) string {
	var b strings.Builder
	b.WriteString("🎮 *Информация об игре:*\n\n")
	fmt.Fprintf(&b, "🔑 *Код:* `%s`\n", info.Code)
	fmt.Fprintf(&b, "👑 *Создатель:* %s\n", info.CreatorName)
	fmt.Fprintf(&b, "👥 *Игроков:* %d/%d\n", info.PlayerCount, maxPlayers)

	switch info.Status {
	case game.GameStatusFinished:
		b.WriteString("🏁 *Статус:* Завершена\n")
	case game.GameStatusActive:
		b.WriteString("▶️ *Статус:* Идет\n")
		fmt.Fprintf(&b, "📝 *Вопрос:* %d/%d\n", info.CurrentQuestion+1, info.TotalQuestions)
		fmt.Fprintf(&b, "✅ *Ответили:* %d/%d\n", info.AnsweredCount, info.PlayerCount)
	default:
		b.WriteString("⏳ *Статус:* Ожидание начала\n")
	}

	return b.String()
}

// formatResults renders the podium. limit bounds how many rows are shown;
// the first three get medals.
func formatResults(results []game.PlayerResult, limit int) string {
	var b strings.Builder
	b.WriteString("🏆 *Результаты игры:*\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, r := range results {
		if i >= limit {
			break
		}
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		fmt.Fprintf(&b, "%s *%s* - %d/%d\n", prefix, r.Name, r.Score, r.Total)
	}

	return b.String()
}
