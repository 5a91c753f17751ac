package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovavang1094/kinokviz-bot/internal/game"
	"github.com/vovavang1094/kinokviz-bot/internal/models"

	"gorm.io/gorm"
)

// HistoryService archives finished games so players can browse past results.
// It is optional: callers must tolerate a nil service.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// RecordGame persists the final leaderboard of a finished game. Places follow
// the order of results, which the registry already sorted.
func (s *HistoryService) RecordGame(code string, totalQuestions int, results []game.PlayerResult) error {
	if len(results) == 0 {
		return errors.New("no results to record")
	}

	record := models.GameRecord{
		Code:           code,
		TotalQuestions: totalQuestions,
		PlayerCount:    len(results),
		FinishedAt:     time.Now(),
	}
	for i, r := range results {
		record.Results = append(record.Results, models.ResultRecord{
			UserID:   r.UserID,
			Nickname: r.Name,
			Score:    r.Score,
			Place:    i + 1,
		})
	}

	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("record game %s: %w", code, err)
	}
	return nil
}

// PlayerHistory returns the player's most recent finished games, newest
// first.
func (s *HistoryService) PlayerHistory(userID int64, limit int) ([]PlayerHistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []models.ResultRecord
	if err := s.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]PlayerHistoryEntry, 0, len(rows))
	for _, row := range rows {
		var record models.GameRecord
		if err := s.db.First(&record, row.GameRecordID).Error; err != nil {
			continue
		}
		entries = append(entries, PlayerHistoryEntry{
			Code:           record.Code,
			Score:          row.Score,
			TotalQuestions: record.TotalQuestions,
			Place:          row.Place,
			PlayerCount:    record.PlayerCount,
			FinishedAt:     record.FinishedAt,
		})
	}
	return entries, nil
}

type PlayerHistoryEntry struct {
	Code           string    `json:"code"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Place          int       `json:"place"`
	PlayerCount    int       `json:"player_count"`
	FinishedAt     time.Time `json:"finished_at"`
}
