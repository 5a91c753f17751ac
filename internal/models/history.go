package models

import "time"

// GameRecord is the persisted trace of a finished game. Live session state
// stays in memory; only final results are written out.
type GameRecord struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"size:6;index" json:"code"`
	TotalQuestions int            `gorm:"not null" json:"total_questions"`
	PlayerCount    int            `gorm:"not null" json:"player_count"`
	FinishedAt     time.Time      `json:"finished_at"`
	Results        []ResultRecord `gorm:"foreignKey:GameRecordID" json:"results,omitempty"`
}

type ResultRecord struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	GameRecordID uint   `gorm:"not null;index" json:"game_record_id"`
	UserID       int64  `gorm:"not null;index" json:"user_id"`
	Nickname     string `gorm:"size:100;not null" json:"nickname"`
	Score        int    `gorm:"not null" json:"score"`
	Place        int    `gorm:"not null" json:"place"`
}
