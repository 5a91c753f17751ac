package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// Question is one entry of the static question bank. The bank is consumed by
// the game core, never produced by it.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// LoadQuestions reads a question bank from a JSON file and validates it.
func LoadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question bank is empty")
	}
	for i, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("question %d: empty text", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d: needs at least 2 options", i)
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("question %d: correct index %d out of range", i, q.Correct)
		}
	}
	return nil
}

// DefaultQuestions is the built-in movie quiz used when no bank file is
// configured.
func DefaultQuestions() []Question {
	return []Question{
		{
			Text:    "Кто снял фильм «Криминальное чтиво»?",
			Options: []string{"Мартин Скорсезе", "Квентин Тарантино", "Дэвид Финчер", "Гай Ричи"},
			Correct: 1,
		},
		{
			Text:    "В каком году вышел первый фильм «Звёздные войны»?",
			Options: []string{"1975", "1977", "1980", "1983"},
			Correct: 1,
		},
		{
			Text:    "Кто сыграл Нео в «Матрице»?",
			Options: []string{"Брэд Питт", "Том Круз", "Киану Ривз", "Уилл Смит"},
			Correct: 2,
		},
		{
			Text:    "Какой фильм получил «Оскар» за лучший фильм в 2020 году?",
			Options: []string{"1917", "Джокер", "Паразиты", "Однажды в Голливуде"},
			Correct: 2,
		},
		{
			Text:    "Как зовут капитана «Чёрной жемчужины»?",
			Options: []string{"Джек Воробей", "Уилл Тёрнер", "Гектор Барбосса", "Дэйви Джонс"},
			Correct: 0,
		},
		{
			Text:    "Кто сыграл Джокера в «Тёмном рыцаре»?",
			Options: []string{"Хоакин Феникс", "Джаред Лето", "Хит Леджер", "Джек Николсон"},
			Correct: 2,
		},
		{
			Text:    "Сколько частей в трилогии «Властелин колец»?",
			Options: []string{"2", "3", "4", "6"},
			Correct: 1,
		},
		{
			Text:    "Кто режиссёр фильма «Начало»?",
			Options: []string{"Кристофер Нолан", "Ридли Скотт", "Джеймс Кэмерон", "Дени Вильнёв"},
			Correct: 0,
		},
		{
			Text:    "В каком городе происходит действие фильма «Брат»?",
			Options: []string{"Москва", "Санкт-Петербург", "Екатеринбург", "Новосибирск"},
			Correct: 1,
		},
		{
			Text:    "Какая студия выпустила мультфильм «История игрушек»?",
			Options: []string{"DreamWorks", "Pixar", "Illumination", "Studio Ghibli"},
			Correct: 1,
		},
	}
}
