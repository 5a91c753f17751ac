package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	data := `[
		{"text": "2+2?", "options": ["3", "4"], "correct": 1},
		{"text": "capital of France?", "options": ["Paris", "Lyon", "Nice"], "correct": 0}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	questions, err := LoadQuestions(path)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "2+2?", questions[0].Text)
	assert.Equal(t, 1, questions[0].Correct)
	assert.Equal(t, []string{"Paris", "Lyon", "Nice"}, questions[1].Options)
}

func TestLoadQuestionsMissingFile(t *testing.T) {
	_, err := LoadQuestions(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadQuestionsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadQuestions(path)
	assert.Error(t, err)
}

func TestValidateQuestions(t *testing.T) {
	cases := []struct {
		name      string
		questions []Question
	}{
		{"empty bank", nil},
		{"empty text", []Question{{Options: []string{"a", "b"}}}},
		{"one option", []Question{{Text: "q", Options: []string{"a"}}}},
		{"correct out of range", []Question{{Text: "q", Options: []string{"a", "b"}, Correct: 2}}},
		{"negative correct", []Question{{Text: "q", Options: []string{"a", "b"}, Correct: -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ValidateQuestions(tc.questions))
		})
	}
}

func TestDefaultQuestionsValid(t *testing.T) {
	questions := DefaultQuestions()
	assert.Len(t, questions, 10)
	assert.NoError(t, ValidateQuestions(questions))
}
