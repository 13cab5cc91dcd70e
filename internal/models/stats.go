package models

import "time"

// CardStat tracks quiz accuracy for one card, keyed by word.
type CardStat struct {
	Word           string  `json:"word"`
	Meaning        string  `json:"meaning"`
	Answer         string  `json:"answer"`
	CorrectCount   int     `json:"correct_count"`
	IncorrectCount int     `json:"incorrect_count"`
	TotalAttempts  int     `json:"total_attempts"`
	Accuracy       float64 `json:"accuracy"`
}

// QuizResult is one entry in the quiz history log.
type QuizResult struct {
	Date       time.Time `json:"date"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	DeckSize   int       `json:"deck_size"`
}
