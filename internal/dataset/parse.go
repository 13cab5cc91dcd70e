package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
)

// Expected column order: id, word, meaning, answer, tag, sentence example,
// sentence meaning. Only the first four are required.
const minFields = 4

// ParseCSV parses dataset rows from CSV text. The first row is treated as a
// header. Rows with fewer than four populated fields or a non-numeric id are
// dropped and logged; they never abort the batch.
func ParseCSV(text string) []models.Card {
	log := logger.Default().WithPrefix("dataset")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cards []models.Card
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line++
			log.Warn("dropping malformed row %d: %v", line, err)
			continue
		}
		line++
		if line == 1 {
			continue // header
		}
		if card, ok := cardFromRow(record); ok {
			cards = append(cards, card)
		} else {
			log.Warn("dropping row %d: fewer than %d populated fields or bad id", line, minFields)
		}
	}
	return cards
}

func cardFromRow(record []string) (models.Card, bool) {
	fields := make([]string, len(record))
	populated := 0
	for i, v := range record {
		fields[i] = strings.TrimSpace(v)
		if i < minFields && fields[i] != "" {
			populated++
		}
	}
	if populated < minFields {
		return models.Card{}, false
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.Card{}, false
	}

	card := models.Card{
		ID:      id,
		Word:    fields[1],
		Meaning: fields[2],
		Answer:  fields[3],
	}
	if len(fields) > 4 && fields[4] != "" {
		card.Tags = []string{fields[4]}
	}
	if len(fields) > 5 {
		card.SentenceExample = fields[5]
	}
	if len(fields) > 6 {
		card.SentenceMeaning = fields[6]
	}
	return card, true
}
