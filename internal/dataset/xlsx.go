package dataset

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
)

// ParseXLSX parses dataset rows from an Excel workbook. The first sheet is
// used and the first row is treated as a header. Row handling matches
// ParseCSV: short or malformed rows are dropped and logged.
func ParseXLSX(data []byte) ([]models.Card, error) {
	log := logger.Default().WithPrefix("dataset")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var cards []models.Card
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if card, ok := cardFromRow(row); ok {
			cards = append(cards, card)
		} else {
			log.Warn("dropping row %d: fewer than %d populated fields or bad id", i+1, minFields)
		}
	}
	return cards, nil
}
