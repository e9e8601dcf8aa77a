package file

import (
	"fmt"
	"strconv"
	"strings"

	"gait-quiz/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Workbook columns, after a single header row:
//
//	A id | B category | C question | D-G choices | H answer (A-D) | I explanation
const (
	colID = iota
	colCategory
	colQuestion
	colChoiceA
	colChoiceB
	colChoiceC
	colChoiceD
	colAnswer
	colExplanation
	columnCount
)

func readWorkbook(path, sheet string) ([]domain.Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	questions := make([]domain.Question, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlank(row) {
			continue
		}
		q, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func parseRow(row []string) (domain.Question, error) {
	cells := make([]string, columnCount)
	copy(cells, row)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}

	id, err := strconv.Atoi(cells[colID])
	if err != nil {
		return domain.Question{}, fmt.Errorf("invalid id %q", cells[colID])
	}
	answer, err := parseAnswer(cells[colAnswer])
	if err != nil {
		return domain.Question{}, err
	}
	return domain.Question{
		ID:          id,
		Category:    cells[colCategory],
		Question:    cells[colQuestion],
		Choices:     []string{cells[colChoiceA], cells[colChoiceB], cells[colChoiceC], cells[colChoiceD]},
		Answer:      answer,
		Explanation: cells[colExplanation],
	}, nil
}

// parseAnswer accepts a choice label (A-D) or a zero-based index.
func parseAnswer(raw string) (int, error) {
	if len(raw) == 1 {
		c := strings.ToUpper(raw)[0]
		if c >= 'A' && c < 'A'+domain.ChoiceCount {
			return int(c - 'A'), nil
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < domain.ChoiceCount {
		return n, nil
	}
	return 0, fmt.Errorf("invalid answer %q", raw)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
