// Package file loads the question bank from a local asset: a JSON document
// with a "questions" field, or an XLSX sheet.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gait-quiz/internal/domain"
)

// BankLoader reads the bank from path, choosing the format by extension.
type BankLoader struct {
	path  string
	sheet string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

// WithSheet selects the worksheet used for XLSX banks.
func (l *BankLoader) WithSheet(sheet string) *BankLoader {
	l.sheet = sheet
	return l
}

func (l *BankLoader) LoadBank(_ context.Context) ([]domain.Question, error) {
	var (
		qs  []domain.Question
		err error
	)
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".xlsx":
		qs, err = readWorkbook(l.path, l.sheet)
	default:
		qs, err = readJSON(l.path)
	}
	if err != nil {
		return nil, err
	}

	clean, problems := domain.CleanBank(qs)
	for _, p := range problems {
		log.Printf("skipping bank entry: %v", p)
	}
	return clean, nil
}

func readJSON(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	var bank domain.Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse bank %s: %w", path, err)
	}
	return bank.Questions, nil
}
