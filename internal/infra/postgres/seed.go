package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gait-quiz/internal/domain"
	"github.com/uptrace/bun"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID       int    `bun:"id,pk"`
	Category string `bun:"category"`
	Data     string `bun:"data,type:jsonb"`
}

// SeedBank upserts questions into the questions table.
func SeedBank(ctx context.Context, db *bun.DB, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return 0, fmt.Errorf("marshal question %d: %w", q.ID, err)
		}
		rows = append(rows, questionRow{ID: q.ID, Category: q.Category, Data: string(data)})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("category = EXCLUDED.category").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed questions: %w", err)
	}
	return len(rows), nil
}
