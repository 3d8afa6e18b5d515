package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"search-and-destroy/internal/database"
	"search-and-destroy/internal/domain/user"
)

type HistoryRepository struct {
	db *database.Database
}

func NewHistoryRepository(db *database.Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Record(ctx context.Context, entry *user.LoginHistory) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}

	if err := r.db.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record login history: %w", err)
	}

	return nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]user.LoginHistory, error) {
	var entries []user.LoginHistory
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list login history: %w", err)
	}

	return entries, nil
}
