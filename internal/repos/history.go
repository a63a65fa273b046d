package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/volcano-status-backend/internal/domain"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
)

type HistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *domain.VolcanoStatusHistory) error
	ListByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) ([]*domain.VolcanoStatusHistory, error)
	FullDeleteByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) error
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	repoLog := baseLog.With("repo", "HistoryRepo")
	return &historyRepo{db: db, log: repoLog}
}

// Create appends one immutable entry. There is deliberately no update method
// on this repo.
func (hr *historyRepo) Create(ctx context.Context, tx *gorm.DB, entry *domain.VolcanoStatusHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (hr *historyRepo) ListByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) ([]*domain.VolcanoStatusHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}

	var results []*domain.VolcanoStatusHistory
	if err := transaction.WithContext(ctx).
		Where("volcano_id = ?", volcanoID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (hr *historyRepo) FullDeleteByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(ctx).
		Where("volcano_id = ?", volcanoID).
		Delete(&domain.VolcanoStatusHistory{}).Error
}
