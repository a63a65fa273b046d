package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/volcano-status-backend/internal/domain"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
)

type CurrentStatusRepo interface {
	Create(ctx context.Context, tx *gorm.DB, status *domain.VolcanoStatusCurrent) error
	GetByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) (*domain.VolcanoStatusCurrent, error)
	Overwrite(ctx context.Context, tx *gorm.DB, status *domain.VolcanoStatusCurrent) error
	FullDeleteByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) error
}

type currentStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCurrentStatusRepo(db *gorm.DB, baseLog *logger.Logger) CurrentStatusRepo {
	repoLog := baseLog.With("repo", "CurrentStatusRepo")
	return &currentStatusRepo{db: db, log: repoLog}
}

func (csr *currentStatusRepo) Create(ctx context.Context, tx *gorm.DB, status *domain.VolcanoStatusCurrent) error {
	transaction := tx
	if transaction == nil {
		transaction = csr.db
	}
	return transaction.WithContext(ctx).Create(status).Error
}

func (csr *currentStatusRepo) GetByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) (*domain.VolcanoStatusCurrent, error) {
	transaction := tx
	if transaction == nil {
		transaction = csr.db
	}

	var result domain.VolcanoStatusCurrent
	err := transaction.WithContext(ctx).
		Where("volcano_id = ?", volcanoID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Overwrite replaces the row's observation fields in place. updated_at is
// left to the storage layer's own clock.
func (csr *currentStatusRepo) Overwrite(ctx context.Context, tx *gorm.DB, status *domain.VolcanoStatusCurrent) error {
	transaction := tx
	if transaction == nil {
		transaction = csr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.VolcanoStatusCurrent{}).
		Where("volcano_id = ?", status.VolcanoID).
		Updates(map[string]any{
			"level":       status.Level,
			"status_text": status.StatusText,
			"source":      status.Source,
			"observed_at": status.ObservedAt,
		}).Error
}

func (csr *currentStatusRepo) FullDeleteByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = csr.db
	}
	return transaction.WithContext(ctx).
		Where("volcano_id = ?", volcanoID).
		Delete(&domain.VolcanoStatusCurrent{}).Error
}
