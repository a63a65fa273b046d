package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/volcano-status-backend/internal/domain"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
)

type VolcanoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, volcano *domain.Volcano) error
	GetByID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) (*domain.Volcano, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*domain.Volcano, error)
	UpdateLocation(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID, province *string, latitude, longitude float64) error
	FullDeleteByID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) error
}

type volcanoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVolcanoRepo(db *gorm.DB, baseLog *logger.Logger) VolcanoRepo {
	repoLog := baseLog.With("repo", "VolcanoRepo")
	return &volcanoRepo{db: db, log: repoLog}
}

func (vr *volcanoRepo) Create(ctx context.Context, tx *gorm.DB, volcano *domain.Volcano) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).Create(volcano).Error
}

func (vr *volcanoRepo) GetByID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) (*domain.Volcano, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var result domain.Volcano
	err := transaction.WithContext(ctx).
		Where("id = ?", volcanoID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *volcanoRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*domain.Volcano, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var result domain.Volcano
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *volcanoRepo) UpdateLocation(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID, province *string, latitude, longitude float64) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Volcano{}).
		Where("id = ?", volcanoID).
		Updates(map[string]any{
			"province":  province,
			"latitude":  latitude,
			"longitude": longitude,
		}).Error
}

func (vr *volcanoRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", volcanoID).
		Delete(&domain.Volcano{}).Error
}
