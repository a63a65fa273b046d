package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/volcano-status-backend/internal/domain"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
)

// ViewFilter narrows the joined volcano + current-status listing. Level is
// matched exactly (callers normalize first); Province and NameContains are
// case-insensitive substring matches.
type ViewFilter struct {
	Level        string
	Province     string
	NameContains string
	Limit        int
}

type ViewRepo interface {
	List(ctx context.Context, tx *gorm.DB, filter ViewFilter) ([]*domain.VolcanoView, error)
	GetByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) (*domain.VolcanoView, error)
}

type viewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViewRepo(db *gorm.DB, baseLog *logger.Logger) ViewRepo {
	repoLog := baseLog.With("repo", "ViewRepo")
	return &viewRepo{db: db, log: repoLog}
}

const viewColumns = `volcanoes.id, volcanoes.name, volcanoes.province, volcanoes.latitude, volcanoes.longitude,
	volcano_status_current.level, volcano_status_current.source, volcano_status_current.status_text,
	volcano_status_current.observed_at, volcano_status_current.updated_at`

func (vr *viewRepo) joined(ctx context.Context, tx *gorm.DB) *gorm.DB {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	// Inner join: a volcano without a current status never appears in reads.
	return transaction.WithContext(ctx).
		Table("volcanoes").
		Select(viewColumns).
		Joins("INNER JOIN volcano_status_current ON volcano_status_current.volcano_id = volcanoes.id")
}

func (vr *viewRepo) List(ctx context.Context, tx *gorm.DB, filter ViewFilter) ([]*domain.VolcanoView, error) {
	query := vr.joined(ctx, tx)

	if filter.Level != "" {
		query = query.Where("volcano_status_current.level = ?", filter.Level)
	}
	if filter.Province != "" {
		pattern := "%" + strings.ToLower(filter.Province) + "%"
		query = query.Where("LOWER(volcanoes.province) LIKE ?", pattern)
	}
	if filter.NameContains != "" {
		pattern := "%" + strings.ToLower(filter.NameContains) + "%"
		query = query.Where("LOWER(volcanoes.name) LIKE ?", pattern)
	}

	var results []*domain.VolcanoView
	// Ordered by the caller-supplied observation time, not updated_at.
	if err := query.
		Order("volcano_status_current.observed_at DESC").
		Limit(filter.Limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *viewRepo) GetByVolcanoID(ctx context.Context, tx *gorm.DB, volcanoID uuid.UUID) (*domain.VolcanoView, error) {
	var results []*domain.VolcanoView
	if err := vr.joined(ctx, tx).
		Where("volcanoes.id = ?", volcanoID).
		Limit(1).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
