package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yungbote/volcano-status-backend/internal/domain"
	"github.com/yungbote/volcano-status-backend/internal/observability"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
	"github.com/yungbote/volcano-status-backend/internal/repos"
)

const (
	// Listing defaults and hard cap.
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type VolcanoService interface {
	SubmitObservation(ctx context.Context, obs domain.Observation) (*domain.VolcanoView, error)
	List(ctx context.Context, level, province, nameContains string, limit int) ([]*domain.VolcanoView, error)
	GetByID(ctx context.Context, volcanoID uuid.UUID) (*domain.VolcanoView, error)
	History(ctx context.Context, volcanoID uuid.UUID) ([]*domain.VolcanoStatusHistory, error)
	Delete(ctx context.Context, volcanoID uuid.UUID) error
}

type volcanoService struct {
	db          *gorm.DB
	log         *logger.Logger
	clock       clockwork.Clock
	volcanoRepo repos.VolcanoRepo
	currentRepo repos.CurrentStatusRepo
	historyRepo repos.HistoryRepo
	viewRepo    repos.ViewRepo
	metrics     *observability.Metrics
}

func NewVolcanoService(
	db *gorm.DB,
	log *logger.Logger,
	clock clockwork.Clock,
	volcanoRepo repos.VolcanoRepo,
	currentRepo repos.CurrentStatusRepo,
	historyRepo repos.HistoryRepo,
	viewRepo repos.ViewRepo,
	metrics *observability.Metrics,
) VolcanoService {
	serviceLog := log.With("service", "VolcanoService")
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &volcanoService{
		db:          db,
		log:         serviceLog,
		clock:       clock,
		volcanoRepo: volcanoRepo,
		currentRepo: currentRepo,
		historyRepo: historyRepo,
		viewRepo:    viewRepo,
		metrics:     metrics,
	}
}

// SubmitObservation executes the status upsert protocol as one transaction:
// find-or-create the volcano by name, replace its current status, append a
// history entry. A duplicate-name insert losing the create race is retried
// once; the second pass takes the update path.
func (vs *volcanoService) SubmitObservation(ctx context.Context, obs domain.Observation) (*domain.VolcanoView, error) {
	level := domain.NormalizeLevel(obs.Level)
	if !domain.ValidLevel(level) {
		return nil, domain.NewInvalidLevelError()
	}
	if err := validateObservation(obs); err != nil {
		return nil, err
	}

	view, created, err := vs.submitOnce(ctx, obs, level)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		vs.log.Warn("Lost volcano create race, retrying as update", "name", obs.Name)
		if vs.metrics != nil {
			vs.metrics.UpsertRetries.Inc()
		}
		view, created, err = vs.submitOnce(ctx, obs, level)
	}
	if err != nil {
		return nil, vs.classify(err)
	}

	if vs.metrics != nil {
		vs.metrics.ObservationsSubmitted.WithLabelValues(level).Inc()
		if created {
			vs.metrics.VolcanoesCreated.Inc()
		}
	}
	return view, nil
}

func (vs *volcanoService) submitOnce(ctx context.Context, obs domain.Observation, level string) (*domain.VolcanoView, bool, error) {
	source := domain.DefaultSource
	if obs.Source != nil && strings.TrimSpace(*obs.Source) != "" {
		source = strings.TrimSpace(*obs.Source)
	}

	var (
		view    *domain.VolcanoView
		created bool
	)
	err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		volcano, err := vs.volcanoRepo.GetByName(ctx, tx, obs.Name)
		if err != nil {
			return fmt.Errorf("lookup volcano by name: %w", err)
		}
		if volcano == nil {
			// The only place a volcano id is minted.
			volcano = &domain.Volcano{
				ID:        uuid.New(),
				Name:      obs.Name,
				Province:  obs.Province,
				Latitude:  obs.Latitude,
				Longitude: obs.Longitude,
				CreatedAt: vs.clock.Now().UTC(),
			}
			if err := vs.volcanoRepo.Create(ctx, tx, volcano); err != nil {
				// Duplicate name: a concurrent submission won the create.
				return err
			}
			created = true
		} else {
			// Last-write-wins overwrite of the master location fields.
			if err := vs.volcanoRepo.UpdateLocation(ctx, tx, volcano.ID, obs.Province, obs.Latitude, obs.Longitude); err != nil {
				return fmt.Errorf("update volcano location: %w", err)
			}
		}

		current, err := vs.currentRepo.GetByVolcanoID(ctx, tx, volcano.ID)
		if err != nil {
			return fmt.Errorf("lookup current status: %w", err)
		}
		status := &domain.VolcanoStatusCurrent{
			VolcanoID:  volcano.ID,
			Level:      level,
			StatusText: obs.StatusText,
			Source:     source,
			ObservedAt: obs.ObservedAt,
		}
		if current == nil {
			if err := vs.currentRepo.Create(ctx, tx, status); err != nil {
				return fmt.Errorf("create current status: %w", err)
			}
		} else {
			if err := vs.currentRepo.Overwrite(ctx, tx, status); err != nil {
				return fmt.Errorf("overwrite current status: %w", err)
			}
		}

		// One history row per submission, whether or not anything changed.
		entry := &domain.VolcanoStatusHistory{
			ID:         uuid.New(),
			VolcanoID:  volcano.ID,
			Level:      level,
			StatusText: obs.StatusText,
			Source:     source,
			ObservedAt: obs.ObservedAt,
			CreatedAt:  vs.clock.Now().UTC(),
		}
		if err := vs.historyRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("append history entry: %w", err)
		}

		view, err = vs.viewRepo.GetByVolcanoID(ctx, tx, volcano.ID)
		if err != nil {
			return fmt.Errorf("read back volcano view: %w", err)
		}
		if view == nil {
			return fmt.Errorf("volcano view missing after upsert")
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

func (vs *volcanoService) List(ctx context.Context, level, province, nameContains string, limit int) ([]*domain.VolcanoView, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	// Unrecognized levels pass through normalization unchanged and simply
	// match nothing.
	if level != "" {
		level = domain.NormalizeLevel(level)
	}

	views, err := vs.viewRepo.List(ctx, nil, repos.ViewFilter{
		Level:        level,
		Province:     province,
		NameContains: nameContains,
		Limit:        limit,
	})
	if err != nil {
		return nil, vs.classify(err)
	}
	return views, nil
}

func (vs *volcanoService) GetByID(ctx context.Context, volcanoID uuid.UUID) (*domain.VolcanoView, error) {
	view, err := vs.viewRepo.GetByVolcanoID(ctx, nil, volcanoID)
	if err != nil {
		return nil, vs.classify(err)
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	return view, nil
}

// History returns every recorded submission for the volcano, newest first.
// The volcano itself must exist even when it has no current status.
func (vs *volcanoService) History(ctx context.Context, volcanoID uuid.UUID) ([]*domain.VolcanoStatusHistory, error) {
	volcano, err := vs.volcanoRepo.GetByID(ctx, nil, volcanoID)
	if err != nil {
		return nil, vs.classify(err)
	}
	if volcano == nil {
		return nil, domain.ErrNotFound
	}

	entries, err := vs.historyRepo.ListByVolcanoID(ctx, nil, volcanoID)
	if err != nil {
		return nil, vs.classify(err)
	}
	return entries, nil
}

// Delete hard-deletes the volcano and its status rows. Postgres cascades
// cover the children; the explicit child deletes keep the ownership rule in
// code and make the behavior hold on engines without the installed FKs.
func (vs *volcanoService) Delete(ctx context.Context, volcanoID uuid.UUID) error {
	err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		volcano, err := vs.volcanoRepo.GetByID(ctx, tx, volcanoID)
		if err != nil {
			return fmt.Errorf("lookup volcano: %w", err)
		}
		if volcano == nil {
			return domain.ErrNotFound
		}
		if err := vs.historyRepo.FullDeleteByVolcanoID(ctx, tx, volcanoID); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		if err := vs.currentRepo.FullDeleteByVolcanoID(ctx, tx, volcanoID); err != nil {
			return fmt.Errorf("delete current status: %w", err)
		}
		if err := vs.volcanoRepo.FullDeleteByID(ctx, tx, volcanoID); err != nil {
			return fmt.Errorf("delete volcano: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return vs.classify(err)
	}
	if vs.metrics != nil {
		vs.metrics.VolcanoesDeleted.Inc()
	}
	return nil
}

// classify maps storage failures onto the service's error taxonomy. A
// context that expired while waiting on the pool surfaces as resource
// exhaustion, which callers may retry.
func (vs *volcanoService) classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrResourceExhausted, err)
	}
	return err
}

func validateObservation(obs domain.Observation) error {
	name := strings.TrimSpace(obs.Name)
	if len(name) < 2 || len(name) > 120 {
		return &domain.ValidationError{Field: "name", Reason: "must be 2-120 characters"}
	}
	if obs.Province != nil && len(*obs.Province) > 80 {
		return &domain.ValidationError{Field: "province", Reason: "must be at most 80 characters"}
	}
	if obs.ObservedAt.IsZero() {
		return &domain.ValidationError{Field: "observed_at", Reason: "is required"}
	}
	return nil
}
