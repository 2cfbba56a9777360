package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type OptimizationSuggestionRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, suggestion *types.OptimizationSuggestion) (*types.OptimizationSuggestion, error)
	List(ctx context.Context, tx *gorm.DB, statuses []string, limit int) ([]*types.OptimizationSuggestion, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.OptimizationSuggestion, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, status string) (int64, error)
}

type optimizationSuggestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOptimizationSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) OptimizationSuggestionRepo {
	repoLog := baseLog.With("repo", "OptimizationSuggestionRepo")
	return &optimizationSuggestionRepo{db: db, log: repoLog}
}

func (or *optimizationSuggestionRepo) Insert(ctx context.Context, tx *gorm.DB, suggestion *types.OptimizationSuggestion) (*types.OptimizationSuggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	if err := transaction.WithContext(ctx).Create(suggestion).Error; err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (or *optimizationSuggestionRepo) List(ctx context.Context, tx *gorm.DB, statuses []string, limit int) ([]*types.OptimizationSuggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if limit <= 0 {
		limit = 100
	}

	query := transaction.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var results []*types.OptimizationSuggestion
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *optimizationSuggestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.OptimizationSuggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []*types.OptimizationSuggestion
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *optimizationSuggestionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.OptimizationSuggestion{}).
		Where("id = ?", suggestionID).
		Update("status", status)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
