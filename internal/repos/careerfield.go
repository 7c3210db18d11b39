package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type CareerFieldRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.CareerField) error
	GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.CareerField, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.CareerField, error)
}

type careerFieldRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCareerFieldRepo(db *gorm.DB, baseLog *logger.Logger) CareerFieldRepo {
	return &careerFieldRepo{db: db, log: baseLog.With("repo", "CareerFieldRepo")}
}

func (r *careerFieldRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.CareerField) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.Slug == "" {
		return nil
	}
	// Upsert by unique slug
	return transaction.WithContext(ctx).
		Where("slug = ?", row.Slug).
		Assign(map[string]any{
			"title":             row.Title,
			"median_pay":        row.MedianPay,
			"outlook_growth":    row.OutlookGrowth,
			"openings_per_year": row.OpeningsPerYear,
			"education_level":   row.EducationLevel,
			"summary":           row.Summary,
			"fetched_at":        row.FetchedAt,
		}).
		FirstOrCreate(row).Error
}

func (r *careerFieldRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.CareerField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CareerField
	if len(slugs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("slug IN ?", slugs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *careerFieldRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.CareerField, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CareerField
	if err := transaction.WithContext(ctx).
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
