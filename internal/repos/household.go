package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

var ErrDuplicateEmail = errors.New("email already registered")

type HouseholdRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Household) ([]*types.Household, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Household, error)
	GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.Household, error)
}

type householdRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHouseholdRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdRepo {
	return &householdRepo{db: db, log: baseLog.With("repo", "HouseholdRepo")}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *householdRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Household) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Household{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return rows, nil
}

func (r *householdRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Household
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

func (r *householdRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Household
	if len(emails) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("email IN ?", emails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
