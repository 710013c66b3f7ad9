package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/domain"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionFilter narrows listing and summary queries.
type TransactionFilter struct {
	Type       *domain.TransactionType
	CategoryID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// CategoryTotal is one row of a per-category summary.
type CategoryTotal struct {
	CategoryID *int64  `json:"category_id"`
	Total      float64 `json:"total"`
}

type TransactionRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewTransactionRepository(db *gorm.DB, timeout time.Duration) *TransactionRepository {
	return &TransactionRepository{db: db, timeout: timeout}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Transaction, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var t domain.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, userID int64, f TransactionFilter) ([]*domain.Transaction, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := r.filtered(r.db.WithContext(ctx), userID, f).
		Order("occurred_at DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var transactions []*domain.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ? AND user_id = ?", t.ID, t.UserID).
		Updates(map[string]interface{}{
			"category_id": t.CategoryID,
			"type":        t.Type,
			"amount":      t.Amount,
			"note":        t.Note,
			"occurred_at": t.OccurredAt,
		})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Transaction{})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// SumByType totals the user's transactions of one type within the filter
// window.
func (r *TransactionRepository) SumByType(ctx context.Context, userID int64, txType domain.TransactionType, f TransactionFilter) (float64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	f.Type = &txType
	var total float64
	err := r.filtered(r.db.WithContext(ctx).Model(&domain.Transaction{}), userID, f).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return total, nil
}

// TotalsByCategory groups spend/income by category within the filter window.
func (r *TransactionRepository) TotalsByCategory(ctx context.Context, userID int64, f TransactionFilter) ([]CategoryTotal, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var totals []CategoryTotal
	err := r.filtered(r.db.WithContext(ctx).Model(&domain.Transaction{}), userID, f).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Group("category_id").
		Order("total DESC").
		Scan(&totals).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return totals, nil
}

// SpentInMonth totals the user's expenses for one category in one YYYY-MM
// month. Budget progress is computed from this.
func (r *TransactionRepository) SpentInMonth(ctx context.Context, userID, categoryID int64, month string) (float64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	from, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, err
	}
	to := from.AddDate(0, 1, 0)

	var total float64
	err = r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("user_id = ? AND category_id = ? AND type = ? AND occurred_at >= ? AND occurred_at < ?",
			userID, categoryID, domain.TransactionExpense, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return total, nil
}

func (r *TransactionRepository) filtered(q *gorm.DB, userID int64, f TransactionFilter) *gorm.DB {
	q = q.Where("user_id = ?", userID)
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.From != nil {
		q = q.Where("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("occurred_at < ?", *f.To)
	}
	return q
}

func (r *TransactionRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
