// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
	"github.com/dealership/backoffice/internal/integration/persistence/model"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// paymentRepository implements the adapter.PaymentRepository interface.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance.
func NewPaymentRepository(db *gorm.DB) adapter.PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// Create appends a payment to the journal.
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentModel := model.PaymentFromEntity(payment)
	result := dbFrom(ctx, r.db).WithContext(ctx).Create(paymentModel)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerror.ErrDuplicateReceipt
		}
		return result.Error
	}
	return nil
}

// FindByNote retrieves the full payment history of a note ordered by date.
func (r *paymentRepository) FindByNote(ctx context.Context, noteID uuid.UUID) ([]*entity.Payment, error) {
	var paymentModels []model.PaymentModel
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("date ASC, created_at ASC").
		Find(&paymentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	payments := make([]*entity.Payment, len(paymentModels))
	for i, pm := range paymentModels {
		payments[i] = pm.ToEntity()
	}
	return payments, nil
}

// isUniqueViolation detects a receipt-number collision on both backends.
// GORM's TranslateError maps it to ErrDuplicatedKey; the pgconn code covers
// raw pgx errors on PostgreSQL and the constraint message covers SQLite
// (tests).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
