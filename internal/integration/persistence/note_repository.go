// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
	"github.com/dealership/backoffice/internal/integration/persistence/model"
)

// noteRepository implements the adapter.NoteRepository interface.
type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository instance.
func NewNoteRepository(db *gorm.DB) adapter.NoteRepository {
	return &noteRepository{
		db: db,
	}
}

// Create inserts a new note into the ledger.
func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	noteModel := model.NoteFromEntity(note)
	result := dbFrom(ctx, r.db).WithContext(ctx).Create(noteModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a note by its ID.
func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	var noteModel model.NoteModel
	result := dbFrom(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&noteModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrNoteNotFound
		}
		return nil, result.Error
	}
	return noteModel.ToEntity(), nil
}

// FindByIDForUpdate retrieves a note and locks its row until the enclosing
// transaction ends. SQLite (used by the test suite) has no row locks; its
// single write connection serializes writers instead.
func (r *noteRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	query := dbFrom(ctx, r.db).WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var noteModel model.NoteModel
	result := query.Where("id = ?", id).First(&noteModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrNoteNotFound
		}
		return nil, result.Error
	}
	return noteModel.ToEntity(), nil
}

// FindBySale retrieves all notes of a sale ordered by installment sequence.
func (r *noteRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.Note, error) {
	var noteModels []model.NoteModel
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("sequence ASC").
		Find(&noteModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toNoteEntities(noteModels), nil
}

// FindUnpaidByClient retrieves all pending/partial notes owned by a client,
// resolved through the owning sales.
func (r *noteRepository) FindUnpaidByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Note, error) {
	var noteModels []model.NoteModel
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Joins("JOIN sales ON sales.id = notes.sale_id").
		Where("sales.client_id = ? AND notes.status <> ?", clientID, string(entity.NoteStatusPaid)).
		Order("notes.due_date ASC").
		Find(&noteModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toNoteEntities(noteModels), nil
}

// CountByClient counts all notes owned by a client.
func (r *noteRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&model.NoteModel{}).
		Joins("JOIN sales ON sales.id = notes.sale_id").
		Where("sales.client_id = ?", clientID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// UpdateBalanceAndStatus writes the reconciled state back to the ledger.
func (r *noteRepository) UpdateBalanceAndStatus(
	ctx context.Context,
	id uuid.UUID,
	outstandingBalance decimal.Decimal,
	status entity.NoteStatus,
	cancelled bool,
) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&model.NoteModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"outstanding_balance": outstandingBalance,
			"status":              string(status),
			"cancelled":           cancelled,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrNoteNotFound
	}
	return nil
}

// FindAll pages through the whole ledger ordered by creation.
func (r *noteRepository) FindAll(ctx context.Context, page adapter.NotePage) ([]*entity.Note, error) {
	var noteModels []model.NoteModel
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Order("created_at ASC, id ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&noteModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toNoteEntities(noteModels), nil
}

func toNoteEntities(noteModels []model.NoteModel) []*entity.Note {
	notes := make([]*entity.Note, len(noteModels))
	for i, nm := range noteModels {
		notes[i] = nm.ToEntity()
	}
	return notes
}
