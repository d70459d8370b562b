// Package sale contains sale booking use cases.
package sale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
)

type fakeClientRepo struct {
	adapter.ClientRepository
	clients map[uuid.UUID]*entity.Client
}

func (f *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, domainerror.ErrClientNotFound
	}
	return client, nil
}

type fakeSaleRepo struct {
	sales map[uuid.UUID]*entity.Sale
}

func (f *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	f.sales[sale.ID] = sale
	return nil
}

func (f *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, domainerror.ErrSaleNotFound
	}
	return sale, nil
}

type fakeNoteRepo struct {
	adapter.NoteRepository
	notes []*entity.Note
}

func (f *fakeNoteRepo) Create(_ context.Context, note *entity.Note) error {
	f.notes = append(f.notes, note)
	return nil
}

type fakeAuditSink struct{ records []adapter.AuditRecord }

func (f *fakeAuditSink) Record(_ context.Context, record adapter.AuditRecord) {
	f.records = append(f.records, record)
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	client   *entity.Client
	saleRepo *fakeSaleRepo
	noteRepo *fakeNoteRepo
	audit    *fakeAuditSink
	useCase  *BookSaleUseCase
}

func newFixture() *fixture {
	client := entity.NewClient("Marta Vidal", "700789")
	clientRepo := &fakeClientRepo{clients: map[uuid.UUID]*entity.Client{client.ID: client}}
	saleRepo := &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
	noteRepo := &fakeNoteRepo{}
	audit := &fakeAuditSink{}

	return &fixture{
		client:   client,
		saleRepo: saleRepo,
		noteRepo: noteRepo,
		audit:    audit,
		useCase:  NewBookSaleUseCase(clientRepo, saleRepo, noteRepo, passthroughTxManager{}, audit),
	}
}

func bookInput(clientID uuid.UUID, total int64, notes ...BookSaleNoteInput) BookSaleInput {
	return BookSaleInput{
		ClientID:         clientID,
		VehicleReference: "RAV4-2022",
		TotalAmount:      decimal.NewFromInt(total),
		PenaltyPerPeriod: decimal.NewFromInt(1000),
		PenaltyUnit:      entity.PeriodUnitDay,
		GracePeriodDays:  5,
		SaleDate:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Notes:            notes,
	}
}

func installment(amount int64, due time.Time) BookSaleNoteInput {
	return BookSaleNoteInput{Kind: entity.ObligationKindInstallment, AmountDue: decimal.NewFromInt(amount), DueDate: due}
}

func TestBookSale(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("books the sale and opens pending notes in sequence", func(t *testing.T) {
		f := newFixture()

		down := BookSaleNoteInput{Kind: entity.ObligationKindDownPayment,
			AmountDue: decimal.NewFromInt(40000), DueDate: due}
		output, err := f.useCase.Execute(context.Background(),
			bookInput(f.client.ID, 100000, down, installment(30000, due.AddDate(0, 1, 0)),
				installment(30000, due.AddDate(0, 2, 0))))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Notes) != 3 || len(f.noteRepo.notes) != 3 {
			t.Fatalf("expected 3 notes, got %d", len(output.Notes))
		}
		for i, note := range output.Notes {
			if note.Sequence != i+1 {
				t.Errorf("note %d: expected sequence %d, got %d", i, i+1, note.Sequence)
			}
			if note.Status != entity.NoteStatusPending || !note.OutstandingBalance.Equal(note.AmountDue) {
				t.Errorf("note %d must open PENDING with its full balance", i)
			}
		}
		if _, ok := f.saleRepo.sales[output.Sale.ID]; !ok {
			t.Error("sale must be persisted")
		}
		if len(f.audit.records) != 1 || f.audit.records[0].Action != "sale_booked" {
			t.Errorf("expected one sale_booked audit record, got %+v", f.audit.records)
		}
	})

	t.Run("unknown client rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.useCase.Execute(context.Background(),
			bookInput(uuid.New(), 50000, installment(50000, due)))
		if !errors.Is(err, domainerror.ErrClientNotFound) {
			t.Fatalf("expected ErrClientNotFound, got %v", err)
		}
		var noteErr *domainerror.NoteError
		if !errors.As(err, &noteErr) || noteErr.Code != domainerror.ErrCodeClientNotFound {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeClientNotFound, err)
		}
	})

	t.Run("unknown obligation kind rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.useCase.Execute(context.Background(), bookInput(f.client.ID, 50000,
			BookSaleNoteInput{Kind: "BALLOON", AmountDue: decimal.NewFromInt(50000), DueDate: due}))
		if !errors.Is(err, domainerror.ErrInvalidObligationKind) {
			t.Fatalf("expected ErrInvalidObligationKind, got %v", err)
		}
		var noteErr *domainerror.NoteError
		if !errors.As(err, &noteErr) || noteErr.Code != domainerror.ErrCodeInvalidKind {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeInvalidKind, err)
		}
	})

	t.Run("schedule must add up to the sale total", func(t *testing.T) {
		f := newFixture()

		_, err := f.useCase.Execute(context.Background(),
			bookInput(f.client.ID, 100000, installment(40000, due), installment(40000, due.AddDate(0, 1, 0))))
		if !errors.Is(err, domainerror.ErrInvariantViolation) {
			t.Fatalf("expected ErrInvariantViolation, got %v", err)
		}
		if len(f.noteRepo.notes) != 0 {
			t.Error("a rejected schedule must not open notes")
		}
	})

	t.Run("non positive note amount rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.useCase.Execute(context.Background(),
			bookInput(f.client.ID, 0, installment(0, due)))
		if !errors.Is(err, domainerror.ErrInvariantViolation) {
			t.Fatalf("expected ErrInvariantViolation, got %v", err)
		}
	})

	t.Run("empty schedule rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.useCase.Execute(context.Background(), bookInput(f.client.ID, 50000))
		if !errors.Is(err, domainerror.ErrInvariantViolation) {
			t.Fatalf("expected ErrInvariantViolation, got %v", err)
		}
	})
}
