// Package reconciliation contains the note reconciliation engine use cases.
package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/application/usecase/rating"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
)

// In-memory fakes shared by the reconciliation tests.

type fakeNoteRepo struct {
	adapter.NoteRepository
	notes map[uuid.UUID]*entity.Note
	order []uuid.UUID
}

func newFakeNoteRepo(notes ...*entity.Note) *fakeNoteRepo {
	repo := &fakeNoteRepo{notes: make(map[uuid.UUID]*entity.Note)}
	for _, n := range notes {
		repo.notes[n.ID] = n
		repo.order = append(repo.order, n.ID)
	}
	return repo
}

func (f *fakeNoteRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Note, error) {
	note, ok := f.notes[id]
	if !ok {
		return nil, domainerror.ErrNoteNotFound
	}
	copied := *note
	return &copied, nil
}

func (f *fakeNoteRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeNoteRepo) CountByClient(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(f.notes)), nil
}

func (f *fakeNoteRepo) FindUnpaidByClient(_ context.Context, _ uuid.UUID) ([]*entity.Note, error) {
	var unpaid []*entity.Note
	for _, id := range f.order {
		if n := f.notes[id]; n.Status != entity.NoteStatusPaid {
			copied := *n
			unpaid = append(unpaid, &copied)
		}
	}
	return unpaid, nil
}

func (f *fakeNoteRepo) UpdateBalanceAndStatus(
	_ context.Context, id uuid.UUID, balance decimal.Decimal, status entity.NoteStatus, cancelled bool,
) error {
	note, ok := f.notes[id]
	if !ok {
		return domainerror.ErrNoteNotFound
	}
	note.OutstandingBalance = balance
	note.Status = status
	note.Cancelled = cancelled
	return nil
}

func (f *fakeNoteRepo) FindAll(_ context.Context, page adapter.NotePage) ([]*entity.Note, error) {
	var all []*entity.Note
	for _, id := range f.order {
		copied := *f.notes[id]
		all = append(all, &copied)
	}
	if page.Offset >= len(all) {
		return nil, nil
	}
	end := page.Offset + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[page.Offset:end], nil
}

type fakePaymentRepo struct {
	adapter.PaymentRepository
	payments map[uuid.UUID][]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID][]*entity.Payment)}
}

func (f *fakePaymentRepo) add(payment *entity.Payment) {
	f.payments[payment.NoteID] = append(f.payments[payment.NoteID], payment)
}

func (f *fakePaymentRepo) FindByNote(_ context.Context, noteID uuid.UUID) ([]*entity.Payment, error) {
	return f.payments[noteID], nil
}

type fakeSaleRepo struct {
	sales map[uuid.UUID]*entity.Sale
}

func newFakeSaleRepo(sales ...*entity.Sale) *fakeSaleRepo {
	repo := &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
	for _, s := range sales {
		repo.sales[s.ID] = s
	}
	return repo
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

type fakeClientRepo struct {
	adapter.ClientRepository
	clients map[uuid.UUID]*entity.Client
}

func newFakeClientRepo(clients ...*entity.Client) *fakeClientRepo {
	repo := &fakeClientRepo{clients: make(map[uuid.UUID]*entity.Client)}
	for _, c := range clients {
		repo.clients[c.ID] = c
	}
	return repo
}

func (f *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, domainerror.ErrClientNotFound
	}
	return client, nil
}

func (f *fakeClientRepo) UpdateRating(_ context.Context, id uuid.UUID, label string, arrears decimal.Decimal) error {
	client, ok := f.clients[id]
	if !ok {
		return domainerror.ErrClientNotFound
	}
	client.RatingLabel = label
	client.AccumulatedArrears = arrears
	return nil
}

type fakePolicyRepo struct {
	bands []*entity.RatingBand
}

func (f *fakePolicyRepo) FindBandsOrdered(_ context.Context) ([]*entity.RatingBand, error) {
	return f.bands, nil
}

type fakeHistoryRepo struct {
	adapter.RatingHistoryRepository
	entries []*entity.RatingHistoryEntry
}

func (f *fakeHistoryRepo) Append(_ context.Context, entry *entity.RatingHistoryEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeAuditSink struct {
	records []adapter.AuditRecord
}

func (f *fakeAuditSink) Record(_ context.Context, record adapter.AuditRecord) {
	f.records = append(f.records, record)
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func intPtr(v int) *int { return &v }

func testBands() []*entity.RatingBand {
	return []*entity.RatingBand{
		{ID: uuid.New(), DaysFrom: 0, DaysTo: intPtr(10), Label: "A"},
		{ID: uuid.New(), DaysFrom: 11, DaysTo: intPtr(30), Label: "B"},
		{ID: uuid.New(), DaysFrom: 31, DaysTo: intPtr(60), Label: "C"},
	}
}

type fixture struct {
	client      *entity.Client
	sale        *entity.Sale
	note        *entity.Note
	noteRepo    *fakeNoteRepo
	paymentRepo *fakePaymentRepo
	saleRepo    *fakeSaleRepo
	clientRepo  *fakeClientRepo
	policyRepo  *fakePolicyRepo
	historyRepo *fakeHistoryRepo
	audit       *fakeAuditSink
	useCase     *ReconcileNoteUseCase
}

func newFixture(amountDue int64, dueDate time.Time) *fixture {
	client := entity.NewClient("Ana Diaz", "900123")
	sale := entity.NewSale(client.ID, "HILUX-2019", decimal.NewFromInt(amountDue),
		decimal.NewFromInt(1000), entity.PeriodUnitDay, 5, dueDate.AddDate(0, -1, 0))
	note := entity.NewNote(sale.ID, 1, entity.ObligationKindInstallment,
		decimal.NewFromInt(amountDue), dueDate)

	f := &fixture{
		client:      client,
		sale:        sale,
		note:        note,
		noteRepo:    newFakeNoteRepo(note),
		paymentRepo: newFakePaymentRepo(),
		saleRepo:    newFakeSaleRepo(sale),
		clientRepo:  newFakeClientRepo(client),
		policyRepo:  &fakePolicyRepo{bands: testBands()},
		historyRepo: &fakeHistoryRepo{},
		audit:       &fakeAuditSink{},
	}

	ratingUseCase := rating.NewRecomputeClientRatingUseCase(
		f.noteRepo, f.clientRepo, f.policyRepo, f.historyRepo, f.audit)
	f.useCase = NewReconcileNoteUseCase(f.noteRepo, f.paymentRepo, f.saleRepo, ratingUseCase, f.audit)
	return f
}

func (f *fixture) pay(amount int64, date time.Time) *entity.Payment {
	payment := entity.NewPayment(f.note.ID, decimal.NewFromInt(amount), date, 0,
		decimal.Zero, entity.PaymentMethodCash, uuid.NewString())
	f.paymentRepo.add(payment)
	return payment
}

func TestReconcileNote(t *testing.T) {
	now := time.Now().UTC()

	t.Run("partial then full payment settles the note", func(t *testing.T) {
		f := newFixture(100000, now.AddDate(0, 0, 7))

		f.pay(60000, now)
		output, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Note.Status != entity.NoteStatusPartial {
			t.Errorf("expected PARTIAL, got %s", output.Note.Status)
		}
		if !output.Note.OutstandingBalance.Equal(decimal.NewFromInt(40000)) {
			t.Errorf("expected balance 40000, got %s", output.Note.OutstandingBalance)
		}

		f.pay(40000, now)
		output, err = f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Note.Status != entity.NoteStatusPaid {
			t.Errorf("expected PAID, got %s", output.Note.Status)
		}
		if !output.Note.OutstandingBalance.IsZero() {
			t.Errorf("expected zero balance, got %s", output.Note.OutstandingBalance)
		}
		if !output.Note.Cancelled {
			t.Error("settled note must be cancelled")
		}
	})

	t.Run("reconciling twice with the same history does not drift", func(t *testing.T) {
		f := newFixture(100000, now.AddDate(0, 0, 7))
		f.pay(25000, now)

		first, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if second.StateChanged {
			t.Error("second run must be a no-op")
		}
		if first.Note.Status != second.Note.Status ||
			!first.Note.OutstandingBalance.Equal(second.Note.OutstandingBalance) {
			t.Errorf("state drifted between runs: %+v vs %+v", first.Note, second.Note)
		}
	})

	t.Run("zero payments leaves the note pending and not cancelled", func(t *testing.T) {
		f := newFixture(100000, now.AddDate(0, 0, 7))

		output, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Note.Status != entity.NoteStatusPending {
			t.Errorf("expected PENDING, got %s", output.Note.Status)
		}
		if output.Note.Cancelled {
			t.Error("a note with no payments must never be cancelled")
		}
		if output.StateChanged {
			t.Error("fresh note should already match the derived state")
		}
	})

	t.Run("missing note aborts", func(t *testing.T) {
		f := newFixture(100000, now)

		_, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: uuid.New(), AsOf: now})
		if !errors.Is(err, domainerror.ErrNoteNotFound) {
			t.Errorf("expected ErrNoteNotFound, got %v", err)
		}
		var noteErr *domainerror.NoteError
		if !errors.As(err, &noteErr) || noteErr.Code != domainerror.ErrCodeNoteNotFound {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeNoteNotFound, err)
		}
	})

	t.Run("unresolved sale commits note update and skips rating", func(t *testing.T) {
		f := newFixture(100000, now.AddDate(0, 0, -45))
		delete(f.saleRepo.sales, f.sale.ID)
		f.pay(10000, now)

		output, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now})
		if err != nil {
			t.Fatalf("rating degradation must not fail the reconciliation: %v", err)
		}
		if !output.RatingSkipped {
			t.Error("expected the rating step to be skipped")
		}
		stored, _ := f.noteRepo.FindByID(context.Background(), f.note.ID)
		if stored.Status != entity.NoteStatusPartial {
			t.Errorf("note update must still commit, got status %s", stored.Status)
		}
	})

	t.Run("empty rating policy commits note update and skips rating", func(t *testing.T) {
		f := newFixture(100000, now.AddDate(0, 0, 7))
		f.policyRepo.bands = nil
		f.pay(60000, now)

		output, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now})
		if err != nil {
			t.Fatalf("an unusable rating policy must not fail the reconciliation: %v", err)
		}
		if !output.RatingSkipped {
			t.Error("expected the rating step to be skipped")
		}
		stored, _ := f.noteRepo.FindByID(context.Background(), f.note.ID)
		if stored.Status != entity.NoteStatusPartial {
			t.Errorf("note update must still commit, got status %s", stored.Status)
		}
		if !stored.OutstandingBalance.Equal(decimal.NewFromInt(40000)) {
			t.Errorf("expected balance 40000, got %s", stored.OutstandingBalance)
		}
	})

	t.Run("overdue payment drives rating transition with history", func(t *testing.T) {
		f := newFixture(100000, now.AddDate(0, 0, -45))
		payment := f.pay(10000, now)

		output, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{
			NoteID:              f.note.ID,
			TriggeringPaymentID: &payment.ID,
			AsOf:                now,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Rating == nil || output.Rating.NewLabel != "C" {
			t.Fatalf("expected rating C, got %+v", output.Rating)
		}
		if len(f.historyRepo.entries) != 1 {
			t.Fatalf("expected one history entry, got %d", len(f.historyRepo.entries))
		}
		if f.historyRepo.entries[0].PaymentID == nil || *f.historyRepo.entries[0].PaymentID != payment.ID {
			t.Error("history entry should carry the triggering payment")
		}

		// Same history again: label stable, no extra entries.
		if _, err := f.useCase.Execute(context.Background(), ReconcileNoteInput{NoteID: f.note.ID, AsOf: now}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.historyRepo.entries) != 1 {
			t.Errorf("expected history only on change, got %d entries", len(f.historyRepo.entries))
		}
	})
}
