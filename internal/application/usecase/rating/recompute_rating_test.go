// Package rating contains client creditworthiness rating use cases.
package rating

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
)

type fakeNoteRepo struct {
	adapter.NoteRepository
	notes []*entity.Note
}

func (f *fakeNoteRepo) CountByClient(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(f.notes)), nil
}

func (f *fakeNoteRepo) FindUnpaidByClient(_ context.Context, _ uuid.UUID) ([]*entity.Note, error) {
	var unpaid []*entity.Note
	for _, n := range f.notes {
		if n.Status != entity.NoteStatusPaid {
			unpaid = append(unpaid, n)
		}
	}
	return unpaid, nil
}

type fakeClientRepo struct {
	adapter.ClientRepository
	client        *entity.Client
	updatedLabel  string
	updateCount   int
	updatedArrear decimal.Decimal
}

func (f *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	if f.client == nil || f.client.ID != id {
		return nil, domainerror.ErrClientNotFound
	}
	return f.client, nil
}

func (f *fakeClientRepo) UpdateRating(_ context.Context, _ uuid.UUID, label string, arrears decimal.Decimal) error {
	f.updatedLabel = label
	f.updatedArrear = arrears
	f.updateCount++
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

func overdueNote(saleID uuid.UUID, daysAgo int, balance int64) *entity.Note {
	note := entity.NewNote(saleID, 1, entity.ObligationKindInstallment,
		decimal.NewFromInt(balance), time.Now().UTC().AddDate(0, 0, -daysAgo))
	note.Status = entity.NoteStatusPartial
	note.OutstandingBalance = decimal.NewFromInt(balance)
	return note
}

func TestRecomputeClientRating(t *testing.T) {
	asOf := time.Now().UTC()
	saleID := uuid.New()

	t.Run("forty five days overdue rates C and appends history", func(t *testing.T) {
		client := entity.NewClient("Ana Diaz", "900123")
		client.RatingLabel = "B"

		noteRepo := &fakeNoteRepo{notes: []*entity.Note{overdueNote(saleID, 45, 40000)}}
		clientRepo := &fakeClientRepo{client: client}
		historyRepo := &fakeHistoryRepo{}
		audit := &fakeAuditSink{}

		uc := NewRecomputeClientRatingUseCase(noteRepo, clientRepo, &fakePolicyRepo{bands: standardBands()}, historyRepo, audit)

		paymentID := uuid.New()
		output, err := uc.Execute(context.Background(), RecomputeClientRatingInput{
			ClientID:            client.ID,
			TriggeringPaymentID: &paymentID,
			AsOf:                asOf,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.NewLabel != "C" {
			t.Errorf("expected label C, got %q", output.NewLabel)
		}
		if !output.Changed {
			t.Error("expected a rating change")
		}
		if len(historyRepo.entries) != 1 {
			t.Fatalf("expected one history entry, got %d", len(historyRepo.entries))
		}
		entry := historyRepo.entries[0]
		if entry.PreviousLabel != "B" || entry.NewLabel != "C" {
			t.Errorf("unexpected history transition %s -> %s", entry.PreviousLabel, entry.NewLabel)
		}
		if entry.PaymentID == nil || *entry.PaymentID != paymentID {
			t.Error("history entry should carry the triggering payment")
		}
		if clientRepo.updatedLabel != "C" {
			t.Errorf("expected stored label C, got %q", clientRepo.updatedLabel)
		}
		if !clientRepo.updatedArrear.Equal(decimal.NewFromInt(40000)) {
			t.Errorf("expected accumulated arrears 40000, got %s", clientRepo.updatedArrear)
		}
		if len(audit.records) != 1 || audit.records[0].Action != "rating_change" {
			t.Error("expected one rating_change audit record")
		}
	})

	t.Run("no history entry when label is unchanged", func(t *testing.T) {
		client := entity.NewClient("Ana Diaz", "900123")
		client.RatingLabel = "C"
		client.AccumulatedArrears = decimal.NewFromInt(40000)

		noteRepo := &fakeNoteRepo{notes: []*entity.Note{overdueNote(saleID, 45, 40000)}}
		historyRepo := &fakeHistoryRepo{}
		clientRepo := &fakeClientRepo{client: client}

		uc := NewRecomputeClientRatingUseCase(noteRepo, clientRepo, &fakePolicyRepo{bands: standardBands()}, historyRepo, &fakeAuditSink{})

		output, err := uc.Execute(context.Background(), RecomputeClientRatingInput{ClientID: client.ID, AsOf: asOf})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Changed {
			t.Error("expected no rating change")
		}
		if len(historyRepo.entries) != 0 {
			t.Errorf("expected no history entries, got %d", len(historyRepo.entries))
		}
		if clientRepo.updateCount != 0 {
			t.Error("expected no stored update when nothing changed")
		}
	})

	t.Run("client with no notes is unrated", func(t *testing.T) {
		client := entity.NewClient("Ana Diaz", "900123")

		uc := NewRecomputeClientRatingUseCase(
			&fakeNoteRepo{}, &fakeClientRepo{client: client},
			&fakePolicyRepo{bands: standardBands()}, &fakeHistoryRepo{}, &fakeAuditSink{})

		output, err := uc.Execute(context.Background(), RecomputeClientRatingInput{ClientID: client.ID, AsOf: asOf})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.NewLabel != entity.RatingLabelUnrated {
			t.Errorf("expected %s, got %q", entity.RatingLabelUnrated, output.NewLabel)
		}
	})

	t.Run("notes without overdue days is good standing", func(t *testing.T) {
		client := entity.NewClient("Ana Diaz", "900123")
		client.RatingLabel = entity.RatingLabelUnrated

		future := entity.NewNote(saleID, 1, entity.ObligationKindInstallment,
			decimal.NewFromInt(50000), asOf.AddDate(0, 1, 0))

		uc := NewRecomputeClientRatingUseCase(
			&fakeNoteRepo{notes: []*entity.Note{future}}, &fakeClientRepo{client: client},
			&fakePolicyRepo{bands: standardBands()}, &fakeHistoryRepo{}, &fakeAuditSink{})

		output, err := uc.Execute(context.Background(), RecomputeClientRatingInput{ClientID: client.ID, AsOf: asOf})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.NewLabel != entity.RatingLabelGoodStanding {
			t.Errorf("expected %s, got %q", entity.RatingLabelGoodStanding, output.NewLabel)
		}
		if !output.Changed {
			t.Error("unrated to good standing should register as a change")
		}
	})

	t.Run("misconfigured policy surfaces invariant violation", func(t *testing.T) {
		client := entity.NewClient("Ana Diaz", "900123")
		overlapping := []*entity.RatingBand{
			band(0, intPtr(15), "A"),
			band(10, intPtr(30), "B"),
		}

		uc := NewRecomputeClientRatingUseCase(
			&fakeNoteRepo{notes: []*entity.Note{overdueNote(saleID, 5, 1000)}},
			&fakeClientRepo{client: client},
			&fakePolicyRepo{bands: overlapping}, &fakeHistoryRepo{}, &fakeAuditSink{})

		_, err := uc.Execute(context.Background(), RecomputeClientRatingInput{ClientID: client.ID, AsOf: asOf})
		if err == nil {
			t.Fatal("expected an error for overlapping bands")
		}
	})
}
