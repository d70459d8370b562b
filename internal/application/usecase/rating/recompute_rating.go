// Package rating contains client creditworthiness rating use cases.
package rating

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	"github.com/dealership/backoffice/internal/domain/valueobject"
)

// RecomputeClientRatingInput represents the input for a rating recomputation.
type RecomputeClientRatingInput struct {
	ClientID            uuid.UUID
	TriggeringPaymentID *uuid.UUID // payment that caused the recompute, when known
	AsOf                time.Time  // zero value means "now"
}

// RecomputeClientRatingOutput represents the result of a rating recomputation.
type RecomputeClientRatingOutput struct {
	PreviousLabel      string
	NewLabel           string
	DaysOverdue        int
	AccumulatedArrears decimal.Decimal
	Changed            bool
}

// RecomputeClientRatingUseCase derives a client's creditworthiness label from
// the maximum days-overdue across their unpaid notes, applies the rating
// policy bands, and appends a history entry when the label changes.
type RecomputeClientRatingUseCase struct {
	noteRepo    adapter.NoteRepository
	clientRepo  adapter.ClientRepository
	policyRepo  adapter.RatingPolicyRepository
	historyRepo adapter.RatingHistoryRepository
	audit       adapter.AuditSink
}

// NewRecomputeClientRatingUseCase creates a new RecomputeClientRatingUseCase instance.
func NewRecomputeClientRatingUseCase(
	noteRepo adapter.NoteRepository,
	clientRepo adapter.ClientRepository,
	policyRepo adapter.RatingPolicyRepository,
	historyRepo adapter.RatingHistoryRepository,
	audit adapter.AuditSink,
) *RecomputeClientRatingUseCase {
	return &RecomputeClientRatingUseCase{
		noteRepo:    noteRepo,
		clientRepo:  clientRepo,
		policyRepo:  policyRepo,
		historyRepo: historyRepo,
		audit:       audit,
	}
}

// Execute performs the rating recomputation.
func (uc *RecomputeClientRatingUseCase) Execute(
	ctx context.Context,
	input RecomputeClientRatingInput,
) (*RecomputeClientRatingOutput, error) {
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	client, err := uc.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	totalNotes, err := uc.noteRepo.CountByClient(ctx, input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to count client notes: %w", err)
	}

	unpaid, err := uc.noteRepo.FindUnpaidByClient(ctx, input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unpaid notes: %w", err)
	}

	maxDaysOverdue := 0
	arrears := decimal.Zero
	for _, note := range unpaid {
		days := valueobject.DaysOverdue(note.DueDate, asOf)
		if days > maxDaysOverdue {
			maxDaysOverdue = days
		}
		if days > 0 {
			arrears = arrears.Add(note.OutstandingBalance)
		}
	}

	bands, err := uc.policyRepo.FindBandsOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating policy: %w", err)
	}
	if err := ValidateBands(bands); err != nil {
		// Misconfigured policy is detected and reported, never auto-corrected.
		return nil, err
	}

	newLabel := resolveLabel(bands, maxDaysOverdue, totalNotes > 0)

	output := &RecomputeClientRatingOutput{
		PreviousLabel:      client.RatingLabel,
		NewLabel:           newLabel,
		DaysOverdue:        maxDaysOverdue,
		AccumulatedArrears: arrears,
		Changed:            newLabel != client.RatingLabel,
	}

	if !output.Changed && arrears.Equal(client.AccumulatedArrears) {
		return output, nil
	}

	if err := uc.clientRepo.UpdateRating(ctx, client.ID, newLabel, arrears); err != nil {
		return nil, fmt.Errorf("failed to update client rating: %w", err)
	}

	if output.Changed {
		reason := fmt.Sprintf("rating recomputed at %d day(s) overdue: %s -> %s",
			maxDaysOverdue, client.RatingLabel, newLabel)

		entry := entity.NewRatingHistoryEntry(
			client.ID, client.RatingLabel, newLabel, input.TriggeringPaymentID, reason)
		if err := uc.historyRepo.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to append rating history: %w", err)
		}

		uc.audit.Record(ctx, adapter.AuditRecord{
			Action:   "rating_change",
			Table:    "clients",
			RecordID: client.ID.String(),
			PreviousData: map[string]any{
				"rating_label":        client.RatingLabel,
				"accumulated_arrears": client.AccumulatedArrears.String(),
			},
			NewData: map[string]any{
				"rating_label":        newLabel,
				"accumulated_arrears": arrears.String(),
			},
			Details: reason,
		})

		slog.Info("Client rating changed",
			"clientID", client.ID,
			"previous", client.RatingLabel,
			"new", newLabel,
			"daysOverdue", maxDaysOverdue,
		)
	}

	return output, nil
}
