package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/usecase/payment"
	"github.com/dealership/backoffice/internal/application/usecase/reconciliation"
	"github.com/dealership/backoffice/internal/application/usecase/statement"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
	"github.com/dealership/backoffice/internal/integration/persistence/model"
)

const dateLayout = "2006-01-02"

func registerFixtureSteps(ctx *godog.ScenarioContext, s *ledgerSuite) {
	ctx.Step(`^the rating policy:$`, s.theRatingPolicy)
	ctx.Step(`^a client "([^"]*)" with document "([^"]*)"$`, s.aClientWithDocument)
	ctx.Step(`^a sale for "([^"]*)" of "([^"]*)" with penalty "([^"]*)" per "([^"]*)" and a grace period of (\d+) days$`, s.aSaleFor)
	ctx.Step(`^note (\d+) is an? "([^"]*)" of "([^"]*)" due on "([^"]*)"$`, s.noteIsDueOn)
	ctx.Step(`^note (\d+) is corrupted to status "([^"]*)" with outstanding balance "([^"]*)"$`, s.noteIsCorrupted)
}

func registerPaymentSteps(ctx *godog.ScenarioContext, s *ledgerSuite) {
	ctx.Step(`^a "([^"]*)" payment of "([^"]*)" with receipt "([^"]*)" is registered against note (\d+) on "([^"]*)"$`, s.aPaymentIsRegistered)
}

func registerOutcomeSteps(ctx *godog.ScenarioContext, s *ledgerSuite) {
	ctx.Step(`^the payment is accepted$`, s.thePaymentIsAccepted)
	ctx.Step(`^the payment is rejected as a duplicate receipt$`, s.thePaymentIsRejectedAsDuplicate)
	ctx.Step(`^the payment accrued (\d+) days? late and penalty "([^"]*)"$`, s.thePaymentAccrued)
	ctx.Step(`^the payment has overpayment "([^"]*)"$`, s.thePaymentHasOverpayment)
	ctx.Step(`^note (\d+) has status "([^"]*)" with outstanding balance "([^"]*)"$`, s.noteHasStatusAndBalance)
	ctx.Step(`^note (\d+) is marked cancelled$`, s.noteIsMarkedCancelled)
	ctx.Step(`^the client "([^"]*)" has rating "([^"]*)"$`, s.theClientHasRating)
	ctx.Step(`^the rating history of "([^"]*)" has (\d+) entr(?:y|ies)$`, s.theRatingHistoryHas)
}

func registerAuditSteps(ctx *godog.ScenarioContext, s *ledgerSuite) {
	ctx.Step(`^a consistency audit runs$`, s.aConsistencyAuditRuns)
	ctx.Step(`^a consistency audit runs with repair$`, s.aConsistencyAuditRunsWithRepair)
	ctx.Step(`^the audit reports (\d+) drifted notes?$`, s.theAuditReportsDrifted)
	ctx.Step(`^the audit repaired (\d+) notes?$`, s.theAuditRepaired)
}

func registerStatementSteps(ctx *godog.ScenarioContext, s *ledgerSuite) {
	ctx.Step(`^the statement of the sale is requested on "([^"]*)"$`, s.theStatementIsRequested)
	ctx.Step(`^the statement has total outstanding "([^"]*)" and total penalty "([^"]*)"$`, s.theStatementHasTotals)
	ctx.Step(`^statement line (\d+) shows remaining "([^"]*)" after it$`, s.statementLineShowsRemaining)
}

// Fixture steps

func (s *ledgerSuite) theRatingPolicy(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("rating policy table needs a header and at least one band")
	}
	for _, row := range table.Rows[1:] {
		daysFrom, err := parseIntCell(row.Cells[0].Value)
		if err != nil {
			return fmt.Errorf("days_from: %w", err)
		}
		var daysTo *int
		if row.Cells[1].Value != "" {
			to, err := parseIntCell(row.Cells[1].Value)
			if err != nil {
				return fmt.Errorf("days_to: %w", err)
			}
			daysTo = &to
		}
		band := &model.RatingBandModel{
			ID:       uuid.New(),
			DaysFrom: daysFrom,
			DaysTo:   daysTo,
			Label:    row.Cells[2].Value,
		}
		if err := s.db.DbConn.Create(band).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *ledgerSuite) aClientWithDocument(name, document string) error {
	client := entity.NewClient(name, document)
	if err := s.injector.ClientRepo.Create(context.Background(), client); err != nil {
		return err
	}
	s.clients[name] = client
	return nil
}

func (s *ledgerSuite) aSaleFor(clientName, total, penalty, unit string, graceDays int) error {
	client, ok := s.clients[clientName]
	if !ok {
		return fmt.Errorf("unknown client %q", clientName)
	}
	totalAmount, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	penaltyPerPeriod, err := decimal.NewFromString(penalty)
	if err != nil {
		return err
	}
	if !entity.IsValidPeriodUnit(entity.PeriodUnit(unit)) {
		return fmt.Errorf("invalid period unit %q", unit)
	}

	sale := entity.NewSale(
		client.ID,
		"VIN-TEST-0001",
		totalAmount,
		penaltyPerPeriod,
		entity.PeriodUnit(unit),
		graceDays,
		time.Now().UTC(),
	)
	if err := s.injector.SaleRepo.Create(context.Background(), sale); err != nil {
		return err
	}
	s.sale = sale
	return nil
}

func (s *ledgerSuite) noteIsDueOn(sequence int, kind, amount, dueDate string) error {
	if s.sale == nil {
		return fmt.Errorf("no sale created yet")
	}
	amountDue, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return err
	}

	note := entity.NewNote(s.sale.ID, sequence, entity.ObligationKind(kind), amountDue, due)
	if err := s.injector.NoteRepo.Create(context.Background(), note); err != nil {
		return err
	}
	s.notes[sequence] = note
	return nil
}

func (s *ledgerSuite) noteIsCorrupted(sequence int, status, balance string) error {
	id, ok := s.noteID(sequence)
	if !ok {
		return fmt.Errorf("unknown note %d", sequence)
	}
	bal, err := decimal.NewFromString(balance)
	if err != nil {
		return err
	}
	cancelled := entity.NoteStatus(status) == entity.NoteStatusPaid
	return s.injector.NoteRepo.UpdateBalanceAndStatus(
		context.Background(), id, bal, entity.NoteStatus(status), cancelled,
	)
}

// Action steps

func (s *ledgerSuite) aPaymentIsRegistered(method, amount, receipt string, sequence int, date string) error {
	id, ok := s.noteID(sequence)
	if !ok {
		return fmt.Errorf("unknown note %d", sequence)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	paid, err := time.Parse(dateLayout, date)
	if err != nil {
		return err
	}

	s.lastPayment, s.lastErr = s.injector.RegisterPayment.Execute(context.Background(), payment.RegisterPaymentInput{
		NoteID:        id,
		Amount:        amt,
		Date:          paid,
		Method:        entity.PaymentMethod(method),
		ReceiptNumber: receipt,
	})
	return nil
}

func (s *ledgerSuite) aConsistencyAuditRuns() error {
	s.lastAudit, s.lastErr = s.injector.ConsistencyAudit.Execute(context.Background(), reconciliation.ConsistencyAuditInput{})
	return s.lastErr
}

func (s *ledgerSuite) aConsistencyAuditRunsWithRepair() error {
	s.lastAudit, s.lastErr = s.injector.ConsistencyAudit.Execute(context.Background(), reconciliation.ConsistencyAuditInput{
		Repair: true,
	})
	return s.lastErr
}

func (s *ledgerSuite) theStatementIsRequested(date string) error {
	if s.sale == nil {
		return fmt.Errorf("no sale created yet")
	}
	asOf, err := time.Parse(dateLayout, date)
	if err != nil {
		return err
	}
	s.lastStatement, s.lastErr = s.injector.SaleStatement.Execute(context.Background(), statement.GetSaleStatementInput{
		SaleID: s.sale.ID,
		AsOf:   asOf,
	})
	return s.lastErr
}

// Outcome steps

func (s *ledgerSuite) thePaymentIsAccepted() error {
	if s.lastErr != nil {
		return fmt.Errorf("payment was rejected: %v", s.lastErr)
	}
	if s.lastPayment == nil {
		return fmt.Errorf("no payment was registered")
	}
	return nil
}

func (s *ledgerSuite) thePaymentIsRejectedAsDuplicate() error {
	if s.lastErr == nil {
		return fmt.Errorf("payment was accepted, expected a duplicate receipt rejection")
	}
	if !errors.Is(s.lastErr, domainerror.ErrDuplicateReceipt) {
		return fmt.Errorf("expected duplicate receipt error, got: %v", s.lastErr)
	}
	return nil
}

func (s *ledgerSuite) thePaymentAccrued(daysLate int, penalty string) error {
	if s.lastPayment == nil {
		return fmt.Errorf("no payment was registered")
	}
	expected, err := decimal.NewFromString(penalty)
	if err != nil {
		return err
	}
	if s.lastPayment.DaysLate != daysLate {
		return fmt.Errorf("expected %d days late, got %d", daysLate, s.lastPayment.DaysLate)
	}
	if !s.lastPayment.PenaltyApplied.Equal(expected) {
		return fmt.Errorf("expected penalty %s, got %s", expected, s.lastPayment.PenaltyApplied)
	}
	return nil
}

func (s *ledgerSuite) thePaymentHasOverpayment(overpayment string) error {
	if s.lastPayment == nil {
		return fmt.Errorf("no payment was registered")
	}
	expected, err := decimal.NewFromString(overpayment)
	if err != nil {
		return err
	}
	if !s.lastPayment.Overpayment.Equal(expected) {
		return fmt.Errorf("expected overpayment %s, got %s", expected, s.lastPayment.Overpayment)
	}
	return nil
}

func (s *ledgerSuite) noteHasStatusAndBalance(sequence int, status, balance string) error {
	note, err := s.findNote(sequence)
	if err != nil {
		return err
	}
	expected, err := decimal.NewFromString(balance)
	if err != nil {
		return err
	}
	if note.Status != entity.NoteStatus(status) {
		return fmt.Errorf("expected status %s, got %s", status, note.Status)
	}
	if !note.OutstandingBalance.Equal(expected) {
		return fmt.Errorf("expected balance %s, got %s", expected, note.OutstandingBalance)
	}
	return nil
}

func (s *ledgerSuite) noteIsMarkedCancelled(sequence int) error {
	note, err := s.findNote(sequence)
	if err != nil {
		return err
	}
	if !note.Cancelled {
		return fmt.Errorf("note %d is not cancelled", sequence)
	}
	return nil
}

func (s *ledgerSuite) theClientHasRating(name, label string) error {
	client, ok := s.clients[name]
	if !ok {
		return fmt.Errorf("unknown client %q", name)
	}
	stored, err := s.injector.ClientRepo.FindByID(context.Background(), client.ID)
	if err != nil {
		return err
	}
	if stored.RatingLabel != label {
		return fmt.Errorf("expected rating %q, got %q", label, stored.RatingLabel)
	}
	return nil
}

func (s *ledgerSuite) theRatingHistoryHas(name string, count int) error {
	client, ok := s.clients[name]
	if !ok {
		return fmt.Errorf("unknown client %q", name)
	}
	entries, err := s.injector.HistoryRepo.FindByClient(context.Background(), client.ID)
	if err != nil {
		return err
	}
	if len(entries) != count {
		return fmt.Errorf("expected %d history entries, got %d", count, len(entries))
	}
	return nil
}

func (s *ledgerSuite) theAuditReportsDrifted(count int) error {
	if s.lastAudit == nil {
		return fmt.Errorf("no audit has run")
	}
	if len(s.lastAudit.Findings) != count {
		return fmt.Errorf("expected %d drifted notes, got %d", count, len(s.lastAudit.Findings))
	}
	return nil
}

func (s *ledgerSuite) theAuditRepaired(count int) error {
	if s.lastAudit == nil {
		return fmt.Errorf("no audit has run")
	}
	if s.lastAudit.Repaired != count {
		return fmt.Errorf("expected %d repaired notes, got %d", count, s.lastAudit.Repaired)
	}
	return nil
}

func (s *ledgerSuite) theStatementHasTotals(outstanding, penalty string) error {
	if s.lastStatement == nil {
		return fmt.Errorf("no statement was requested")
	}
	expectedOutstanding, err := decimal.NewFromString(outstanding)
	if err != nil {
		return err
	}
	expectedPenalty, err := decimal.NewFromString(penalty)
	if err != nil {
		return err
	}
	if !s.lastStatement.TotalOutstanding.Equal(expectedOutstanding) {
		return fmt.Errorf("expected total outstanding %s, got %s", expectedOutstanding, s.lastStatement.TotalOutstanding)
	}
	if !s.lastStatement.TotalPenalty.Equal(expectedPenalty) {
		return fmt.Errorf("expected total penalty %s, got %s", expectedPenalty, s.lastStatement.TotalPenalty)
	}
	return nil
}

func (s *ledgerSuite) statementLineShowsRemaining(sequence int, remaining string) error {
	if s.lastStatement == nil {
		return fmt.Errorf("no statement was requested")
	}
	expected, err := decimal.NewFromString(remaining)
	if err != nil {
		return err
	}
	for _, line := range s.lastStatement.Lines {
		if line.Sequence == sequence {
			if !line.RemainingAfter.Equal(expected) {
				return fmt.Errorf("expected remaining %s after line %d, got %s", expected, sequence, line.RemainingAfter)
			}
			return nil
		}
	}
	return fmt.Errorf("statement has no line with sequence %d", sequence)
}

// Helpers

func (s *ledgerSuite) findNote(sequence int) (*entity.Note, error) {
	id, ok := s.noteID(sequence)
	if !ok {
		return nil, fmt.Errorf("unknown note %d", sequence)
	}
	return s.injector.NoteRepo.FindByID(context.Background(), id)
}

func parseIntCell(value string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", value, err)
	}
	return n, nil
}
