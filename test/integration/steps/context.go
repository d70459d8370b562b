// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/dealership/backoffice/config"
	"github.com/dealership/backoffice/internal/application/usecase/payment"
	"github.com/dealership/backoffice/internal/application/usecase/reconciliation"
	"github.com/dealership/backoffice/internal/application/usecase/statement"
	"github.com/dealership/backoffice/internal/domain/entity"
	"github.com/dealership/backoffice/internal/infra/dependency"
	"github.com/dealership/backoffice/test/integration/mock"
)

// ledgerSuite holds the per-scenario state: the wired application, the
// fixtures created by Given steps, and the outcome of the last When step.
type ledgerSuite struct {
	injector *dependency.Injector
	db       *mock.Db

	clients map[string]*entity.Client
	sale    *entity.Sale
	notes   map[int]*entity.Note // keyed by installment sequence

	lastPayment   *payment.RegisterPaymentOutput
	lastErr       error
	lastAudit     *reconciliation.ConsistencyAuditOutput
	lastStatement *statement.GetSaleStatementOutput
}

func (s *ledgerSuite) reset() error {
	db := mock.NewDb()
	redisClient := mock.NewRedis()

	if err := db.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(redisClient); err != nil {
		return err
	}

	s.injector = dependency.NewInjector(config.Load(), db.DbConn, redisClient)
	s.db = db
	s.clients = make(map[string]*entity.Client)
	s.sale = nil
	s.notes = make(map[int]*entity.Note)
	s.lastPayment = nil
	s.lastErr = nil
	s.lastAudit = nil
	s.lastStatement = nil
	return nil
}

func (s *ledgerSuite) noteID(sequence int) (uuid.UUID, bool) {
	note, ok := s.notes[sequence]
	if !ok {
		return uuid.Nil, false
	}
	return note.ID, true
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		mock.NewDb()
		mock.NewRedis()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	s := &ledgerSuite{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, s.reset()
	})

	registerFixtureSteps(ctx, s)
	registerPaymentSteps(ctx, s)
	registerOutcomeSteps(ctx, s)
	registerAuditSteps(ctx, s)
	registerStatementSteps(ctx, s)
}
