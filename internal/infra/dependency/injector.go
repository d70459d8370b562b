// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dealership/backoffice/config"
	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/application/usecase/payment"
	"github.com/dealership/backoffice/internal/application/usecase/rating"
	"github.com/dealership/backoffice/internal/application/usecase/reconciliation"
	"github.com/dealership/backoffice/internal/application/usecase/sale"
	"github.com/dealership/backoffice/internal/application/usecase/statement"
	"github.com/dealership/backoffice/internal/integration/adapters"
	"github.com/dealership/backoffice/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB

	NoteRepo    adapter.NoteRepository
	PaymentRepo adapter.PaymentRepository
	SaleRepo    adapter.SaleRepository
	ClientRepo  adapter.ClientRepository
	PolicyRepo  adapter.RatingPolicyRepository
	HistoryRepo adapter.RatingHistoryRepository
	TxManager   adapter.TxManager
	AuditSink   adapter.AuditSink

	RecomputeRating  *rating.RecomputeClientRatingUseCase
	ReconcileNote    *reconciliation.ReconcileNoteUseCase
	ConsistencyAudit *reconciliation.ConsistencyAuditUseCase
	RegisterPayment  *payment.RegisterPaymentUseCase
	BookSale         *sale.BookSaleUseCase
	SaleStatement    *statement.GetSaleStatementUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil redis client disables the rating policy cache; reads then go straight
// to the database.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	noteRepo := persistence.NewNoteRepository(db)
	paymentRepo := persistence.NewPaymentRepository(db)
	saleRepo := persistence.NewSaleRepository(db)
	clientRepo := persistence.NewClientRepository(db)
	historyRepo := persistence.NewRatingHistoryRepository(db)
	txManager := persistence.NewTxManager(db)

	var policyRepo adapter.RatingPolicyRepository = persistence.NewRatingPolicyRepository(db)
	if redisClient != nil {
		policyRepo = adapters.NewCachedRatingPolicyRepository(
			policyRepo,
			redisClient,
			cfg.Rating.PolicyCacheTTL,
			slog.Default(),
		)
	}

	auditSink := adapters.NewLogAuditSink(slog.Default())

	// Create use cases
	recomputeRating := rating.NewRecomputeClientRatingUseCase(
		noteRepo,
		clientRepo,
		policyRepo,
		historyRepo,
		auditSink,
	)
	reconcileNote := reconciliation.NewReconcileNoteUseCase(
		noteRepo,
		paymentRepo,
		saleRepo,
		recomputeRating,
		auditSink,
	)
	consistencyAudit := reconciliation.NewConsistencyAuditUseCase(
		noteRepo,
		paymentRepo,
		txManager,
		reconcileNote,
	)
	registerPayment := payment.NewRegisterPaymentUseCase(
		noteRepo,
		paymentRepo,
		saleRepo,
		reconcileNote,
		txManager,
		auditSink,
	)
	bookSale := sale.NewBookSaleUseCase(
		clientRepo,
		saleRepo,
		noteRepo,
		txManager,
		auditSink,
	)
	saleStatement := statement.NewGetSaleStatementUseCase(noteRepo, saleRepo)

	return &Injector{
		Config: cfg,
		DB:     db,

		NoteRepo:    noteRepo,
		PaymentRepo: paymentRepo,
		SaleRepo:    saleRepo,
		ClientRepo:  clientRepo,
		PolicyRepo:  policyRepo,
		HistoryRepo: historyRepo,
		TxManager:   txManager,
		AuditSink:   auditSink,

		RecomputeRating:  recomputeRating,
		ReconcileNote:    reconcileNote,
		ConsistencyAudit: consistencyAudit,
		RegisterPayment:  registerPayment,
		BookSale:         bookSale,
		SaleStatement:    saleStatement,
	}
}
