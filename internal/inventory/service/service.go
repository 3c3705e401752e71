package service

import (
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/events"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

// InventoryService handles ledger movements, production runs, exports and
// the read models built on the catalog
type InventoryService struct {
	repo      *repository.Repository
	formulas  *domain.FormulaCatalog
	index     *GroupIndex
	publisher *events.InventoryEventPublisher
	insight   TextGenerator
	logger    *logger.Logger
	now       func() time.Time
}

// Option configures an InventoryService
type Option func(*InventoryService)

// WithClock overrides the time source used for transaction dates
func WithClock(now func() time.Time) Option {
	return func(s *InventoryService) { s.now = now }
}

// WithTextGenerator sets the generator behind Insight
func WithTextGenerator(g TextGenerator) Option {
	return func(s *InventoryService) { s.insight = g }
}

// NewInventoryService creates a new inventory service. publisher may be nil.
func NewInventoryService(
	repo *repository.Repository,
	formulas *domain.FormulaCatalog,
	publisher *events.InventoryEventPublisher,
	log *logger.Logger,
	opts ...Option,
) *InventoryService {
	if formulas == nil {
		formulas = domain.NewFormulaCatalog()
	}
	s := &InventoryService{
		repo:      repo,
		formulas:  formulas,
		index:     NewGroupIndex(),
		publisher: publisher,
		logger:    log.WithComponent("inventory"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Formulas returns the master product definitions
func (s *InventoryService) Formulas() []domain.Formula {
	return s.formulas.List()
}

// timestamp is the shared date of every transaction in one commit
func (s *InventoryService) timestamp() time.Time {
	return s.now().UTC()
}
