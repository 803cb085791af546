package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	infraRepo "github.com/sangkips/invex-billing/internal/infrastructure/repository"
	"go.uber.org/zap"
)

// CatalogProvider hands out the current catalog snapshot
type CatalogProvider interface {
	Catalog(ctx context.Context) (billing.Catalog, error)
}

// ReceiptPrinter prints the receipt of a persisted bill
type ReceiptPrinter interface {
	PrintReceipt(ctx context.Context, billID uuid.UUID) error
}

// DraftService keeps one bill draft per user. Requests of the same user are
// serialised on that user's session, different users never share a draft.
type DraftService struct {
	billRepo     repository.BillRepository
	billItemRepo repository.BillItemRepository
	catalog      CatalogProvider
	hub          notify.Hub
	printer      ReceiptPrinter
	numbers      billing.Generator
	log          *zap.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*draftSession
	printing sync.WaitGroup
}

type draftSession struct {
	mu      sync.Mutex
	machine *billing.Machine
}

// DraftServiceConfig holds the optional parts of a DraftService
type DraftServiceConfig struct {
	// Numbers overrides the invoice number source
	Numbers billing.Generator
	// MaxNumberAttempts bounds the retries against persisted numbers
	MaxNumberAttempts int
	// Printer, when set, prints a receipt for every finalized bill
	Printer ReceiptPrinter
}

// NewDraftService creates a new draft service
func NewDraftService(
	billRepo repository.BillRepository,
	billItemRepo repository.BillItemRepository,
	catalog CatalogProvider,
	hub notify.Hub,
	log *zap.Logger,
	cfg DraftServiceConfig,
) *DraftService {
	s := &DraftService{
		billRepo:     billRepo,
		billItemRepo: billItemRepo,
		catalog:      catalog,
		hub:          hub,
		printer:      cfg.Printer,
		log:          log.Named("draft"),
		sessions:     make(map[uuid.UUID]*draftSession),
	}

	inner := cfg.Numbers
	if inner == nil {
		inner = billing.NewTimestampGenerator(time.Now)
	}
	s.numbers = billing.NewUniqueGenerator(inner, s.numberTaken, cfg.MaxNumberAttempts)
	return s
}

// Wait blocks until pending receipt prints are done
func (s *DraftService) Wait() {
	s.printing.Wait()
}

func (s *DraftService) numberTaken(number string) bool {
	taken, err := s.billRepo.ExistsByInvoiceNumber(context.Background(), number)
	if err != nil {
		// the unique index still guards the insert
		s.log.Warn("check invoice number", zap.String("invoice_number", number), zap.Error(err))
		return false
	}
	return taken
}

func (s *DraftService) session(userID uuid.UUID) *draftSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		gateway := infraRepo.NewBillGateway(s.billRepo, s.billItemRepo, userID)
		sess = &draftSession{machine: billing.NewMachine(s.numbers, gateway, s.onFinalize(userID))}
		s.sessions[userID] = sess
	}
	return sess
}

// with runs fn on the user's machine under the session lock and returns
// the draft as fn left it
func (s *DraftService) with(userID uuid.UUID, fn func(m *billing.Machine) error) (*billing.Draft, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess.machine); err != nil {
		return nil, mapBillingError(err)
	}
	draft := sess.machine.Snapshot()
	return &draft, nil
}

// GetDraft returns the user's current draft, starting one if needed
func (s *DraftService) GetDraft(ctx context.Context, userID uuid.UUID) (*billing.Draft, error) {
	return s.with(userID, func(*billing.Machine) error { return nil })
}

// UpdateDraftInput carries the draft header fields. Nil fields are left
// unchanged.
type UpdateDraftInput struct {
	InvoiceNumber      *string
	CustomerIdentifier *string
}

// UpdateDraft edits the invoice number and customer of the draft
func (s *DraftService) UpdateDraft(ctx context.Context, userID uuid.UUID, input *UpdateDraftInput) (*billing.Draft, error) {
	return s.with(userID, func(m *billing.Machine) error {
		if input.InvoiceNumber != nil {
			if err := m.SetInvoiceNumber(*input.InvoiceNumber); err != nil {
				return err
			}
		}
		if input.CustomerIdentifier != nil {
			return m.SetCustomer(*input.CustomerIdentifier)
		}
		return nil
	})
}

// NewDraft throws the current draft away and starts a fresh one. A draft
// in preview is cancelled, one being edited is discarded.
func (s *DraftService) NewDraft(ctx context.Context, userID uuid.UUID) (*billing.Draft, error) {
	return s.with(userID, func(m *billing.Machine) error {
		number := m.InvoiceNumber()
		var err error
		if m.Status() == billing.StatusPreviewReady {
			err = m.Cancel()
		} else {
			err = m.Discard()
		}
		if err == nil {
			s.log.Info("draft discarded", zap.String("user_id", userID.String()), zap.String("invoice_number", number))
		}
		return err
	})
}

// AddItem appends an empty row and returns the draft with the row's index
func (s *DraftService) AddItem(ctx context.Context, userID uuid.UUID) (*billing.Draft, int, error) {
	index := -1
	draft, err := s.with(userID, func(m *billing.Machine) error {
		var err error
		index, err = m.AddItem()
		return err
	})
	return draft, index, err
}

// UpdateItemInput sets one field of one row
type UpdateItemInput struct {
	Index int
	Field string
	Value string
}

// UpdateItem edits one field of a row. Linking a product loads the catalog
// snapshot first so the row lock is held without touching storage.
func (s *DraftService) UpdateItem(ctx context.Context, userID uuid.UUID, input *UpdateItemInput) (*billing.Draft, error) {
	field, err := billing.ParseField(input.Field)
	if err != nil {
		return nil, mapBillingError(err)
	}

	var catalog billing.Catalog
	if field == billing.FieldProductRef {
		catalog, err = s.catalog.Catalog(ctx)
		if err != nil {
			return nil, err
		}
	}

	return s.with(userID, func(m *billing.Machine) error {
		return m.UpdateItem(input.Index, field, input.Value, catalog)
	})
}

// RemoveItem deletes a row
func (s *DraftService) RemoveItem(ctx context.Context, userID uuid.UUID, index int) (*billing.Draft, error) {
	return s.with(userID, func(m *billing.Machine) error {
		return m.RemoveItem(index)
	})
}

// Preview validates the draft and moves it to preview
func (s *DraftService) Preview(ctx context.Context, userID uuid.UUID) (*billing.Draft, error) {
	return s.with(userID, func(m *billing.Machine) error {
		return m.Preview()
	})
}

// BackToEdit returns a previewed draft to editing
func (s *DraftService) BackToEdit(ctx context.Context, userID uuid.UUID) (*billing.Draft, error) {
	return s.with(userID, func(m *billing.Machine) error {
		return m.BackToEdit()
	})
}

// Cancel discards a previewed draft without persisting it
func (s *DraftService) Cancel(ctx context.Context, userID uuid.UUID) (*billing.Draft, error) {
	return s.with(userID, func(m *billing.Machine) error {
		number := m.InvoiceNumber()
		if err := m.Cancel(); err != nil {
			return err
		}
		s.log.Info("bill cancelled", zap.String("user_id", userID.String()), zap.String("invoice_number", number))
		return nil
	})
}

// PayResult is the finalized bill plus the fresh draft that replaced it
type PayResult struct {
	Bill  *billing.Finalized `json:"bill"`
	Draft *billing.Draft     `json:"draft"`
}

// Pay persists the previewed draft
func (s *DraftService) Pay(ctx context.Context, userID uuid.UUID) (*PayResult, error) {
	var fin *billing.Finalized
	draft, err := s.with(userID, func(m *billing.Machine) error {
		var err error
		fin, err = m.Pay(ctx)
		if err != nil {
			s.log.Error("bill not persisted",
				zap.String("user_id", userID.String()),
				zap.String("invoice_number", m.InvoiceNumber()),
				zap.Error(err),
			)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &PayResult{Bill: fin, Draft: draft}, nil
}

func (s *DraftService) onFinalize(userID uuid.UUID) billing.FinalizeFunc {
	return func(fin billing.Finalized) {
		s.log.Info("bill finalized",
			zap.String("user_id", userID.String()),
			zap.String("bill_id", fin.BillID),
			zap.String("invoice_number", fin.InvoiceNumber),
			zap.String("total", fin.Totals.Total.StringFixed(2)),
			zap.Int("items", len(fin.Items)),
		)

		event := notify.Event{
			Topic:  notify.TopicBills,
			Action: notify.ActionCreated,
			ID:     fin.BillID,
			UserID: userID.String(),
			At:     time.Now(),
		}
		if err := s.hub.Publish(context.Background(), event); err != nil {
			s.log.Warn("publish bill", zap.String("bill_id", fin.BillID), zap.Error(err))
		}

		if s.printer != nil {
			s.autoPrint(fin.BillID)
		}
	}
}

func (s *DraftService) autoPrint(billID string) {
	id, err := uuid.Parse(billID)
	if err != nil {
		return
	}
	s.printing.Add(1)
	go func() {
		defer s.printing.Done()
		ctx, cancel := context.WithTimeout(infraRepo.WithSkipOwnerScope(context.Background(), true), 30*time.Second)
		defer cancel()
		if err := s.printer.PrintReceipt(ctx, id); err != nil {
			s.log.Warn("auto print", zap.String("bill_id", billID), zap.Error(err))
		}
	}()
}
