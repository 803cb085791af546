package billing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a draft
type Status int

const (
	StatusEditing Status = iota
	StatusPreviewReady
	StatusPaid
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusEditing:
		return "editing"
	case StatusPreviewReady:
		return "preview_ready"
	case StatusPaid:
		return "paid"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// MarshalText lets the status travel as a string in JSON payloads
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// BillRecord is the bill header written at pay time
type BillRecord struct {
	InvoiceNumber      string
	CustomerIdentifier string
	Total              decimal.Decimal
}

// Gateway persists a finalized draft in two separate writes
type Gateway interface {
	InsertBill(ctx context.Context, bill BillRecord) (billID string, err error)
	InsertBillItems(ctx context.Context, billID string, items []LineItem) error
}

// Compensator is implemented by gateways that can undo a bill insert whose
// items could not be written.
type Compensator interface {
	DeleteBill(ctx context.Context, billID string) error
}

// Finalized describes a bill that was persisted by Pay
type Finalized struct {
	BillID             string     `json:"bill_id"`
	InvoiceNumber      string     `json:"invoice_number"`
	CustomerIdentifier string     `json:"customer_identifier"`
	Items              []LineItem `json:"items"`
	Totals             Totals     `json:"totals"`
}

// FinalizeFunc is called once per successful Pay
type FinalizeFunc func(Finalized)

// Draft is a read-only view of the machine
type Draft struct {
	InvoiceNumber      string     `json:"invoice_number"`
	CustomerIdentifier string     `json:"customer_identifier"`
	Items              []LineItem `json:"items"`
	Status             Status     `json:"status"`
	Totals             Totals     `json:"totals"`
}

// Machine drives one bill draft from entry to payment or cancellation.
// It is not safe for concurrent use.
type Machine struct {
	gen        Generator
	gateway    Gateway
	onFinalize FinalizeFunc

	invoiceNumber string
	customer      string
	store         *ItemStore
	status        Status
}

// NewMachine starts a fresh draft in Editing
func NewMachine(gen Generator, gateway Gateway, onFinalize FinalizeFunc) *Machine {
	m := &Machine{
		gen:        gen,
		gateway:    gateway,
		onFinalize: onFinalize,
		store:      NewItemStore(),
	}
	m.invoiceNumber = gen.Generate()
	return m
}

// Status returns the current state
func (m *Machine) Status() Status { return m.status }

// InvoiceNumber returns the number of the current draft
func (m *Machine) InvoiceNumber() string { return m.invoiceNumber }

// Customer returns the customer identifier of the current draft
func (m *Machine) Customer() string { return m.customer }

// Items returns a copy of all rows, including incomplete ones
func (m *Machine) Items() []LineItem { return m.store.Items() }

// Totals is recomputed from the rows on every call
func (m *Machine) Totals() Totals { return Compute(m.store.Items()) }

// Snapshot returns the whole draft
func (m *Machine) Snapshot() Draft {
	items := m.store.Items()
	return Draft{
		InvoiceNumber:      m.invoiceNumber,
		CustomerIdentifier: m.customer,
		Items:              items,
		Status:             m.status,
		Totals:             Compute(items),
	}
}

// SetInvoiceNumber overrides the generated number
func (m *Machine) SetInvoiceNumber(number string) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	m.invoiceNumber = strings.TrimSpace(number)
	return nil
}

// SetCustomer sets the email or phone the bill is issued to
func (m *Machine) SetCustomer(customer string) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	m.customer = strings.TrimSpace(customer)
	return nil
}

// AddItem appends an empty row and returns its index
func (m *Machine) AddItem() (int, error) {
	if m.status != StatusEditing {
		return 0, ErrNotEditing
	}
	return m.store.AddItem(), nil
}

// UpdateItem edits one field of one row
func (m *Machine) UpdateItem(index int, field Field, value string, catalog Catalog) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	return m.store.UpdateItem(index, field, value, catalog)
}

// RemoveItem deletes one row
func (m *Machine) RemoveItem(index int) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	return m.store.RemoveItem(index)
}

// Validate lists every condition that keeps the draft from preview
func (m *Machine) Validate() error {
	var problems []Problem
	if m.invoiceNumber == "" {
		problems = append(problems, Problem{Field: "invoice_number", Message: "invoice number is required"})
	}
	if m.customer == "" {
		problems = append(problems, Problem{Field: "customer_identifier", Message: "customer email or phone is required"})
	}
	if len(ValidItems(m.store.Items())) == 0 {
		problems = append(problems, Problem{Field: "items", Message: "at least one item with a name, quantity and price is required"})
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Preview moves Editing to PreviewReady when the draft validates
func (m *Machine) Preview() error {
	if m.status != StatusEditing {
		return ErrInvalidTransition
	}
	if err := m.Validate(); err != nil {
		return err
	}
	m.status = StatusPreviewReady
	return nil
}

// BackToEdit returns from PreviewReady to Editing, keeping the draft as is
func (m *Machine) BackToEdit() error {
	if m.status != StatusPreviewReady {
		return ErrInvalidTransition
	}
	m.status = StatusEditing
	return nil
}

// Pay persists the bill and its valid rows, fires the finalize callback and
// starts a new draft. On a storage failure the machine stays in PreviewReady.
func (m *Machine) Pay(ctx context.Context) (*Finalized, error) {
	if m.status != StatusPreviewReady {
		return nil, ErrInvalidTransition
	}

	valid := ValidItems(m.store.Items())
	totals := Compute(valid)

	billID, err := m.gateway.InsertBill(ctx, BillRecord{
		InvoiceNumber:      m.invoiceNumber,
		CustomerIdentifier: m.customer,
		Total:              totals.Total,
	})
	if err != nil {
		return nil, &StorageError{Phase: PhaseBill, Err: err}
	}

	if err := m.gateway.InsertBillItems(ctx, billID, valid); err != nil {
		serr := &StorageError{Phase: PhaseItems, BillID: billID, Err: err}
		if c, ok := m.gateway.(Compensator); ok {
			if cerr := c.DeleteBill(ctx, billID); cerr == nil {
				serr.Compensated = true
			}
		}
		return nil, serr
	}

	fin := &Finalized{
		BillID:             billID,
		InvoiceNumber:      m.invoiceNumber,
		CustomerIdentifier: m.customer,
		Items:              valid,
		Totals:             totals,
	}
	m.status = StatusPaid
	if m.onFinalize != nil {
		m.onFinalize(*fin)
	}
	m.restart()
	return fin, nil
}

// Cancel discards a previewed draft without writing anything
func (m *Machine) Cancel() error {
	if m.status != StatusPreviewReady {
		return ErrInvalidTransition
	}
	m.status = StatusCancelled
	m.restart()
	return nil
}

// Discard throws away the draft being edited and starts a new one
func (m *Machine) Discard() error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	m.restart()
	return nil
}

func (m *Machine) restart() {
	m.invoiceNumber = m.gen.Generate()
	m.customer = ""
	m.store.Reset()
	m.status = StatusEditing
}
