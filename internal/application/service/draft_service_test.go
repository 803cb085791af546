package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	infraRepo "github.com/sangkips/invex-billing/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillDraft(t *testing.T, env *testEnv, userID uuid.UUID, customer string) {
	t.Helper()
	ctx := context.Background()
	_, err := env.drafts.UpdateDraft(ctx, userID, &UpdateDraftInput{CustomerIdentifier: &customer})
	require.NoError(t, err)
	for _, u := range []UpdateItemInput{
		{Index: 0, Field: "name", Value: "Pen"},
		{Index: 0, Field: "quantity", Value: "2"},
		{Index: 0, Field: "price", Value: "10"},
	} {
		u := u
		_, err := env.drafts.UpdateItem(ctx, userID, &u)
		require.NoError(t, err)
	}
}

func TestDraftService_PayPersistsAndRestarts(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	var events []notify.Event
	env.hub.Subscribe(notify.TopicBills, func(e notify.Event) { events = append(events, e) })

	draft, err := env.drafts.GetDraft(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", draft.InvoiceNumber)
	assert.Equal(t, billing.StatusEditing, draft.Status)
	require.Len(t, draft.Items, 1)

	fillDraft(t, env, user.ID, "acme@example.com")

	draft, err = env.drafts.Preview(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPreviewReady, draft.Status)
	assert.Equal(t, "23.60", draft.Totals.Total.StringFixed(2))

	res, err := env.drafts.Pay(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", res.Bill.InvoiceNumber)
	assert.Equal(t, "23.6", res.Bill.Totals.Total.String())
	assert.Equal(t, "INV-000002", res.Draft.InvoiceNumber)
	assert.Equal(t, billing.StatusEditing, res.Draft.Status)
	assert.Empty(t, res.Draft.CustomerIdentifier)
	require.Len(t, res.Draft.Items, 1)
	assert.False(t, res.Draft.Items[0].Valid())

	require.Len(t, events, 1)
	assert.Equal(t, res.Bill.BillID, events[0].ID)
	assert.Equal(t, user.ID.String(), events[0].UserID)

	bill, err := env.bills.GetBill(infraRepo.WithOwner(ctx, user.ID), uuid.MustParse(res.Bill.BillID))
	require.NoError(t, err)
	assert.Equal(t, "acme@example.com", bill.CustomerIdentifier)
	assert.Equal(t, "23.60", bill.Total.StringFixed(2))
	require.Len(t, bill.Items, 1)
	assert.Equal(t, 2, bill.Items[0].Quantity)
}

func TestDraftService_PreviewValidation(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")

	_, err := env.drafts.Preview(context.Background(), user.ID)
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)

	fields := map[string]bool{}
	for _, f := range appErr.Errors {
		fields[f.Field] = true
	}
	assert.True(t, fields["customer_identifier"])
	assert.True(t, fields["items"])
	assert.False(t, fields["invoice_number"])

	draft, err := env.drafts.GetDraft(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusEditing, draft.Status)
}

func TestDraftService_CatalogLinking(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	pen := env.product(t, "Pen", "PEN", "10")
	ctx := context.Background()

	draft, err := env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 0, Field: "productRef", Value: pen.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Pen", draft.Items[0].DisplayName)
	assert.Equal(t, "10", draft.Items[0].UnitPrice.String())

	_, err = env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 0, Field: "price", Value: "1"})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	_, err = env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 0, Field: "productRef", Value: uuid.NewString()})
	appErr := requireAppError(t, err, http.StatusNotFound)
	assert.Equal(t, "Product not found in catalog", appErr.Message)

	draft, err = env.drafts.GetDraft(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, pen.ID.String(), draft.Items[0].ProductRef, "a miss leaves the row untouched")

	_, err = env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 0, Field: "colour", Value: "red"})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 5, Field: "name", Value: "x"})
	requireAppError(t, err, http.StatusNotFound)
}

func TestDraftService_CatalogChangesReachDrafts(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	// prime the cached snapshot
	_, err := env.products.Catalog(ctx)
	require.NoError(t, err)

	pen := env.product(t, "Pen", "PEN", "10")
	draft, err := env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 0, Field: "productRef", Value: pen.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Pen", draft.Items[0].DisplayName)
}

func TestDraftService_CancelAndBackToEdit(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	fillDraft(t, env, user.ID, "acme@example.com")
	_, err := env.drafts.Preview(ctx, user.ID)
	require.NoError(t, err)

	_, _, err = env.drafts.AddItem(ctx, user.ID)
	requireAppError(t, err, http.StatusUnprocessableEntity)

	draft, err := env.drafts.BackToEdit(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusEditing, draft.Status)
	assert.Equal(t, "acme@example.com", draft.CustomerIdentifier)

	_, err = env.drafts.Cancel(ctx, user.ID)
	requireAppError(t, err, http.StatusUnprocessableEntity)

	_, err = env.drafts.Preview(ctx, user.ID)
	require.NoError(t, err)
	draft, err = env.drafts.Cancel(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", draft.InvoiceNumber)
	assert.Empty(t, draft.CustomerIdentifier)
	assert.Len(t, draft.Items, 1)

	count, err := env.dashboard.analyticsRepo.CountBills(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDraftService_NewDraft(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	fillDraft(t, env, user.ID, "acme@example.com")
	draft, err := env.drafts.NewDraft(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", draft.InvoiceNumber)
	assert.Empty(t, draft.CustomerIdentifier)

	fillDraft(t, env, user.ID, "acme@example.com")
	_, err = env.drafts.Preview(ctx, user.ID)
	require.NoError(t, err)
	draft, err = env.drafts.NewDraft(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-000003", draft.InvoiceNumber)
	assert.Equal(t, billing.StatusEditing, draft.Status)
}

func TestDraftService_DuplicateInvoiceNumber(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.register(t, "alice@shop.test")
	bob := env.register(t, "bob@shop.test")
	ctx := context.Background()

	fillDraft(t, env, alice.ID, "a")
	_, err := env.drafts.Preview(ctx, alice.ID)
	require.NoError(t, err)
	res, err := env.drafts.Pay(ctx, alice.ID)
	require.NoError(t, err)

	taken := res.Bill.InvoiceNumber
	fillDraft(t, env, bob.ID, "b")
	_, err = env.drafts.UpdateDraft(ctx, bob.ID, &UpdateDraftInput{InvoiceNumber: &taken})
	require.NoError(t, err)
	_, err = env.drafts.Preview(ctx, bob.ID)
	require.NoError(t, err)

	_, err = env.drafts.Pay(ctx, bob.ID)
	appErr := requireAppError(t, err, http.StatusConflict)
	assert.Contains(t, appErr.Message, "go back to editing")

	draft, err := env.drafts.GetDraft(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPreviewReady, draft.Status, "a failed write keeps the preview")

	// the number is locked until the draft is reopened
	fresh := "INV-999999"
	_, err = env.drafts.UpdateDraft(ctx, bob.ID, &UpdateDraftInput{InvoiceNumber: &fresh})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	_, err = env.drafts.BackToEdit(ctx, bob.ID)
	require.NoError(t, err)
	_, err = env.drafts.UpdateDraft(ctx, bob.ID, &UpdateDraftInput{InvoiceNumber: &fresh})
	require.NoError(t, err)
	_, err = env.drafts.Preview(ctx, bob.ID)
	require.NoError(t, err)
	res, err = env.drafts.Pay(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh, res.Bill.InvoiceNumber)
}

func TestDraftService_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.register(t, "alice@shop.test")
	bob := env.register(t, "bob@shop.test")
	ctx := context.Background()

	fillDraft(t, env, alice.ID, "alice-customer")

	draft, err := env.drafts.GetDraft(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, draft.CustomerIdentifier)
	assert.NotEqual(t, "INV-000001", draft.InvoiceNumber)
}

func TestDraftService_ConcurrentEditsOfOneUser(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.drafts.AddItem(ctx, user.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	draft, err := env.drafts.GetDraft(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, draft.Items, 21)
}

func TestDraftService_AutoPrint(t *testing.T) {
	env := newTestEnv(t, true)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	fillDraft(t, env, user.ID, "acme@example.com")
	_, err := env.drafts.Preview(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.drafts.Pay(ctx, user.ID)
	require.NoError(t, err)

	env.drafts.Wait()
	jobs := env.recorder.Jobs()
	require.Len(t, jobs, 1)
	assert.Contains(t, string(jobs[0]), "INV-000001")
	assert.Contains(t, string(jobs[0]), "acme@example.com")
}
