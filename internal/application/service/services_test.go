package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/internal/domain/enum"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	infraRepo "github.com/sangkips/invex-billing/internal/infrastructure/repository"
	"github.com/sangkips/invex-billing/pkg/apperror"
	"github.com/sangkips/invex-billing/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payDraft(t *testing.T, env *testEnv, userID uuid.UUID, customer string) *PayResult {
	t.Helper()
	fillDraft(t, env, userID, customer)
	_, err := env.drafts.Preview(context.Background(), userID)
	require.NoError(t, err)
	res, err := env.drafts.Pay(context.Background(), userID)
	require.NoError(t, err)
	return res
}

func TestAuthService_RegisterLoginRefresh(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	user := env.register(t, " Cashier@Shop.Test ")
	assert.Equal(t, "cashier@shop.test", user.Email)
	assert.True(t, user.HasRole(entity.RoleCashier))

	_, err := env.auth.Register(ctx, &RegisterInput{Email: "cashier@shop.test", Password: "password123"})
	requireAppError(t, err, http.StatusConflict)

	out, err := env.auth.Login(ctx, &LoginInput{Email: "CASHIER@shop.test", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.Contains(t, out.User.GetPermissions(), entity.PermCreateBills)
	assert.NotContains(t, out.User.GetPermissions(), entity.PermManageProducts)

	_, err = env.auth.Login(ctx, &LoginInput{Email: "cashier@shop.test", Password: "nope"})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)

	refreshed, err := env.auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)

	_, err = env.auth.RefreshToken(ctx, out.AccessToken)
	assert.Equal(t, apperror.ErrInvalidToken, err)
}

func TestAuthService_ChangePasswordAndProfile(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	user := env.register(t, "cashier@shop.test")

	err := env.auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "bad", NewPassword: "x"})
	requireAppError(t, err, http.StatusBadRequest)

	require.NoError(t, env.auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "password123", NewPassword: "newpass456"}))
	_, err = env.auth.Login(ctx, &LoginInput{Email: "cashier@shop.test", Password: "newpass456"})
	require.NoError(t, err)

	updated, err := env.auth.UpdateProfile(ctx, &UpdateProfileInput{UserID: user.ID, FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Cashier", updated.LastName)
	assert.True(t, updated.HasRole(entity.RoleCashier), "roles survive a profile update")
}

func TestProductService_CRUD(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	pen := env.product(t, "Pen", "PEN", "10")
	_, err := env.products.CreateProduct(ctx, &CreateProductInput{Name: "Other", Code: "PEN", Price: dec("1")})
	requireAppError(t, err, http.StatusConflict)

	_, err = env.products.CreateProduct(ctx, &CreateProductInput{Name: " ", Price: dec("1")})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	_, err = env.products.CreateProduct(ctx, &CreateProductInput{Name: "Refund", Price: dec("-1")})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	auto, err := env.products.CreateProduct(ctx, &CreateProductInput{Name: "Notebook", Price: dec("45.50")})
	require.NoError(t, err)
	assert.NotEmpty(t, auto.Code)

	price := dec("12")
	updated, err := env.products.UpdateProduct(ctx, &UpdateProductInput{ID: pen.ID, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "12", updated.Price.String())

	list, err := env.products.ListProducts(ctx, &repository.ProductFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)

	require.NoError(t, env.products.DeleteProduct(ctx, pen.ID))
	_, err = env.products.GetProduct(ctx, pen.ID)
	requireAppError(t, err, http.StatusNotFound)
	requireAppError(t, env.products.DeleteProduct(ctx, pen.ID), http.StatusNotFound)
}

func TestProductService_CatalogFollowsChanges(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	pen := env.product(t, "Pen", "PEN", "10")

	catalog, err := env.products.Catalog(ctx)
	require.NoError(t, err)
	got, ok := catalog.Lookup(pen.ID.String())
	require.True(t, ok)
	assert.Equal(t, "10", got.Price.String())

	name := "Gel Pen"
	_, err = env.products.UpdateProduct(ctx, &UpdateProductInput{ID: pen.ID, Name: &name})
	require.NoError(t, err)

	catalog, err = env.products.Catalog(ctx)
	require.NoError(t, err)
	got, _ = catalog.Lookup(pen.ID.String())
	assert.Equal(t, "Gel Pen", got.Name)

	require.NoError(t, env.products.DeleteProduct(ctx, pen.ID))
	catalog, err = env.products.Catalog(ctx)
	require.NoError(t, err)
	_, ok = catalog.Lookup(pen.ID.String())
	assert.False(t, ok)
}

func TestProductService_RenamingKeepsPersistedBills(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()
	pen := env.product(t, "Pen", "PEN", "10")

	customer := "acme"
	_, err := env.drafts.UpdateDraft(ctx, user.ID, &UpdateDraftInput{CustomerIdentifier: &customer})
	require.NoError(t, err)
	_, err = env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 0, Field: "productRef", Value: pen.ID.String()})
	require.NoError(t, err)
	_, err = env.drafts.UpdateItem(ctx, user.ID, &UpdateItemInput{Index: 0, Field: "quantity", Value: "1"})
	require.NoError(t, err)
	_, err = env.drafts.Preview(ctx, user.ID)
	require.NoError(t, err)
	res, err := env.drafts.Pay(ctx, user.ID)
	require.NoError(t, err)

	name, price := "Gel Pen", dec("99")
	_, err = env.products.UpdateProduct(ctx, &UpdateProductInput{ID: pen.ID, Name: &name, Price: &price})
	require.NoError(t, err)

	bill, err := env.bills.GetBill(infraRepo.WithOwner(ctx, user.ID), uuid.MustParse(res.Bill.BillID))
	require.NoError(t, err)
	assert.Equal(t, "Pen", bill.Items[0].Name)
	assert.True(t, bill.Items[0].UnitPrice.Equal(dec("10")))
}

func TestBillService_ListAndRender(t *testing.T) {
	env := newTestEnv(t, false)
	alice := env.register(t, "alice@shop.test")
	bob := env.register(t, "bob@shop.test")
	ctx := context.Background()

	company := "Invex Stores"
	_, err := env.profiles.UpdateProfile(ctx, &UpdateCompanyProfileInput{UserID: alice.ID, CompanyName: &company})
	require.NoError(t, err)

	res := payDraft(t, env, alice.ID, "acme@example.com")
	payDraft(t, env, bob.ID, "globex@example.com")

	list, err := env.bills.ListBills(ctx, alice.ID, &repository.BillFilterParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Pagination.Total)

	list, err = env.bills.ListBills(ctx, alice.ID, &repository.BillFilterParams{SkipUserFilter: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)

	billID := uuid.MustParse(res.Bill.BillID)
	_, err = env.bills.GetBill(infraRepo.WithOwner(ctx, bob.ID), billID)
	requireAppError(t, err, http.StatusNotFound)

	aliceCtx := infraRepo.WithOwner(ctx, alice.ID)
	html, err := env.bills.RenderInvoice(aliceCtx, billID, enum.DocumentFormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "INV-000001.html", html.Filename)
	assert.Contains(t, string(html.Data), "Invex Stores")
	assert.Contains(t, string(html.Data), "Twenty Three")

	pdf, err := env.bills.RenderInvoice(aliceCtx, billID, enum.DocumentFormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", pdf.ContentType)

	_, err = env.bills.RenderInvoice(aliceCtx, billID, enum.DocumentFormatXLSX)
	requireAppError(t, err, http.StatusBadRequest)

	sheet, err := env.bills.ExportBills(ctx, alice.ID, &repository.BillFilterParams{SkipUserFilter: true})
	require.NoError(t, err)
	assert.Equal(t, enum.DocumentFormatXLSX.ContentType(), sheet.ContentType)
	assert.NotEmpty(t, sheet.Data)
}

func TestPrinterService(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	status := env.printer.GetStatus(ctx)
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "memory", status.Type)

	doc, err := env.printer.TestPrint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "35.40", doc.Summary.Total)
	assert.Equal(t, "Thirty Five", doc.Words)

	res := payDraft(t, env, user.ID, "acme@example.com")
	_, err = env.printer.PrintBill(infraRepo.WithOwner(ctx, user.ID), uuid.MustParse(res.Bill.BillID))
	require.NoError(t, err)
	assert.Len(t, env.recorder.Jobs(), 2)

	_, err = env.printer.PrintBill(infraRepo.WithOwner(ctx, user.ID), uuid.New())
	requireAppError(t, err, http.StatusNotFound)
}

func TestDashboardService(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	stats, err := env.dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBills)
	assert.Len(t, stats.DailySalesData, 7)

	// a finalized bill drops the cached stats
	payDraft(t, env, user.ID, "acme@example.com")
	payDraft(t, env, user.ID, "acme@example.com")

	stats, err = env.dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalBills)
	assert.Equal(t, "47.20", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, "23.60", stats.AverageBill.StringFixed(2))
	require.Len(t, stats.TopClients, 1)
	assert.Equal(t, "acme@example.com", stats.TopClients[0].Customer)
	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, 4, stats.TopProducts[0].QuantitySold)
}

func TestCompanyProfileService(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	profile, err := env.profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.CompanyName)

	again, err := env.profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)

	name, bank := "Invex Stores", "KCB"
	updated, err := env.profiles.UpdateProfile(ctx, &UpdateCompanyProfileInput{UserID: user.ID, CompanyName: &name, BankName: &bank})
	require.NoError(t, err)
	assert.Equal(t, "Invex Stores", updated.CompanyName)
	assert.Equal(t, "KCB", updated.BankName)

	terms := "No returns"
	updated, err = env.profiles.UpdateProfile(ctx, &UpdateCompanyProfileInput{UserID: user.ID, Terms: &terms})
	require.NoError(t, err)
	assert.Equal(t, "Invex Stores", updated.CompanyName, "unset fields are kept")
	assert.Equal(t, "No returns", updated.Terms)
}

func TestUserService_SetUserRole(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	users := NewUserService(env.users, infraRepo.NewRoleRepository(env.db), env.auth.log)

	admin := env.register(t, "admin@shop.test")
	cashier := env.register(t, "cashier@shop.test")

	promoted, err := users.SetUserRole(ctx, cashier.ID, admin.ID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, promoted.HasRole(entity.RoleAdmin))
	assert.False(t, promoted.HasRole(entity.RoleCashier))

	_, err = users.SetUserRole(ctx, admin.ID, admin.ID, entity.RoleCashier)
	requireAppError(t, err, http.StatusUnprocessableEntity)

	_, err = users.SetUserRole(ctx, admin.ID, cashier.ID, "owner")
	requireAppError(t, err, http.StatusNotFound)

	list, err := users.ListUsers(ctx, pagination.DefaultPagination(), "shop.test")
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)

	roles, err := users.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestMapBillingError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&billing.ValidationError{Problems: []billing.Problem{{Field: "items", Message: "x"}}}, http.StatusUnprocessableEntity},
		{&billing.CatalogLookupMiss{ProductRef: "p-9"}, http.StatusNotFound},
		{&billing.StorageError{Phase: billing.PhaseBill, Err: errors.New("db down")}, http.StatusServiceUnavailable},
		{&billing.StorageError{Phase: billing.PhaseItems, BillID: "b", Err: errors.New("db down")}, http.StatusServiceUnavailable},
		{&billing.StorageError{Phase: billing.PhaseBill, Err: infraRepo.ErrDuplicateInvoiceNumber}, http.StatusConflict},
		{billing.ErrItemIndex, http.StatusNotFound},
		{billing.ErrUnknownField, http.StatusBadRequest},
		{billing.ErrFieldLocked, http.StatusUnprocessableEntity},
		{billing.ErrNotEditing, http.StatusUnprocessableEntity},
		{billing.ErrInvalidTransition, http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		requireAppError(t, mapBillingError(c.err), c.code)
	}

	plain := errors.New("boom")
	assert.Same(t, plain, mapBillingError(plain))
}

func TestBillService_ReprintMatchesStoredTotal(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.register(t, "cashier@shop.test")
	ctx := context.Background()

	customer := "acme"
	_, err := env.drafts.UpdateDraft(ctx, user.ID, &UpdateDraftInput{CustomerIdentifier: &customer})
	require.NoError(t, err)
	for _, u := range []UpdateItemInput{
		{Index: 0, Field: "name", Value: "Washer"},
		{Index: 0, Field: "quantity", Value: "3"},
		{Index: 0, Field: "price", Value: "0.33335"},
	} {
		u := u
		_, err := env.drafts.UpdateItem(ctx, user.ID, &u)
		require.NoError(t, err)
	}
	_, err = env.drafts.Preview(ctx, user.ID)
	require.NoError(t, err)
	res, err := env.drafts.Pay(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, res.Bill.Totals.Total.Equal(dec("1.180236")), "got %s", res.Bill.Totals.Total)

	bill, err := env.bills.GetBill(infraRepo.WithOwner(ctx, user.ID), uuid.MustParse(res.Bill.BillID))
	require.NoError(t, err)
	require.Len(t, bill.Items, 1)
	assert.True(t, bill.Items[0].UnitPrice.Equal(dec("0.3334")), "got %s", bill.Items[0].UnitPrice)
	assert.True(t, bill.Total.Equal(dec("1.180236")), "got %s", bill.Total)

	doc, err := env.bills.Document(infraRepo.WithOwner(ctx, user.ID), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.00", doc.Summary.Subtotal)
	assert.Equal(t, "0.18", doc.Summary.Tax)
	assert.Equal(t, "1.18", doc.Summary.Total)
}
