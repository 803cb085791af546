package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/invex-billing/internal/config"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/infrastructure/database"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	infraRepo "github.com/sangkips/invex-billing/internal/infrastructure/repository"
	"github.com/sangkips/invex-billing/internal/invoice/render"
	"github.com/sangkips/invex-billing/pkg/apperror"
	"github.com/sangkips/invex-billing/pkg/printer"
	"github.com/sangkips/invex-billing/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the services over an in-memory database
type testEnv struct {
	db        *gorm.DB
	hub       *notify.MemoryHub
	recorder  *printer.Recorder
	users     repository.UserRepository
	auth      *AuthService
	products  *ProductService
	profiles  *CompanyProfileService
	bills     *BillService
	printer   *PrinterService
	drafts    *DraftService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T, autoPrint bool) *testEnv {
	t.Helper()
	db, err := database.NewSQLiteDB("file:"+t.Name()+"?mode=memory&cache=shared", &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(context.Background(), db, config.AdminConfig{}))

	log := zap.NewNop()
	hub := notify.NewMemoryHub()
	recorder := printer.NewRecorder()

	userRepo := infraRepo.NewUserRepository(db)
	roleRepo := infraRepo.NewRoleRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	billRepo := infraRepo.NewBillRepository(db)
	billItemRepo := infraRepo.NewBillItemRepository(db)
	profileRepo := infraRepo.NewCompanyProfileRepository(db)

	env := &testEnv{db: db, hub: hub, recorder: recorder, users: userRepo}
	env.auth = NewAuthService(userRepo, roleRepo, utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour), log)
	env.products = NewProductService(productRepo, hub, time.Minute, log)
	env.profiles = NewCompanyProfileService(profileRepo, hub, log)
	env.bills = NewBillService(billRepo, profileRepo, render.NewDefaultRegistry(printer.Width58mm))
	env.printer = NewPrinterService(recorder, env.bills, printer.Width58mm, log)
	env.dashboard = NewDashboardService(infraRepo.NewAnalyticsRepository(db), productRepo, hub, time.Minute, log)

	cfg := DraftServiceConfig{MaxNumberAttempts: 5, Numbers: sequence()}
	if autoPrint {
		cfg.Printer = env.printer
	}
	env.drafts = NewDraftService(billRepo, billItemRepo, env.products, hub, log, cfg)

	t.Cleanup(func() {
		env.drafts.Wait()
		env.products.Close()
		env.dashboard.Close()
	})
	return env
}

// sequence hands out INV-000001, INV-000002, ...
func sequence() billing.Generator {
	var mu sync.Mutex
	n := 0
	return billing.GeneratorFunc(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("INV-%06d", n)
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *testEnv) register(t *testing.T, email string) *entity.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), &RegisterInput{
		FirstName: "Test",
		LastName:  "Cashier",
		Email:     email,
		Password:  "password123",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) product(t *testing.T, name, code, price string) *entity.Product {
	t.Helper()
	p, err := e.products.CreateProduct(context.Background(), &CreateProductInput{Name: name, Code: code, Price: dec(price)})
	require.NoError(t, err)
	return p
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}
