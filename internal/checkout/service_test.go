package checkout

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/internal/coupons"
	"github.com/feriavirtual/marketplace-backend/internal/purchases"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/idempotency"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

type stubProducts struct {
	rows []models.Product
}

func (s *stubProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return s.rows, nil
}

type stubCoupons struct {
	coupon   *models.Coupon
	redeemed int
}

func (s *stubCoupons) WithTx(tx *gorm.DB) coupons.Repository { return s }

func (s *stubCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s.coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return s.coupon, nil
}

func (s *stubCoupons) Redeem(ctx context.Context, id uuid.UUID) error {
	s.redeemed++
	return nil
}

type stubPurchases struct {
	created []models.Purchase
}

func (s *stubPurchases) WithTx(tx *gorm.DB) purchases.Repository { return s }

func (s *stubPurchases) Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	s.created = append(s.created, *purchase)
	return purchase, nil
}

func (s *stubPurchases) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
}

func (s *stubPurchases) FindApprovedBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Purchase, error) {
	return nil, nil
}

func (s *stubPurchases) UpdateShipping(ctx context.Context, id uuid.UUID, expected *enums.ShippingStatus, info *models.ShippingInfo) error {
	return nil
}

type stubReserver struct {
	reserveErr error
	reserved   []ReserveItem
}

func (s *stubReserver) WithTx(tx *gorm.DB) InventoryReserver { return s }

func (s *stubReserver) Reserve(ctx context.Context, items []ReserveItem) error {
	if s.reserveErr != nil {
		return s.reserveErr
	}
	s.reserved = append(s.reserved, items...)
	return nil
}

func (s *stubReserver) Release(ctx context.Context, items []ReserveItem) error { return nil }

type stubIntents struct {
	err     error
	handle  string
	created int
}

func (s *stubIntents) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created++
	return &Intent{RedirectHandle: s.handle}, nil
}

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: map[string]string{}}
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.keys[key]; exists {
		return false, nil
	}
	s.keys[key] = "1"
	return true, nil
}

func (s *memoryStore) IdempotencyKey(scope, id string) string {
	return "feria:idempotency:" + scope + ":" + id
}

func (s *memoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func (s *memoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc       Service
	coupons   *stubCoupons
	purchases *stubPurchases
	reserver  *stubReserver
	intents   *stubIntents
	store     *memoryStore
}

func newFixture(t *testing.T, products []models.Product) *fixture {
	t.Helper()
	store := newMemoryStore()
	guard, err := idempotency.NewGuard(store, time.Hour)
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	f := &fixture{
		coupons:   &stubCoupons{},
		purchases: &stubPurchases{},
		reserver:  &stubReserver{},
		intents:   &stubIntents{handle: "redirect-abc123"},
		store:     store,
	}
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	f.svc, err = NewService(
		&stubProducts{rows: products},
		f.coupons, f.purchases, f.reserver, f.intents,
		guard, stubTxRunner{}, log, nil, "CLP",
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return f
}

func product(sellerID uuid.UUID, price string, stock int) models.Product {
	return models.Product{
		ID:           uuid.New(),
		SellerID:     sellerID,
		Title:        "producto",
		Price:        decimal.RequireFromString(price),
		Stock:        stock,
		ShippingCost: decimal.RequireFromString("5.00"),
		IsActive:     true,
	}
}

func baseInput(buyer uuid.UUID, items ...ItemInput) Input {
	return Input{
		BuyerID:        buyer,
		BuyerEmail:     "buyer@example.com",
		Items:          items,
		IdempotencyKey: uuid.NewString(),
	}
}

func TestCentralizedCheckoutSplitsPerSeller(t *testing.T) {
	t.Parallel()

	sellerA, sellerB := uuid.New(), uuid.New()
	prodA := product(sellerA, "100.00", 10)
	prodB := product(sellerB, "50.00", 10)
	f := newFixture(t, []models.Product{prodA, prodB})

	result, err := f.svc.CreateCentralizedCheckout(context.Background(), baseInput(uuid.New(),
		ItemInput{ProductID: prodA.ID, Qty: 2},
		ItemInput{ProductID: prodB.ID, Qty: 1},
	))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(result.Purchases) != 2 {
		t.Fatalf("expected one purchase per seller, got %d", len(result.Purchases))
	}
	if result.RedirectHandle != "redirect-abc123" {
		t.Fatalf("unexpected redirect handle %q", result.RedirectHandle)
	}
	for _, p := range result.Purchases {
		if p.PaymentID != result.RedirectHandle {
			t.Fatalf("all purchases must share the payment handle, got %q", p.PaymentID)
		}
		if p.Status != enums.PurchaseStatusPending {
			t.Fatalf("new purchases start pending, got %s", p.Status)
		}
	}
	if !result.Purchases[0].Amount.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("seller A amount = %s, want 200.00", result.Purchases[0].Amount)
	}
	if !result.Purchases[1].Amount.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("seller B amount = %s, want 50.00", result.Purchases[1].Amount)
	}
	if len(f.reserver.reserved) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(f.reserver.reserved))
	}
}

func TestCheckoutIdempotencyKeyReplay(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	prod := product(seller, "10.00", 5)
	f := newFixture(t, []models.Product{prod})
	input := baseInput(uuid.New(), ItemInput{ProductID: prod.ID, Qty: 1})

	if _, err := f.svc.CreateSingleProductPurchase(context.Background(), input); err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	_, err := f.svc.CreateSingleProductPurchase(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeIdempotency) {
		t.Fatalf("expected idempotency error on replay, got %v", err)
	}
	if len(f.purchases.created) != 1 {
		t.Fatalf("replay must not create purchases, got %d", len(f.purchases.created))
	}
}

func TestCheckoutGatewayFailureRollsBack(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	prod := product(seller, "10.00", 5)
	f := newFixture(t, []models.Product{prod})
	f.intents.err = pkgerrors.New(pkgerrors.CodePaymentGateway, "gateway unavailable")

	_, err := f.svc.CreateSingleProductPurchase(context.Background(),
		baseInput(uuid.New(), ItemInput{ProductID: prod.ID, Qty: 1}))
	if !pkgerrors.HasCode(err, pkgerrors.CodePaymentGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if len(f.purchases.created) != 0 {
		t.Fatalf("gateway failure must not leave purchases, got %d", len(f.purchases.created))
	}
	if f.store.len() != 0 {
		t.Fatal("idempotency key must be released after a failed checkout")
	}
}

func TestCheckoutOutOfStockAborts(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	prod := product(seller, "10.00", 5)
	f := newFixture(t, []models.Product{prod})
	f.reserver.reserveErr = pkgerrors.New(pkgerrors.CodeInventory, "insufficient stock")

	// The partitioner checks catalog stock; the reservation races are caught
	// by the conditional decrement inside the transaction.
	_, err := f.svc.CreateSingleProductPurchase(context.Background(),
		baseInput(uuid.New(), ItemInput{ProductID: prod.ID, Qty: 2}))
	if !pkgerrors.HasCode(err, pkgerrors.CodeInventory) {
		t.Fatalf("expected inventory error, got %v", err)
	}
	if f.intents.created != 0 {
		t.Fatal("no payment intent may be created when reservation fails")
	}
}

func TestMultiCheckoutSplitsMixedSellers(t *testing.T) {
	t.Parallel()

	sellerA, sellerB := uuid.New(), uuid.New()
	prodA := product(sellerA, "10.00", 5)
	prodB := product(sellerB, "20.00", 5)
	f := newFixture(t, []models.Product{prodA, prodB})

	result, err := f.svc.CreateMultipleProductsPurchase(context.Background(), baseInput(uuid.New(),
		ItemInput{ProductID: prodA.ID, Qty: 1},
		ItemInput{ProductID: prodB.ID, Qty: 1},
	))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(result.Purchases) != 2 {
		t.Fatalf("expected one purchase per seller, got %d", len(result.Purchases))
	}
	if result.Purchases[0].SellerID != sellerA || result.Purchases[1].SellerID != sellerB {
		t.Fatalf("purchases must follow first-occurrence seller order")
	}
	for _, p := range result.Purchases {
		if p.Type != enums.PurchaseTypeMulti {
			t.Fatalf("type = %s, want multi", p.Type)
		}
		if p.PaymentID != result.RedirectHandle {
			t.Fatalf("all purchases must share the payment handle, got %q", p.PaymentID)
		}
	}
}

func TestSingleCheckoutSetsProductID(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	prod := product(seller, "10.00", 5)
	f := newFixture(t, []models.Product{prod})

	result, err := f.svc.CreateSingleProductPurchase(context.Background(),
		baseInput(uuid.New(), ItemInput{ProductID: prod.ID, Qty: 1}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	p := result.Purchases[0]
	if p.ProductID == nil || *p.ProductID != prod.ID {
		t.Fatalf("single checkout must record the product id, got %v", p.ProductID)
	}
	if p.Type != enums.PurchaseTypeSingle {
		t.Fatalf("type = %s, want single", p.Type)
	}
}

func TestCheckoutRedeemsCoupon(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	prod := product(seller, "100.00", 5)
	f := newFixture(t, []models.Product{prod})
	now := time.Now().UTC()
	f.coupons.coupon = &models.Coupon{
		ID:            uuid.New(),
		Code:          "DIEZ",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.RequireFromString("10"),
		AppliesTo:     enums.CouponScopeAll,
		IsActive:      true,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	}
	code := "DIEZ"
	input := baseInput(uuid.New(), ItemInput{ProductID: prod.ID, Qty: 1})
	input.CouponCode = &code

	result, err := f.svc.CreateSingleProductPurchase(context.Background(), input)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if f.coupons.redeemed != 1 {
		t.Fatalf("expected one redemption, got %d", f.coupons.redeemed)
	}
	if !result.Purchases[0].Amount.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("amount = %s, want 90.00", result.Purchases[0].Amount)
	}
}

func TestCheckoutEnforcesCouponMinimum(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	prod := product(seller, "10.00", 5)
	f := newFixture(t, []models.Product{prod})
	now := time.Now().UTC()
	min := decimal.RequireFromString("50.00")
	f.coupons.coupon = &models.Coupon{
		ID:            uuid.New(),
		Code:          "GRANDE",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.RequireFromString("5"),
		MinPurchase:   &min,
		AppliesTo:     enums.CouponScopeAll,
		IsActive:      true,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	}
	code := "GRANDE"
	input := baseInput(uuid.New(), ItemInput{ProductID: prod.ID, Qty: 1})
	input.CouponCode = &code

	_, err := f.svc.CreateSingleProductPurchase(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error below minimum, got %v", err)
	}
	if f.coupons.redeemed != 0 {
		t.Fatal("coupon must not be redeemed when the minimum is unmet")
	}
}
