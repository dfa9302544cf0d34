package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/internal/cart"
	"github.com/feriavirtual/marketplace-backend/internal/coupons"
	"github.com/feriavirtual/marketplace-backend/internal/pricing"
	"github.com/feriavirtual/marketplace-backend/internal/purchases"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/idempotency"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
	"github.com/feriavirtual/marketplace-backend/pkg/metrics"
	"github.com/feriavirtual/marketplace-backend/pkg/money"
)

const idempotencyScope = "checkout"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ItemInput is one product/quantity pair in a checkout request.
type ItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// Input is a checkout request. IdempotencyKey is caller-supplied; replaying
// the same key never creates a second order.
type Input struct {
	BuyerID        uuid.UUID
	BuyerEmail     string
	BuyerIsSeller  bool
	Items          []ItemInput
	CouponCode     *string
	ShippingAddr   *string
	IdempotencyKey string
}

// Result is what the buyer gets back: the created purchases and the single
// payment redirect covering all of them.
type Result struct {
	Purchases      []models.Purchase
	RedirectHandle string
}

// Service turns carts into per-seller purchases behind one payment.
type Service interface {
	CreateSingleProductPurchase(ctx context.Context, input Input) (*Result, error)
	CreateMultipleProductsPurchase(ctx context.Context, input Input) (*Result, error)
	CreateCentralizedCheckout(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	products  ProductReader
	coupons   coupons.Repository
	purchases purchases.Repository
	reserver  InventoryReserver
	intents   IntentCreator
	guard     *idempotency.Guard
	tx        txRunner
	log       *logger.Logger
	metrics   *metrics.MarketplaceMetrics
	currency  string
}

// NewService wires checkout dependencies.
func NewService(
	products ProductReader,
	couponRepo coupons.Repository,
	purchaseRepo purchases.Repository,
	reserver InventoryReserver,
	intents IntentCreator,
	guard *idempotency.Guard,
	tx txRunner,
	log *logger.Logger,
	m *metrics.MarketplaceMetrics,
	currency string,
) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if couponRepo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if purchaseRepo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if reserver == nil {
		return nil, fmt.Errorf("inventory reserver required")
	}
	if intents == nil {
		return nil, fmt.Errorf("payment intent creator required")
	}
	if guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if currency == "" {
		currency = "CLP"
	}
	return &service{
		products:  products,
		coupons:   couponRepo,
		purchases: purchaseRepo,
		reserver:  reserver,
		intents:   intents,
		guard:     guard,
		tx:        tx,
		log:       log,
		metrics:   m,
		currency:  currency,
	}, nil
}

func (s *service) CreateSingleProductPurchase(ctx context.Context, input Input) (*Result, error) {
	if len(input.Items) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "single product checkout takes exactly one item")
	}
	return s.checkout(ctx, input, enums.PurchaseTypeSingle)
}

func (s *service) CreateMultipleProductsPurchase(ctx context.Context, input Input) (*Result, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one item")
	}
	return s.checkout(ctx, input, enums.PurchaseTypeMulti)
}

func (s *service) CreateCentralizedCheckout(ctx context.Context, input Input) (*Result, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one item")
	}
	return s.checkout(ctx, input, enums.PurchaseTypeCentralized)
}

func (s *service) checkout(ctx context.Context, input Input, kind enums.PurchaseType) (*Result, error) {
	started := time.Now()
	result, err := s.run(ctx, input, kind)
	s.metrics.ObserveCheckout(string(kind), time.Since(started))
	if err != nil {
		s.metrics.IncCheckoutFailure(string(kind), string(pkgerrors.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncCheckoutSuccess(string(kind))
	return result, nil
}

func (s *service) run(ctx context.Context, input Input, kind enums.PurchaseType) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	ctx = s.log.WithBuyerID(ctx, input.BuyerID.String())

	alreadyClaimed, err := s.guard.Claim(ctx, idempotencyScope, input.IdempotencyKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key")
	}
	if alreadyClaimed {
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "checkout already processed or in flight")
	}

	result, err := s.place(ctx, input, kind)
	if err != nil {
		// Free the key so the buyer can retry after a rollback.
		if releaseErr := s.guard.Release(ctx, idempotencyScope, input.IdempotencyKey); releaseErr != nil {
			s.log.Error(ctx, "releasing idempotency key after failed checkout", releaseErr)
		}
		return nil, err
	}
	return result, nil
}

func (s *service) place(ctx context.Context, input Input, kind enums.PurchaseType) (*Result, error) {
	now := time.Now().UTC()
	buyer := pricing.BuyerContext{BuyerID: input.BuyerID, IsSeller: input.BuyerIsSeller}

	lines, err := s.loadLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	var coupon *models.Coupon
	if input.CouponCode != nil && *input.CouponCode != "" {
		coupon, err = s.loadCoupon(ctx, *input.CouponCode, lines, buyer, now)
		if err != nil {
			return nil, err
		}
	}

	groups, err := cart.Partition(lines, coupon, buyer, now)
	if err != nil {
		return nil, err
	}

	var created []models.Purchase
	var handle string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if coupon != nil {
			if err := s.coupons.WithTx(tx).Redeem(ctx, coupon.ID); err != nil {
				return err
			}
		}
		if err := s.reserver.WithTx(tx).Reserve(ctx, physicalItems(lines)); err != nil {
			return err
		}

		total := money.RoundFinal(cart.CartTotal(groups))
		intent, err := s.intents.CreateIntent(ctx, IntentRequest{
			Amount:     total.String(),
			Currency:   s.currency,
			BuyerEmail: input.BuyerEmail,
			Metadata: map[string]string{
				"buyer_id": input.BuyerID.String(),
				"kind":     string(kind),
			},
		})
		if err != nil {
			if pkgerrors.As(err) != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodePaymentGateway, err, "create payment intent")
		}
		handle = intent.RedirectHandle

		repo := s.purchases.WithTx(tx)
		for _, group := range groups {
			purchase := buildPurchase(input, kind, group, handle)
			saved, err := repo.Create(ctx, purchase)
			if err != nil {
				return err
			}
			created = append(created, *saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithField(ctx, "payment_id", handle)
	s.log.Info(ctx, fmt.Sprintf("checkout created %d purchase(s)", len(created)))
	return &Result{Purchases: created, RedirectHandle: handle}, nil
}

func (s *service) loadLines(ctx context.Context, items []ItemInput) ([]cart.Line, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout item missing product id")
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]cart.Line, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product %s not available", item.ProductID))
		}
		line := cart.LineFromProductFields(
			product.ID, product.SellerID, product.Title,
			product.Price, product.Stock, product.IsService,
			product.ShippingCost, product.FreeShipping,
		)
		line.Quantity = item.Qty
		lines = append(lines, line)
	}
	return lines, nil
}

// loadCoupon resolves the code and enforces applicability and the minimum
// purchase threshold against the undiscounted cart total.
func (s *service) loadCoupon(ctx context.Context, code string, lines []cart.Line, buyer pricing.BuyerContext, now time.Time) (*models.Coupon, error) {
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !pricing.Applicable(coupon, buyer, now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is not applicable to this order")
	}
	if coupon.MinPurchase != nil {
		total := grossTotal(lines)
		if total.LessThan(*coupon.MinPurchase) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("order total below coupon minimum of %s", coupon.MinPurchase.StringFixed(2)))
		}
	}
	return coupon, nil
}

func buildPurchase(input Input, kind enums.PurchaseType, group cart.VendorGroup, handle string) *models.Purchase {
	purchase := &models.Purchase{
		ID:             uuid.New(),
		PaymentID:      handle,
		SellerID:       group.SellerID,
		BuyerID:        input.BuyerID,
		BuyerEmail:     input.BuyerEmail,
		Amount:         money.RoundFinal(group.Subtotal),
		ShippingAmount: money.RoundFinal(group.ShippingTotal),
		Status:         enums.PurchaseStatusPending,
		Type:           kind,
		IsService:      allServices(group.Lines),
		ShippingAddr:   input.ShippingAddr,
	}
	items := make([]models.PurchaseItem, 0, len(group.Lines))
	for _, line := range group.Lines {
		qty := int64(line.Quantity)
		items = append(items, models.PurchaseItem{
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Qty:       line.Quantity,
			UnitPrice: money.RoundFinal(line.UnitPrice),
			Subtotal:  money.RoundFinal(line.UnitPrice.Mul(decimalFromInt(qty))),
		})
	}
	purchase.Items = items
	if kind == enums.PurchaseTypeSingle && len(group.Lines) == 1 {
		productID := group.Lines[0].ProductID
		purchase.ProductID = &productID
	}
	return purchase
}

func validateInput(input Input) error {
	if input.BuyerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.BuyerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer email required")
	}
	if input.IdempotencyKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "idempotency key required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one item")
	}
	return nil
}

func physicalItems(lines []cart.Line) []ReserveItem {
	items := make([]ReserveItem, 0, len(lines))
	for _, line := range lines {
		if line.IsService {
			continue
		}
		items = append(items, ReserveItem{ProductID: line.ProductID, Qty: line.Quantity})
	}
	return items
}

func decimalFromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func grossTotal(lines []cart.Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(money.RoundFinal(line.UnitPrice).Mul(decimalFromInt(int64(line.Quantity))))
	}
	return total
}

func allServices(lines []cart.Line) bool {
	for _, line := range lines {
		if !line.IsService {
			return false
		}
	}
	return len(lines) > 0
}
