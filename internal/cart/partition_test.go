package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feriavirtual/marketplace-backend/internal/pricing"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func line(seller uuid.UUID, price string, qty int) Line {
	return Line{
		ProductID:    uuid.New(),
		SellerID:     seller,
		ProductName:  "item",
		UnitPrice:    decimal.RequireFromString(price),
		Quantity:     qty,
		AvailableQty: 100,
	}
}

func TestPartitionGroupsBySellerInInsertionOrder(t *testing.T) {
	t.Parallel()

	sellerA := uuid.New()
	sellerB := uuid.New()
	lines := []Line{
		line(sellerA, "10.00", 1),
		line(sellerB, "20.00", 1),
		line(sellerA, "30.00", 2),
	}

	groups, err := Partition(lines, nil, pricing.BuyerContext{}, now)
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].SellerID != sellerA || groups[1].SellerID != sellerB {
		t.Fatal("groups must keep first-occurrence order")
	}
	if len(groups[0].Lines) != 2 || len(groups[1].Lines) != 1 {
		t.Fatal("lines assigned to wrong groups")
	}
	if !groups[0].Subtotal.Equal(decimal.RequireFromString("70.00")) {
		t.Fatalf("seller A subtotal = %s, want 70.00", groups[0].Subtotal)
	}
}

// The worked scenario: seller A $100 x2 without coupon, seller B $50 x1 with a
// 10%-off all-scope coupon capped at $20 -> subtotals 200 and 45.
func TestPartitionWithCouponScenario(t *testing.T) {
	t.Parallel()

	sellerA := uuid.New()
	sellerB := uuid.New()
	maxDiscount := decimal.NewFromInt(20)
	coupon := &models.Coupon{
		ID:            uuid.New(),
		Code:          "DESC10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		MaxDiscount:   &maxDiscount,
		AppliesTo:     enums.CouponScopeAll,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
		IsActive:      true,
	}

	lineA := line(sellerA, "100.00", 2)
	lineB := line(sellerB, "50.00", 1)

	// Coupon rides the whole cart; per the engine the discount applies per line.
	groups, err := Partition([]Line{lineA, lineB}, coupon, pricing.BuyerContext{}, now)
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !groups[1].Subtotal.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("seller B subtotal = %s, want 45", groups[1].Subtotal)
	}
}

func TestPartitionTotalsEqualCartTotal(t *testing.T) {
	t.Parallel()

	sellerA := uuid.New()
	sellerB := uuid.New()
	sellerC := uuid.New()
	lines := []Line{
		line(sellerA, "19.99", 3),
		line(sellerB, "5.25", 1),
		line(sellerC, "120.00", 2),
		line(sellerA, "0.99", 10),
	}

	groups, err := Partition(lines, nil, pricing.BuyerContext{}, now)
	if err != nil {
		t.Fatalf("partition: %v", err)
	}

	want := decimal.Zero
	for _, l := range lines {
		want = want.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if !SubtotalSum(groups).Equal(want) {
		t.Fatalf("subtotal sum %s != cart total %s", SubtotalSum(groups), want)
	}

	counted := 0
	for _, g := range groups {
		counted += len(g.Lines)
	}
	if counted != len(lines) {
		t.Fatalf("lines dropped or double counted: %d != %d", counted, len(lines))
	}
}

func TestPartitionShippingSkipsFreeAndServiceLines(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	shipped := line(seller, "10.00", 1)
	shipped.ShippingCost = decimal.RequireFromString("4.50")

	free := line(seller, "10.00", 1)
	free.ShippingCost = decimal.RequireFromString("9.99")
	free.FreeShipping = true

	service := line(seller, "25.00", 1)
	service.IsService = true
	service.ShippingCost = decimal.RequireFromString("3.00")

	groups, err := Partition([]Line{shipped, free, service}, nil, pricing.BuyerContext{}, now)
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	if !groups[0].ShippingTotal.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("shipping total = %s, want 4.50", groups[0].ShippingTotal)
	}
	if !groups[0].GrandTotal.Equal(decimal.RequireFromString("49.50")) {
		t.Fatalf("grand total = %s, want 49.50", groups[0].GrandTotal)
	}
}

func TestPartitionRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	bad := line(uuid.New(), "10.00", 0)
	_, err := Partition([]Line{bad}, nil, pricing.BuyerContext{}, now)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPartitionRejectsQuantityOverStock(t *testing.T) {
	t.Parallel()

	bad := line(uuid.New(), "10.00", 5)
	bad.AvailableQty = 4
	_, err := Partition([]Line{bad}, nil, pricing.BuyerContext{}, now)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Services carry no stock, so the same quantity passes.
	svc := line(uuid.New(), "10.00", 5)
	svc.AvailableQty = 0
	svc.IsService = true
	if _, err := Partition([]Line{svc}, nil, pricing.BuyerContext{}, now); err != nil {
		t.Fatalf("service line should not be stock-checked: %v", err)
	}
}
