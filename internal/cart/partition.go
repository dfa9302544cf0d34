package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feriavirtual/marketplace-backend/internal/pricing"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/money"
)

// VendorGroup is the subset of a cart belonging to one seller, priced and
// ready to become a purchase. Groups are derived, never persisted.
type VendorGroup struct {
	SellerID      uuid.UUID
	Lines         []Line
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	ShippingTotal decimal.Decimal
	GrandTotal    decimal.Decimal
}

// Partition groups cart lines by seller, applying the coupon through the
// pricing engine. Output order follows the first occurrence of each seller.
// Every line lands in exactly one group and the union of group subtotals
// equals the priced cart total.
func Partition(lines []Line, coupon *models.Coupon, buyer pricing.BuyerContext, now time.Time) ([]VendorGroup, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no lines")
	}

	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return nil, err
		}
	}

	index := make(map[uuid.UUID]int, len(lines))

	groups := make([]VendorGroup, 0, len(lines))
	for _, line := range lines {
		pos, seen := index[line.SellerID]
		if !seen {
			pos = len(groups)
			index[line.SellerID] = pos
			groups = append(groups, VendorGroup{
				SellerID:      line.SellerID,
				Subtotal:      decimal.Zero,
				Discount:      decimal.Zero,
				ShippingTotal: decimal.Zero,
				GrandTotal:    decimal.Zero,
			})
		}

		unit := pricing.EffectivePrice(line.UnitPrice, coupon, buyer, now)
		qty := decimal.NewFromInt(int64(line.Quantity))
		lineTotal := unit.Mul(qty)
		fullTotal := money.RoundFinal(line.UnitPrice).Mul(qty)

		group := groups[pos]
		group.Lines = append(group.Lines, line)
		group.Subtotal = group.Subtotal.Add(lineTotal)
		group.Discount = group.Discount.Add(fullTotal.Sub(lineTotal))
		if !line.FreeShipping && !line.IsService {
			group.ShippingTotal = group.ShippingTotal.Add(money.RoundFinal(line.ShippingCost))
		}
		groups[pos] = group
	}

	for i := range groups {
		groups[i].GrandTotal = groups[i].Subtotal.Add(groups[i].ShippingTotal)
	}

	return groups, nil
}

// CartTotal sums the grand totals of all groups.
func CartTotal(groups []VendorGroup) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.GrandTotal)
	}
	return total
}

// SubtotalSum sums the priced subtotals of all groups.
func SubtotalSum(groups []VendorGroup) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Subtotal)
	}
	return total
}

func validateLine(line Line) error {
	if line.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line missing product id")
	}
	if line.SellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line missing seller id")
	}
	if line.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be positive for product %s", line.ProductID))
	}
	if !line.IsService && line.Quantity > line.AvailableQty {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity %d exceeds available stock %d for product %s",
				line.Quantity, line.AvailableQty, line.ProductID)).
			WithDetails(map[string]any{"product_id": line.ProductID.String()})
	}
	if line.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unit price must not be negative for product %s", line.ProductID))
	}
	return nil
}
