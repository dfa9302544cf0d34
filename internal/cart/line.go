package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry: a product, its seller, and the quantity the buyer
// wants. Lines are ephemeral; they exist only until checkout converts them
// into purchases.
type Line struct {
	ProductID    uuid.UUID
	SellerID     uuid.UUID
	ProductName  string
	UnitPrice    decimal.Decimal
	Quantity     int
	AvailableQty int
	IsService    bool
	ShippingCost decimal.Decimal
	FreeShipping bool
}

// LineFromProductFields builds the portion of a line derived from catalog
// data; callers fill in quantity.
func LineFromProductFields(productID, sellerID uuid.UUID, name string, price decimal.Decimal, stock int, isService bool, shippingCost decimal.Decimal, freeShipping bool) Line {
	return Line{
		ProductID:    productID,
		SellerID:     sellerID,
		ProductName:  name,
		UnitPrice:    price,
		AvailableQty: stock,
		IsService:    isService,
		ShippingCost: shippingCost,
		FreeShipping: freeShipping,
	}
}
