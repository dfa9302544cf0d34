package commission

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/feriavirtual/marketplace-backend/pkg/config"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/money"
)

// Calculator maps withdrawal tiers to commission rates. The platform baseline
// and per-tier surcharges come from configuration; the calculator itself
// carries no rate constants.
type Calculator struct {
	cfg config.CommissionConfig
}

// NewCalculator validates the configured rates and builds a calculator.
func NewCalculator(cfg config.CommissionConfig) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("commission config: %w", err)
	}
	return &Calculator{cfg: cfg}, nil
}

// Rate returns the total commission fraction for the tier: baseline plus the
// tier surcharge. Unknown tiers fail loudly, never defaulting.
func (c *Calculator) Rate(tier enums.WithdrawalTier) (decimal.Decimal, error) {
	switch tier {
	case enums.WithdrawalTier7Days:
		return c.cfg.Baseline.Add(c.cfg.Surcharge7Day), nil
	case enums.WithdrawalTier15Days:
		return c.cfg.Baseline.Add(c.cfg.Surcharge15Day), nil
	case enums.WithdrawalTier35Days:
		return c.cfg.Baseline.Add(c.cfg.Surcharge35Day), nil
	}
	return decimal.Zero, pkgerrors.New(pkgerrors.CodeUnknownTier,
		fmt.Sprintf("no commission rate for tier %q", tier)).
		WithDetails(map[string]any{"tier": string(tier)})
}

// Breakdown itemizes a payout computation for settlement reporting.
type Breakdown struct {
	Gross      decimal.Decimal
	Rate       decimal.Decimal
	Commission decimal.Decimal
	Net        decimal.Decimal
	Tier       enums.WithdrawalTier
}

// NetPayout derives the seller's net amount after commission for the tier.
func (c *Calculator) NetPayout(gross decimal.Decimal, tier enums.WithdrawalTier) (decimal.Decimal, error) {
	breakdown, err := c.Payout(gross, tier)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.Net, nil
}

// Payout returns the full commission breakdown for a gross amount.
func (c *Calculator) Payout(gross decimal.Decimal, tier enums.WithdrawalTier) (*Breakdown, error) {
	if gross.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gross amount must not be negative")
	}
	rate, err := c.Rate(tier)
	if err != nil {
		return nil, err
	}
	commission := money.RoundFinal(gross.Mul(rate))
	net := money.RoundFinal(gross.Sub(commission))
	return &Breakdown{
		Gross:      gross,
		Rate:       rate,
		Commission: commission,
		Net:        net,
		Tier:       tier,
	}, nil
}
