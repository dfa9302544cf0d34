package commission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes seller settlement configuration and payout math.
type Service interface {
	GetConfig(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankConfig, error)
	SetConfig(ctx context.Context, actorID uuid.UUID, input ConfigInput) (*models.SellerBankConfig, error)
	SellerPayout(ctx context.Context, sellerID uuid.UUID, gross decimal.Decimal) (*Breakdown, error)
}

// ConfigInput carries the fields a seller may set on their bank config.
type ConfigInput struct {
	SellerID          uuid.UUID
	BankName          string
	AccountHolder     string
	AccountNumber     string
	AccountType       string
	PreferenciaRetiro enums.WithdrawalTier
}

type service struct {
	repo Repository
	calc *Calculator
	tx   txRunner
}

// NewService wires commission dependencies.
func NewService(repo Repository, calc *Calculator, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commission repository required")
	}
	if calc == nil {
		return nil, fmt.Errorf("commission calculator required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, calc: calc, tx: tx}, nil
}

func (s *service) GetConfig(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankConfig, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	return s.repo.FindActiveBySeller(ctx, sellerID)
}

// SetConfig replaces the seller's active bank config. Only the seller
// themselves may change it; the swap happens in one transaction so exactly
// one active config exists at any time.
func (s *service) SetConfig(ctx context.Context, actorID uuid.UUID, input ConfigInput) (*models.SellerBankConfig, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if actorID != input.SellerID {
		return nil, pkgerrors.New(pkgerrors.CodePermission, "bank config may only be changed by its seller")
	}
	if !input.PreferenciaRetiro.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownTier,
			fmt.Sprintf("unknown withdrawal tier %q", input.PreferenciaRetiro))
	}
	if input.BankName == "" || input.AccountNumber == "" || input.AccountHolder == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank name, holder and account number are required")
	}

	var created *models.SellerBankConfig
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeactivateBySeller(ctx, input.SellerID); err != nil {
			return err
		}
		cfg := &models.SellerBankConfig{
			VendedorID:        input.SellerID,
			BankName:          input.BankName,
			AccountHolder:     input.AccountHolder,
			AccountNumber:     input.AccountNumber,
			AccountType:       input.AccountType,
			PreferenciaRetiro: input.PreferenciaRetiro,
			IsActive:          true,
		}
		var err error
		created, err = repo.Create(ctx, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SellerPayout computes the net payout for a gross amount using the seller's
// active withdrawal tier.
func (s *service) SellerPayout(ctx context.Context, sellerID uuid.UUID, gross decimal.Decimal) (*Breakdown, error) {
	cfg, err := s.GetConfig(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.calc.Payout(gross, cfg.PreferenciaRetiro)
}
