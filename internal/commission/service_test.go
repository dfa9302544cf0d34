package commission

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

type stubConfigRepo struct {
	active      *models.SellerBankConfig
	deactivated bool
	created     *models.SellerBankConfig
}

func (s *stubConfigRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubConfigRepo) FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankConfig, error) {
	if s.active == nil || s.active.VendedorID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active bank config for seller")
	}
	return s.active, nil
}

func (s *stubConfigRepo) Create(ctx context.Context, cfg *models.SellerBankConfig) (*models.SellerBankConfig, error) {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	s.created = cfg
	s.active = cfg
	return cfg, nil
}

func (s *stubConfigRepo) DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) error {
	s.deactivated = true
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	calc, err := NewCalculator(testConfig(t))
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	svc, err := NewService(repo, calc, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSetConfigRejectsOtherActors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubConfigRepo{})
	seller := uuid.New()
	_, err := svc.SetConfig(context.Background(), uuid.New(), ConfigInput{
		SellerID:          seller,
		BankName:          "Banco Estado",
		AccountHolder:     "Feria Ltda",
		AccountNumber:     "123456",
		AccountType:       "corriente",
		PreferenciaRetiro: enums.WithdrawalTier15Days,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodePermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestSetConfigSwapsActiveConfig(t *testing.T) {
	t.Parallel()

	repo := &stubConfigRepo{}
	svc := newTestService(t, repo)
	seller := uuid.New()

	created, err := svc.SetConfig(context.Background(), seller, ConfigInput{
		SellerID:          seller,
		BankName:          "Banco Estado",
		AccountHolder:     "Feria Ltda",
		AccountNumber:     "123456",
		AccountType:       "corriente",
		PreferenciaRetiro: enums.WithdrawalTier35Days,
	})
	if err != nil {
		t.Fatalf("set config: %v", err)
	}
	if !repo.deactivated {
		t.Fatal("previous config must be deactivated first")
	}
	if created.PreferenciaRetiro != enums.WithdrawalTier35Days || !created.IsActive {
		t.Fatalf("unexpected created config: %+v", created)
	}
}

func TestSetConfigRejectsUnknownTier(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubConfigRepo{})
	seller := uuid.New()
	_, err := svc.SetConfig(context.Background(), seller, ConfigInput{
		SellerID:          seller,
		BankName:          "Banco Estado",
		AccountHolder:     "Feria Ltda",
		AccountNumber:     "123456",
		PreferenciaRetiro: enums.WithdrawalTier("mañana"),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnknownTier) {
		t.Fatalf("expected unknown tier error, got %v", err)
	}
}

func TestSellerPayoutUsesActiveTier(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	repo := &stubConfigRepo{active: &models.SellerBankConfig{
		ID:                uuid.New(),
		VendedorID:        seller,
		PreferenciaRetiro: enums.WithdrawalTier7Days,
		IsActive:          true,
	}}
	svc := newTestService(t, repo)

	breakdown, err := svc.SellerPayout(context.Background(), seller, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("seller payout: %v", err)
	}
	if !breakdown.Net.Equal(decimal.NewFromInt(880)) {
		t.Fatalf("net = %s, want 880", breakdown.Net)
	}
}

func TestSellerPayoutWithoutConfig(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubConfigRepo{})
	_, err := svc.SellerPayout(context.Background(), uuid.New(), decimal.NewFromInt(100))
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
