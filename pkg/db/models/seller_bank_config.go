package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/pkg/enums"
)

// SellerBankConfig holds a seller's payout destination and their chosen
// withdrawal tier. At most one active config exists per seller (partial
// unique index in the migration); only the seller may mutate it.
type SellerBankConfig struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	VendedorID        uuid.UUID            `gorm:"column:vendedor_id;type:uuid;not null;index"`
	BankName          string               `gorm:"column:bank_name;not null"`
	AccountHolder     string               `gorm:"column:account_holder;not null"`
	AccountNumber     string               `gorm:"column:account_number;not null"`
	AccountType       string               `gorm:"column:account_type;not null"`
	PreferenciaRetiro enums.WithdrawalTier `gorm:"column:preferencia_retiro;type:text;not null;default:'a_15_dias'"`
	IsActive          bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
