package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContactType string

const (
	ContactIndividual ContactType = "Individual"
	ContactBusiness   ContactType = "Business"
)

// Supplier is a vendor purchases are sourced from.
//
// DuesAmount is a legacy stored balance: it is still adjusted eagerly by the
// purchase-create path for pending/partial payments, but the authoritative
// outstanding balance is derived by the dues ledger from purchase history.
// The two are not reconciled automatically.
type Supplier struct {
	BaseModel
	ContactType      ContactType     `gorm:"type:varchar(20);not null" json:"contact_type" validate:"required,oneof=Individual Business"`
	FirstName        string          `gorm:"type:varchar(255)" json:"first_name"`
	LastName         string          `gorm:"type:varchar(255)" json:"last_name"`
	BusinessName     string          `gorm:"type:varchar(255)" json:"business_name"`
	Email            string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Whatsapp         string          `gorm:"type:varchar(50)" json:"whatsapp"`
	Address          string          `gorm:"type:text" json:"address"`
	DateOfEnrollment *time.Time      `gorm:"type:date" json:"date_of_enrollment,omitempty"`
	IsPublicProfile  bool            `gorm:"default:true" json:"is_public_profile"`
	DuesAmount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"dues_amount"`
}

// DisplayName returns the person name for individuals, business name otherwise
func (s *Supplier) DisplayName() string {
	if s.ContactType == ContactIndividual {
		if s.LastName == "" {
			return s.FirstName
		}
		return s.FirstName + " " + s.LastName
	}
	return s.BusinessName
}
