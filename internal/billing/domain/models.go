// Package domain contains persistence models for billing invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus is the operator-chosen settlement state of an invoice.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
)

func ValidPaymentStatus(raw string) bool {
	switch PaymentStatus(raw) {
	case PaymentPaid, PaymentUnpaid, PaymentPartial:
		return true
	}
	return false
}

// Invoice is a finalized billing document. All monetary amounts are integer
// cents; rounding happens once, in the tax computation.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceNo     string            `gorm:"column:invoice_no;uniqueIndex;not null" json:"invoice_no"`
	InvoiceSeq    int64             `gorm:"column:invoice_seq;not null" json:"invoice_seq"`
	ClientID      snowflake.ID      `gorm:"column:client_id;not null;index" json:"client_id"`
	PetID         snowflake.ID      `gorm:"column:pet_id;not null;index" json:"pet_id"`
	DateIssued    time.Time         `gorm:"column:date_issued;not null;index" json:"date_issued"`
	Reason        string            `gorm:"type:text" json:"reason,omitempty"`
	Veterinarian  string            `gorm:"type:text" json:"veterinarian,omitempty"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	Currency      string            `gorm:"type:text;not null" json:"currency"`
	SubtotalCents int64             `gorm:"column:subtotal_cents;not null;default:0" json:"subtotal_cents"`
	TaxCents      int64             `gorm:"column:tax_cents;not null;default:0" json:"tax_cents"`
	TotalCents    int64             `gorm:"column:total_cents;not null;default:0" json:"total_cents"`
	TaxRate       float64           `gorm:"column:tax_rate;not null;default:0" json:"tax_rate"`
	PaymentStatus PaymentStatus     `gorm:"column:payment_status;type:text;not null" json:"payment_status"`
	PaymentMethod *string           `gorm:"column:payment_method;type:text" json:"payment_method,omitempty"`
	PartialCents  *int64            `gorm:"column:partial_cents" json:"partial_cents,omitempty"`
	ReceivedBy    string            `gorm:"column:received_by;type:text" json:"received_by,omitempty"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	Version       int64             `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItem is one billable service row, owned exclusively by its invoice.
// Description and price are copied from the treatment history at selection
// time; the source record is not tracked afterward.
type LineItem struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID      snowflake.ID `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	Description    string       `gorm:"type:text;not null" json:"description"`
	ServiceDate    time.Time    `gorm:"column:service_date;not null" json:"service_date"`
	Quantity       int64        `gorm:"not null;default:1" json:"quantity"`
	UnitPriceCents int64        `gorm:"column:unit_price_cents;not null;default:0" json:"unit_price_cents"`
	Included       bool         `gorm:"not null;default:false" json:"included"`
	LineTotalCents int64        `gorm:"column:line_total_cents;not null;default:0" json:"line_total_cents"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_line_items" }
