package session

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/billing/domain"
)

// SetPaymentStatus records the operator's explicit choice. Switching to
// UNPAID clears the payment method and partial amount; switching to PAID
// clears the partial amount.
func (s *Session) SetPaymentStatus(status domain.PaymentStatus) error {
	if !domain.ValidPaymentStatus(string(status)) {
		return &domain.ValidationError{Field: "payment_status", Reason: "unknown status"}
	}
	s.statusChosen = true
	s.status = status
	switch status {
	case domain.PaymentUnpaid:
		s.method = ""
		s.partialRaw = ""
	case domain.PaymentPaid:
		s.partialRaw = ""
	}
	return nil
}

// SetPaymentMethod records the payment method. Method selection is disabled
// while the invoice is UNPAID.
func (s *Session) SetPaymentMethod(method string) error {
	if s.statusChosen && s.status == domain.PaymentUnpaid {
		return &domain.ValidationError{Field: "payment_method", Reason: "disabled while unpaid"}
	}
	s.method = strings.TrimSpace(method)
	return nil
}

// SetPartialAmount stores the operator's input as typed and live-validates
// it. Invalid input marks the field but never blocks further typing; the
// raw value stays so the operator can keep correcting it.
func (s *Session) SetPartialAmount(raw string) error {
	s.partialRaw = raw
	return s.validatePartial()
}

// PaymentStatus returns the chosen status and whether one was chosen yet.
func (s *Session) PaymentStatus() (domain.PaymentStatus, bool) {
	return s.status, s.statusChosen
}

func (s *Session) PaymentMethod() string { return s.method }

func (s *Session) validatePartial() error {
	cents, err := ParseAmountCents(s.partialRaw)
	if err != nil {
		return &domain.ValidationError{Field: "partial_amount", Reason: "not an amount"}
	}
	if cents <= 0 || cents >= s.totals.TotalCents {
		return domain.ErrPartialOutOfRange
	}
	return nil
}

// Accept gates the session: the payment state must be complete and
// consistent with the current totals before the invoice can be persisted.
func (s *Session) Accept() error {
	if !s.statusChosen {
		return domain.ErrNoPaymentStatus
	}
	switch s.status {
	case domain.PaymentUnpaid:
		return nil
	case domain.PaymentPaid:
		if s.method == "" {
			return domain.ErrMissingPaymentMethod
		}
		return nil
	case domain.PaymentPartial:
		if s.method == "" {
			return domain.ErrMissingPaymentMethod
		}
		return s.validatePartial()
	}
	return domain.ErrNoPaymentStatus
}

// DraftMeta is the header data the operator filled in alongside the lines.
type DraftMeta struct {
	ClientID     string
	PetID        string
	DateIssued   time.Time
	Reason       string
	Veterinarian string
	Notes        string
	ReceivedBy   string
}

// Draft runs the acceptance gate and snapshots the session into a
// persistable draft.
func (s *Session) Draft(node *snowflake.Node, meta DraftMeta) (domain.Draft, error) {
	if err := s.Accept(); err != nil {
		return domain.Draft{}, err
	}

	draft := domain.Draft{
		ClientID:      meta.ClientID,
		PetID:         meta.PetID,
		DateIssued:    meta.DateIssued,
		Reason:        meta.Reason,
		Veterinarian:  meta.Veterinarian,
		Notes:         meta.Notes,
		ReceivedBy:    meta.ReceivedBy,
		TaxRate:       s.taxRate,
		SubtotalCents: s.totals.SubtotalCents,
		TaxCents:      s.totals.TaxCents,
		TotalCents:    s.totals.TotalCents,
		PaymentStatus: s.status,
		PaymentMethod: s.method,
	}
	if s.status == domain.PaymentPartial {
		cents, err := ParseAmountCents(s.partialRaw)
		if err != nil {
			return domain.Draft{}, err
		}
		draft.PartialCents = cents
	}

	for _, line := range s.lines {
		draft.Lines = append(draft.Lines, domain.LineItem{
			ID:             node.Generate(),
			Description:    line.Description,
			ServiceDate:    line.ServiceDate,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Included:       line.Included,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return draft, nil
}
