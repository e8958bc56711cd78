// Package session implements the interactive invoice editing session: the
// candidate line items for a visit, the totals computation, and the payment
// state machine that gates acceptance. One session belongs to one operator
// and one invoice; nothing is shared until Save.
package session

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/billing/domain"
)

// Line is one candidate service row. Lines start excluded with a unit
// quantity and a zero price; the operator opts each one in.
type Line struct {
	ID             snowflake.ID
	Description    string
	ServiceDate    time.Time
	Quantity       int64
	UnitPriceCents int64
	Included       bool
	LineTotalCents int64
}

// Totals is the derived monetary summary, always recomputed from the full
// included set.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// Session holds the in-memory editing state for one invoice.
type Session struct {
	taxRate float64
	lines   []Line
	index   map[snowflake.ID]int
	totals  Totals

	statusChosen bool
	status       domain.PaymentStatus
	method       string
	partialRaw   string
}

// Candidate is the seed for one session line, copied from the treatment
// history at session start.
type Candidate struct {
	Description string
	ServiceDate time.Time
}

// New builds a session over the candidate services. Every line starts
// excluded, quantity 1, price 0.
func New(node *snowflake.Node, taxRate float64, candidates []Candidate) *Session {
	s := &Session{
		taxRate: taxRate,
		lines:   make([]Line, 0, len(candidates)),
		index:   make(map[snowflake.ID]int, len(candidates)),
	}
	for _, candidate := range candidates {
		line := Line{
			ID:          node.Generate(),
			Description: candidate.Description,
			ServiceDate: candidate.ServiceDate,
			Quantity:    1,
		}
		s.index[line.ID] = len(s.lines)
		s.lines = append(s.lines, line)
	}
	s.recompute()
	return s
}

// Lines returns a copy of the current line state in display order.
func (s *Session) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals returns the current derived totals.
func (s *Session) Totals() Totals { return s.totals }

// ToggleInclude flips whether a line contributes to the totals.
func (s *Session) ToggleInclude(lineID snowflake.ID) error {
	i, ok := s.index[lineID]
	if !ok {
		return domain.ErrLineNotFound
	}
	s.lines[i].Included = !s.lines[i].Included
	s.recompute()
	return nil
}

// SetQuantity parses the operator's quantity input. Non-numeric or
// non-positive input is rejected at the field level: the previous valid
// value is retained and no record-level error is raised.
func (s *Session) SetQuantity(lineID snowflake.ID, raw string) error {
	i, ok := s.index[lineID]
	if !ok {
		return domain.ErrLineNotFound
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return &domain.ValidationError{Field: "quantity", Reason: "not a number"}
	}
	if quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	s.lines[i].Quantity = quantity
	s.recompute()
	return nil
}

// SetUnitPrice parses the operator's price input. Negative or non-numeric
// input is rejected, previous valid value retained.
func (s *Session) SetUnitPrice(lineID snowflake.ID, raw string) error {
	i, ok := s.index[lineID]
	if !ok {
		return domain.ErrLineNotFound
	}
	cents, err := ParseAmountCents(raw)
	if err != nil {
		return &domain.ValidationError{Field: "unit_price", Reason: "not an amount"}
	}
	if cents < 0 {
		return &domain.ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	s.lines[i].UnitPriceCents = cents
	s.recompute()
	return nil
}

// recompute rebuilds every derived value from the full included set. Totals
// are never adjusted incrementally; that is how aggregates drift.
func (s *Session) recompute() {
	var subtotal int64
	for i := range s.lines {
		line := &s.lines[i]
		if line.Included {
			line.LineTotalCents = line.Quantity * line.UnitPriceCents
		} else {
			line.LineTotalCents = 0
		}
		subtotal += line.LineTotalCents
	}
	tax := computeTax(subtotal, s.taxRate)
	s.totals = Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
	}
}

// computeTax is the single place monetary rounding happens.
func computeTax(subtotal int64, rate float64) int64 {
	if subtotal <= 0 || rate <= 0 {
		return 0
	}
	return int64(math.Round(float64(subtotal) * rate))
}

// ParseAmountCents converts a decimal currency string to integer cents.
func ParseAmountCents(raw string) (int64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &domain.ValidationError{Field: "amount", Reason: "not an amount"}
	}
	return int64(math.Round(value * 100)), nil
}
