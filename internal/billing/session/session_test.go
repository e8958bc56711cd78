package session

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vetledger/internal/billing/domain"
	treatmentdomain "github.com/smallbiznis/vetledger/internal/treatment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func twoLineSession(t *testing.T) (*Session, []Line) {
	t.Helper()
	node := mustNode(t)
	s := New(node, 0.12, []Candidate{
		{Description: "Consultation: checkup", ServiceDate: time.Now().UTC()},
		{Description: "Surgery: neuter", ServiceDate: time.Now().UTC()},
	})
	return s, s.Lines()
}

func TestNewSessionStartsExcluded(t *testing.T) {
	s, lines := twoLineSession(t)

	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.False(t, line.Included)
		assert.Equal(t, int64(1), line.Quantity)
		assert.Zero(t, line.UnitPriceCents)
		assert.Zero(t, line.LineTotalCents)
	}
	assert.Equal(t, Totals{}, s.Totals())
}

func TestTotalsScenario(t *testing.T) {
	// Two services: qty=2 price=150 included, qty=1 price=500 excluded.
	s, lines := twoLineSession(t)

	require.NoError(t, s.SetQuantity(lines[0].ID, "2"))
	require.NoError(t, s.SetUnitPrice(lines[0].ID, "150"))
	require.NoError(t, s.ToggleInclude(lines[0].ID))
	require.NoError(t, s.SetUnitPrice(lines[1].ID, "500.00"))

	totals := s.Totals()
	assert.Equal(t, int64(30000), totals.SubtotalCents)
	assert.Equal(t, int64(3600), totals.TaxCents)
	assert.Equal(t, int64(33600), totals.TotalCents)

	// Excluded line contributes nothing regardless of quantity and price.
	assert.Zero(t, s.Lines()[1].LineTotalCents)
}

func TestToggleIncludeIdempotentPairs(t *testing.T) {
	s, lines := twoLineSession(t)

	require.NoError(t, s.SetUnitPrice(lines[0].ID, "100"))
	require.NoError(t, s.ToggleInclude(lines[0].ID))
	want := s.Totals()

	require.NoError(t, s.ToggleInclude(lines[0].ID))
	require.NoError(t, s.ToggleInclude(lines[0].ID))
	assert.Equal(t, want, s.Totals())

	require.NoError(t, s.ToggleInclude(lines[0].ID))
	assert.Equal(t, Totals{}, s.Totals())
}

func TestInvalidNumericInputRetainsPreviousValue(t *testing.T) {
	s, lines := twoLineSession(t)

	require.NoError(t, s.SetQuantity(lines[0].ID, "3"))
	require.NoError(t, s.SetUnitPrice(lines[0].ID, "25.50"))
	require.NoError(t, s.ToggleInclude(lines[0].ID))

	var validation *domain.ValidationError
	err := s.SetQuantity(lines[0].ID, "abc")
	require.True(t, errors.As(err, &validation))
	err = s.SetQuantity(lines[0].ID, "0")
	require.True(t, errors.As(err, &validation))
	err = s.SetQuantity(lines[0].ID, "-2")
	require.True(t, errors.As(err, &validation))
	err = s.SetUnitPrice(lines[0].ID, "-1")
	require.True(t, errors.As(err, &validation))
	err = s.SetUnitPrice(lines[0].ID, "12,50")
	require.True(t, errors.As(err, &validation))

	line := s.Lines()[0]
	assert.Equal(t, int64(3), line.Quantity)
	assert.Equal(t, int64(2550), line.UnitPriceCents)
	assert.Equal(t, int64(7650), line.LineTotalCents)
}

func TestUnknownLine(t *testing.T) {
	s, _ := twoLineSession(t)
	node := mustNode(t)

	assert.ErrorIs(t, s.ToggleInclude(node.Generate()), domain.ErrLineNotFound)
	assert.ErrorIs(t, s.SetQuantity(node.Generate(), "1"), domain.ErrLineNotFound)
	assert.ErrorIs(t, s.SetUnitPrice(node.Generate(), "1"), domain.ErrLineNotFound)
}

func TestTaxRateIsConfiguration(t *testing.T) {
	node := mustNode(t)
	s := New(node, 0.05, []Candidate{{Description: "Grooming", ServiceDate: time.Now().UTC()}})
	lines := s.Lines()

	require.NoError(t, s.SetUnitPrice(lines[0].ID, "100"))
	require.NoError(t, s.ToggleInclude(lines[0].ID))

	assert.Equal(t, int64(500), s.Totals().TaxCents)
}

func TestCandidatesFromHistory(t *testing.T) {
	records := []treatmentdomain.Record{
		{Kind: treatmentdomain.KindConsultation, Reason: "limping"},
		{Kind: treatmentdomain.KindSurgery, SurgeryType: "neuter"},
		{Kind: treatmentdomain.KindVaccination, Vaccine: "rabies"},
	}

	all := CandidatesFromHistory(records, "")
	require.Len(t, all, 3)
	assert.Equal(t, "Consultation: limping", all[0].Description)
	assert.Equal(t, "Surgery: neuter", all[1].Description)

	filtered := CandidatesFromHistory(records, "surgery")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Surgery: neuter", filtered[0].Description)
}

func TestParseAmountCents(t *testing.T) {
	cents, err := ParseAmountCents("150")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), cents)

	cents, err = ParseAmountCents(" 19.99 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), cents)

	_, err = ParseAmountCents("abc")
	assert.Error(t, err)
}
