package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/smallbiznis/vetledger/internal/billing/domain"
	"github.com/smallbiznis/vetledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider() Provider {
	return New(config.Config{Clinic: config.ClinicConfig{
		Name:    "Happy Paws Veterinary Clinic",
		Address: "123 Mabini St., Quezon City",
		Contact: "0917 000 0000",
		Email:   "frontdesk@happypaws.ph",
	}})
}

// pageCount counts page objects in the rendered output. The pages root also
// carries a /Type /Pages dictionary, hence the subtraction.
func pageCount(t *testing.T, r io.Reader) int {
	t.Helper()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestInvoiceFilename(t *testing.T) {
	assert.Equal(t, "Invoice_INV-2025-0042.pdf", InvoiceFilename("INV-2025-0042"))
	assert.Equal(t, "Invoice_INV-2025-0001.pdf", InvoiceFilename("  INV-2025-0001  "))
}

func TestTableFilename(t *testing.T) {
	at := time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC)
	assert.Equal(t,
		"Deworming_Canine_20250310_143005.pdf",
		TableFilename("Deworming", "Canine", at),
	)
	assert.Equal(t,
		"Unpaid-Invoices_All_20250310_143005.pdf",
		TableFilename("Unpaid Invoices", "All", at),
	)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "PHP 336.00", FormatAmount(33600, "PHP"))
	assert.Equal(t, "PHP 0.05", FormatAmount(5, "PHP"))
	assert.Equal(t, "PHP -12.50", FormatAmount(-1250, "PHP"))
}

func TestNewInvoiceDocumentDropsExcludedLines(t *testing.T) {
	method := "Cash"
	invoice := domain.Invoice{
		InvoiceNo:     "INV-2025-0001",
		DateIssued:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Currency:      "PHP",
		SubtotalCents: 30000,
		TaxCents:      3600,
		TotalCents:    33600,
		PaymentStatus: domain.PaymentPaid,
		PaymentMethod: &method,
		LineItems: []domain.LineItem{
			{Description: "Consultation: checkup", Quantity: 2, UnitPriceCents: 15000, Included: true, LineTotalCents: 30000},
			{Description: "Surgery: neuter", Quantity: 1, UnitPriceCents: 50000, Included: false},
		},
	}

	doc := NewInvoiceDocument(invoice, "Ana Cruz", "Bogart")
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Consultation: checkup", doc.Items[0].Description)
	assert.Equal(t, "PHP 300.00", doc.Items[0].Amount)
	assert.Equal(t, "PHP 336.00", doc.Total)
	assert.Equal(t, "Cash", doc.PaymentMethod)
	assert.Equal(t, "2025-03-10", doc.DateIssued)
}

func TestGenerateInvoiceSinglePage(t *testing.T) {
	doc := InvoiceDocument{
		InvoiceNumber: "INV-2025-0001",
		DateIssued:    "2025-03-10",
		ClientName:    "Ana Cruz",
		PetName:       "Bogart",
		Items: []InvoiceItem{
			{Description: "Consultation: checkup", ServiceDate: "2025-03-01", Qty: 1, UnitPrice: "PHP 500.00", Amount: "PHP 500.00"},
		},
		Subtotal:      "PHP 500.00",
		Tax:           "PHP 60.00",
		Total:         "PHP 560.00",
		PaymentStatus: "UNPAID",
	}

	out, err := testProvider().GenerateInvoice(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, out))
}

func TestGenerateInvoiceRepeatsHeaderAcrossPages(t *testing.T) {
	doc := InvoiceDocument{
		InvoiceNumber: "INV-2025-0002",
		DateIssued:    "2025-03-10",
		ClientName:    "Ana Cruz",
		PetName:       "Bogart",
		Subtotal:      "PHP 60000.00",
		Tax:           "PHP 7200.00",
		Total:         "PHP 67200.00",
		PaymentStatus: "UNPAID",
	}
	for i := 0; i < 120; i++ {
		doc.Items = append(doc.Items, InvoiceItem{
			Description: fmt.Sprintf("Consultation: follow-up %d", i+1),
			ServiceDate: "2025-03-01",
			Qty:         1,
			UnitPrice:   "PHP 500.00",
			Amount:      "PHP 500.00",
		})
	}

	out, err := testProvider().GenerateInvoice(context.Background(), doc)
	require.NoError(t, err)
	// The registered header forces the letterhead and column heads onto
	// every continuation page.
	assert.GreaterOrEqual(t, pageCount(t, out), 2)
}

func TestGenerateTableRepeatsHeaderAcrossPages(t *testing.T) {
	doc := TableDocument{
		TableType:   "Deworming",
		Category:    "Canine",
		Columns:     []string{"Date", "Pet", "Dewormer", "Weight"},
		GeneratedAt: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	for i := 0; i < 200; i++ {
		doc.Rows = append(doc.Rows, []string{"2025-03-01", "Bogart", "Pyrantel", "12kg"})
	}

	out, err := testProvider().GenerateTable(context.Background(), doc)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pageCount(t, out), 2)
}

func TestTableDocumentFilename(t *testing.T) {
	doc := TableDocument{
		TableType:   "Vaccination",
		Category:    "Feline",
		GeneratedAt: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "Vaccination_Feline_20250310_090000.pdf", doc.Filename())
}
