package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smallbiznis/vetledger/internal/config"
)

// Provider renders printable documents. Rendering never mutates stored
// data; callers pass a fully computed snapshot.
type Provider interface {
	GenerateInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error)
	GenerateTable(ctx context.Context, doc TableDocument) (io.Reader, error)
}

// MarotoProvider renders documents with maroto. The clinic letterhead
// comes from configuration so every document carries the same header.
type MarotoProvider struct {
	clinic config.ClinicConfig
}

func New(cfg config.Config) Provider {
	return &MarotoProvider{clinic: cfg.Clinic}
}

// InvoiceFilename returns the canonical download name for an invoice
// document.
func InvoiceFilename(invoiceNo string) string {
	return fmt.Sprintf("Invoice_%s.pdf", sanitize(invoiceNo))
}

// TableFilename returns the canonical download name for a tabular
// export. The timestamp keeps repeated exports from clobbering each
// other.
func TableFilename(tableType, category string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf",
		sanitize(tableType),
		sanitize(category),
		at.Format("20060102_150405"),
	)
}

// FormatAmount renders a cent amount with its currency code. Amounts are
// stored as integer cents; this is the only place they become decimal
// text.
func FormatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, cents/100, cents%100)
}

func sanitize(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), "-")
}
