package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/vetledger/internal/billing/domain"
	treatmentdomain "github.com/smallbiznis/vetledger/internal/treatment/domain"
)

// InvoiceDocument is the render-ready snapshot of one invoice. All
// amounts arrive pre-formatted; the renderer does no arithmetic.
type InvoiceDocument struct {
	InvoiceNumber string
	DateIssued    string
	Reason        string
	Veterinarian  string
	Notes         string

	ClientName string
	PetName    string

	Items []InvoiceItem

	Subtotal string
	Tax      string
	Total    string

	PaymentStatus string
	PaymentMethod string
	PartialAmount string
	ReceivedBy    string
}

type InvoiceItem struct {
	Description string
	ServiceDate string
	Qty         int64
	UnitPrice   string
	Amount      string
}

// NewInvoiceDocument formats a stored invoice for rendering. Excluded
// line items are dropped here; the print shows what was billed, not the
// whole working set.
func NewInvoiceDocument(invoice domain.Invoice, clientName, petName string) InvoiceDocument {
	doc := InvoiceDocument{
		InvoiceNumber: invoice.InvoiceNo,
		DateIssued:    invoice.DateIssued.Format(treatmentdomain.DateLayout),
		Reason:        invoice.Reason,
		Veterinarian:  invoice.Veterinarian,
		Notes:         invoice.Notes,
		ClientName:    clientName,
		PetName:       petName,
		Subtotal:      FormatAmount(invoice.SubtotalCents, invoice.Currency),
		Tax:           FormatAmount(invoice.TaxCents, invoice.Currency),
		Total:         FormatAmount(invoice.TotalCents, invoice.Currency),
		PaymentStatus: string(invoice.PaymentStatus),
		ReceivedBy:    invoice.ReceivedBy,
	}
	if invoice.PaymentMethod != nil {
		doc.PaymentMethod = *invoice.PaymentMethod
	}
	if invoice.PartialCents != nil {
		doc.PartialAmount = FormatAmount(*invoice.PartialCents, invoice.Currency)
	}

	for _, line := range invoice.LineItems {
		if !line.Included {
			continue
		}
		doc.Items = append(doc.Items, InvoiceItem{
			Description: line.Description,
			ServiceDate: line.ServiceDate.Format(treatmentdomain.DateLayout),
			Qty:         line.Quantity,
			UnitPrice:   FormatAmount(line.UnitPriceCents, invoice.Currency),
			Amount:      FormatAmount(line.LineTotalCents, invoice.Currency),
		})
	}
	return doc
}

func (p *MarotoProvider) GenerateInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error) {
	cfg := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	// Registered header repeats on every page a long invoice spills onto:
	// letterhead, invoice number, and the item column heads.
	err := m.RegisterHeader(
		row.New(22).Add(
			col.New(12).Add(
				text.New(p.clinic.Name, props.Text{Size: 16, Style: fontstyle.Bold}),
				text.New(p.clinic.Address, props.Text{Top: 8, Size: 9}),
				text.New(p.clinic.Contact+"  "+p.clinic.Email, props.Text{Top: 13, Size: 9}),
			),
		),
		row.New(10).Add(
			text.NewCol(6, "Invoice "+doc.InvoiceNumber, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
			text.NewCol(6, doc.DateIssued, props.Text{Size: 10, Align: align.Right}),
		),
		row.New(8).Add(
			text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		),
	)
	if err != nil {
		return nil, err
	}

	// Invoice meta
	m.AddRow(18,
		col.New(6).Add(
			text.New("Reason: "+doc.Reason, props.Text{Top: 0}),
			text.New("Veterinarian: "+doc.Veterinarian, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Client: "+doc.ClientName, props.Text{Top: 0}),
			text.New("Pet: "+doc.PetName, props.Text{Top: 5}),
		),
	)

	for _, item := range doc.Items {
		m.AddRow(8,
			text.NewCol(5, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.ServiceDate, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Totals
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, doc.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Tax", props.Text{Size: 9}),
		text.NewCol(2, doc.Tax, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, doc.Total, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	// Payment footer
	payment := "Payment status: " + doc.PaymentStatus
	if doc.PaymentMethod != "" {
		payment += "  Method: " + doc.PaymentMethod
	}
	if doc.PartialAmount != "" {
		payment += "  Amount received: " + doc.PartialAmount
	}
	m.AddRow(14,
		col.New(12).Add(
			text.New(payment, props.Text{Top: 2, Size: 9}),
			text.New("Received by: "+doc.ReceivedBy, props.Text{Top: 7, Size: 9}),
		),
	)

	if doc.Notes != "" {
		m.AddRow(10,
			text.NewCol(12, "Notes: "+doc.Notes, props.Text{Size: 8}),
		)
	}

	rendered, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(rendered.GetBytes()), nil
}
