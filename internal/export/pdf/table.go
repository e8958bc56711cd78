package pdf

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// TableDocument is a generic tabular export, e.g. a deworming history
// for one pet or a list of unpaid invoices.
type TableDocument struct {
	TableType   string
	Category    string
	Columns     []string
	Rows        [][]string
	GeneratedAt time.Time
}

// Filename returns the canonical download name for this export.
func (d TableDocument) Filename() string {
	return TableFilename(d.TableType, d.Category, d.GeneratedAt)
}

func (p *MarotoProvider) GenerateTable(ctx context.Context, doc TableDocument) (io.Reader, error) {
	cfg := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	title := doc.TableType
	if doc.Category != "" {
		title += " / " + doc.Category
	}

	width := columnWidth(len(doc.Columns))
	header := make([]core.Col, 0, len(doc.Columns))
	for _, name := range doc.Columns {
		header = append(header, text.NewCol(width, name, props.Text{Style: fontstyle.Bold, Size: 9}))
	}

	// Letterhead, title, and column heads repeat on every page of a long
	// export.
	err := m.RegisterHeader(
		row.New(16).Add(
			col.New(12).Add(
				text.New(p.clinic.Name, props.Text{Size: 14, Style: fontstyle.Bold}),
				text.New(p.clinic.Address, props.Text{Top: 7, Size: 9}),
			),
		),
		row.New(10).Add(
			text.NewCol(12, title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
		),
		row.New(8).Add(header...),
	)
	if err != nil {
		return nil, err
	}

	m.AddRow(8,
		text.NewCol(12, "Generated "+doc.GeneratedAt.Format("2006-01-02 15:04"), props.Text{Size: 8}),
	)

	for _, record := range doc.Rows {
		cells := make([]core.Col, 0, len(record))
		for _, value := range record {
			cells = append(cells, text.NewCol(width, value, props.Text{Size: 9}))
		}
		m.AddRow(8, cells...)
	}

	rendered, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(rendered.GetBytes()), nil
}

// columnWidth spreads columns across the 12-unit grid. Remainder units
// are dropped rather than producing an over-wide row.
func columnWidth(columns int) int {
	if columns <= 0 {
		return 12
	}
	width := 12 / columns
	if width < 1 {
		width = 1
	}
	return width
}
