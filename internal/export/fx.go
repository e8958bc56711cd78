package export

import (
	"github.com/smallbiznis/vetledger/internal/export/pdf"
	"go.uber.org/fx"
)

// Module wires the document exporter.
var Module = fx.Module("export",
	fx.Provide(pdf.New),
)
