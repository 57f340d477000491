package sheets

import (
	"context"

	"rupeetrack/internal/export"
)

// Ports for outbound adapters.
type (
	// WorkbookWriter publishes an exported workbook to a spreadsheet target,
	// replacing the contents of every tab it names.
	WorkbookWriter interface {
		WriteWorkbook(ctx context.Context, wb export.Workbook) error
	}
)
