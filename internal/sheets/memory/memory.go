package memory

import (
	"context"
	"errors"
	"sync"

	"rupeetrack/internal/export"
	ports "rupeetrack/internal/sheets"
)

// Writer keeps every written workbook in memory. It backs the export
// endpoints when no spreadsheet is configured, and tests.
type Writer struct {
	mu        sync.Mutex
	workbooks []export.Workbook
}

var _ ports.WorkbookWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteWorkbook(ctx context.Context, wb export.Workbook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if wb.Name == "" {
		return errors.New("workbook name is required")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workbooks = append(w.workbooks, wb)
	return nil
}

// Last returns the most recently written workbook.
func (w *Writer) Last() (export.Workbook, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.workbooks) == 0 {
		return export.Workbook{}, false
	}
	return w.workbooks[len(w.workbooks)-1], true
}

// Count reports how many workbooks were written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.workbooks)
}
