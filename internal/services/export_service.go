package services

import (
	"context"
	"fmt"
	"time"

	"rupeetrack/internal/core"
	"rupeetrack/internal/export"
	"rupeetrack/internal/log"
	"rupeetrack/internal/sheets"
)

// SnapshotSource is the part of the store an export reads.
type SnapshotSource interface {
	Snapshot() core.State
}

// ExportService renders the current state as a workbook and hands it to the
// configured writer.
type ExportService struct {
	source  SnapshotSource
	builder *export.Builder
	writer  sheets.WorkbookWriter
	now     func() time.Time
	logger  *log.Logger
}

func NewExportService(source SnapshotSource, builder *export.Builder, writer sheets.WorkbookWriter, logger *log.Logger) *ExportService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportService{
		source:  source,
		builder: builder,
		writer:  writer,
		now:     time.Now,
		logger:  logger.WithComponent(log.ComponentExport),
	}
}

// WithClock overrides the clock used to name the workbook.
func (s *ExportService) WithClock(now func() time.Time) *ExportService {
	s.now = now
	return s
}

// Export builds a workbook from a fresh snapshot and writes it.
func (s *ExportService) Export(ctx context.Context) (export.Workbook, error) {
	if s.source == nil || s.builder == nil || s.writer == nil {
		return export.Workbook{}, fmt.Errorf("export service not properly initialized")
	}

	start := time.Now()
	wb := s.builder.Build(s.source.Snapshot(), core.Today(s.now()))
	if err := s.writer.WriteWorkbook(ctx, wb); err != nil {
		return export.Workbook{}, fmt.Errorf("write workbook %s: %w", wb.Name, err)
	}

	rows := 0
	for _, sh := range wb.Sheets {
		rows += len(sh.Rows)
	}
	s.logger.InfoContext(ctx, "Export complete",
		log.FieldOperation, log.OpExport,
		log.FieldWorkbook, wb.Name,
		log.FieldCount, rows,
		log.FieldDuration, time.Since(start).Milliseconds())

	return wb, nil
}
