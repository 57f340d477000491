package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"rupeetrack/internal/export"
	"rupeetrack/internal/log"
	ports "rupeetrack/internal/sheets"
)

// maxConcurrentTabs bounds the tabs written in parallel, keeping well under
// the per-user write quota of the Sheets API.
const maxConcurrentTabs = 3

// Options configures the target spreadsheet and service-account credentials.
// CredentialsJSON wins over CredentialsFile when both are set.
type Options struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

// Client writes exported workbooks to a single Google Spreadsheet, one tab
// per workbook sheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

// Ensure interface conformance
var _ ports.WorkbookWriter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, opts.SpreadsheetID, logger), nil
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		credentialsJSON = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteWorkbook renames the spreadsheet after the workbook, adds any missing
// tabs, then clears and rewrites every tab concurrently.
func (c *Client) WriteWorkbook(ctx context.Context, wb export.Workbook) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(wb.Sheets) == 0 {
		return errors.New("workbook has no sheets")
	}

	existing, err := c.sheetTitles(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: layoutRequests(existing, wb)}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("prepare spreadsheet tabs: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTabs)
	for _, sh := range wb.Sheets {
		g.Go(func() error {
			return c.writeSheet(gctx, sh)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Workbook written to spreadsheet",
		log.FieldWorkbook, wb.Name,
		log.FieldCount, len(wb.Sheets))
	return nil
}

func (c *Client) sheetTitles(ctx context.Context) ([]string, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("properties.title", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", c.spreadsheetID, err)
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

func (c *Client) writeSheet(ctx context.Context, sh export.Sheet) error {
	tab := quoteSheetName(sh.Name)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, tab, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", sh.Name, err)
	}

	vr := &gsheet.ValueRange{Values: sheetValues(sh)}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, tab+"!A1", vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", sh.Name, err)
	}
	return nil
}

// layoutRequests renames the spreadsheet and adds the tabs the workbook
// needs that are not present yet, in workbook order.
func layoutRequests(existing []string, wb export.Workbook) []*gsheet.Request {
	have := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		have[t] = struct{}{}
	}

	reqs := []*gsheet.Request{{
		UpdateSpreadsheetProperties: &gsheet.UpdateSpreadsheetPropertiesRequest{
			Properties: &gsheet.SpreadsheetProperties{Title: wb.Name},
			Fields:     "title",
		},
	}}
	for _, sh := range wb.Sheets {
		if _, ok := have[sh.Name]; ok {
			continue
		}
		have[sh.Name] = struct{}{}
		reqs = append(reqs, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: sh.Name}},
		})
	}
	return reqs
}

func sheetValues(sh export.Sheet) [][]any {
	values := make([][]any, 0, len(sh.Rows)+1)
	values = append(values, toRow(sh.Header))
	for _, r := range sh.Rows {
		values = append(values, toRow(r))
	}
	return values
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// quoteSheetName returns the A1-notation form of a tab name.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
