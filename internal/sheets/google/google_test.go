package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"rupeetrack/internal/export"
)

// fakeSheetsAPI implements the handful of Sheets v4 endpoints the client uses.
type fakeSheetsAPI struct {
	mu       sync.Mutex
	id       string
	title    string
	tabs     []string
	cleared  []string
	values   map[string][][]any
	failTabs bool
}

func newFakeSheetsAPI(id string, tabs ...string) *fakeSheetsAPI {
	return &fakeSheetsAPI{id: id, title: "Untitled", tabs: tabs, values: map[string][][]any{}}
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := "/v4/spreadsheets/" + f.id
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		http.Error(w, "unknown spreadsheet", http.StatusNotFound)
		return
	}
	rest := strings.TrimPrefix(path, prefix)

	switch {
	case r.Method == http.MethodGet && rest == "":
		sheets := make([]map[string]any, len(f.tabs))
		for i, t := range f.tabs {
			sheets[i] = map[string]any{"properties": map[string]any{"title": t, "sheetId": i}}
		}
		writeJSON(w, map[string]any{"spreadsheetId": f.id, "properties": map[string]any{"title": f.title}, "sheets": sheets})

	case r.Method == http.MethodPost && rest == ":batchUpdate":
		var req gsheet.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.tabs = append(f.tabs, rq.AddSheet.Properties.Title)
			}
			if rq.UpdateSpreadsheetProperties != nil {
				f.title = rq.UpdateSpreadsheetProperties.Properties.Title
			}
		}
		writeJSON(w, map[string]any{"spreadsheetId": f.id})

	case r.Method == http.MethodPost && strings.HasPrefix(rest, "/values/") && strings.HasSuffix(rest, ":clear"):
		rng := strings.TrimSuffix(strings.TrimPrefix(rest, "/values/"), ":clear")
		f.cleared = append(f.cleared, rng)
		writeJSON(w, map[string]any{"spreadsheetId": f.id, "clearedRange": rng})

	case r.Method == http.MethodPut && strings.HasPrefix(rest, "/values/"):
		if f.failTabs {
			http.Error(w, `{"error":{"code":400,"message":"bad range"}}`, http.StatusBadRequest)
			return
		}
		rng := strings.TrimPrefix(rest, "/values/")
		if got := r.URL.Query().Get("valueInputOption"); got != "USER_ENTERED" {
			http.Error(w, "missing valueInputOption", http.StatusBadRequest)
			return
		}
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.values[rng] = vr.Values
		writeJSON(w, map[string]any{"spreadsheetId": f.id, "updatedRange": rng})

	default:
		http.Error(w, "unexpected request "+r.Method+" "+path, http.StatusNotImplemented)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, api *fakeSheetsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewWithService(svc, api.id, nil)
}

func testWorkbook() export.Workbook {
	return export.Workbook{
		Name: "RupeeTrack_Export_2025-06-15",
		Sheets: []export.Sheet{
			{Name: export.SheetExpenses, Header: []string{"Date", "Amount"}, Rows: [][]string{{"15 June 2025", "799.00"}}},
			{Name: export.SheetBillReminders, Header: []string{"Name"}, Rows: [][]string{{"Power"}, {"Rent"}}},
			{Name: export.SheetSummary, Header: []string{"Metric", "Value"}},
		},
	}
}

func TestClient_WriteWorkbook(t *testing.T) {
	api := newFakeSheetsAPI("sheet-1", "Sheet1", export.SheetExpenses)
	c := newTestClient(t, api)

	if err := c.WriteWorkbook(context.Background(), testWorkbook()); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()

	if api.title != "RupeeTrack_Export_2025-06-15" {
		t.Errorf("spreadsheet title = %q", api.title)
	}
	if got := strings.Join(api.tabs, "|"); got != "Sheet1|Expenses|Bill Reminders|Summary" {
		t.Errorf("tabs = %s", got)
	}
	if len(api.cleared) != 3 {
		t.Errorf("cleared %d tabs, want 3: %v", len(api.cleared), api.cleared)
	}

	bills, ok := api.values["'Bill Reminders'!A1"]
	if !ok {
		t.Fatalf("bill reminders not written, have %v", keys(api.values))
	}
	if len(bills) != 3 || bills[0][0] != "Name" || bills[2][0] != "Rent" {
		t.Errorf("bill reminder values = %v", bills)
	}
	if summary := api.values["'Summary'!A1"]; len(summary) != 1 {
		t.Errorf("summary should only hold the header, got %v", summary)
	}
}

func TestClient_WriteWorkbook_PropagatesErrors(t *testing.T) {
	api := newFakeSheetsAPI("sheet-1")
	api.failTabs = true
	c := newTestClient(t, api)

	err := c.WriteWorkbook(context.Background(), testWorkbook())
	if err == nil || !strings.Contains(err.Error(), "update sheet") {
		t.Fatalf("expected update error, got %v", err)
	}
}

func TestClient_WriteWorkbook_UnknownSpreadsheet(t *testing.T) {
	api := newFakeSheetsAPI("sheet-1")
	c := newTestClient(t, api)
	c.spreadsheetID = "other"

	err := c.WriteWorkbook(context.Background(), testWorkbook())
	if err == nil || !strings.Contains(err.Error(), "read spreadsheet other") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestClient_WriteWorkbook_Guards(t *testing.T) {
	if err := (&Client{}).WriteWorkbook(context.Background(), testWorkbook()); err == nil {
		t.Error("expected error without service")
	}
	c := newTestClient(t, newFakeSheetsAPI("sheet-1"))
	if err := c.WriteWorkbook(context.Background(), export.Workbook{Name: "empty"}); err == nil {
		t.Error("expected error for workbook without sheets")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"missing spreadsheet", Options{}, "missing spreadsheet id"},
		{"missing credentials", Options{SpreadsheetID: "x"}, "missing service account credentials"},
		{"unreadable file", Options{SpreadsheetID: "x", CredentialsFile: "/non/existent.json"}, "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.opts, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("New() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLayoutRequests(t *testing.T) {
	reqs := layoutRequests([]string{"Summary"}, testWorkbook())
	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want rename + 2 adds", len(reqs))
	}
	if reqs[0].UpdateSpreadsheetProperties == nil || reqs[0].UpdateSpreadsheetProperties.Fields != "title" {
		t.Errorf("first request should rename the spreadsheet: %+v", reqs[0])
	}
	if reqs[1].AddSheet.Properties.Title != export.SheetExpenses || reqs[2].AddSheet.Properties.Title != export.SheetBillReminders {
		t.Errorf("unexpected add requests")
	}
}

func TestQuoteSheetName(t *testing.T) {
	tests := map[string]string{
		"Summary":        "'Summary'",
		"Savings Goals":  "'Savings Goals'",
		"Asha's Budgets": "'Asha''s Budgets'",
	}
	for in, want := range tests {
		if got := quoteSheetName(in); got != want {
			t.Errorf("quoteSheetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func keys(m map[string][][]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
