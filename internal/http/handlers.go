package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
	"rupeetrack/internal/log"
	"rupeetrack/internal/middleware/trace"
)

type healthResponse struct {
	Status  string        `json:"status"`
	Metrics trace.Metrics `json:"metrics"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Metrics: s.tracer.GetMetrics()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Snapshot())
}

type payResponse struct {
	Bill    core.BillReminder `json:"bill"`
	Expense core.Expense      `json:"expense"`
}

// handlePayBill refuses to pay a reminder twice; the store itself would
// record a second payment expense.
func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	bill, ok := s.store.BillReminder(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "bill reminder not found")
		return
	}
	if bill.IsPaid {
		writeError(w, r, http.StatusConflict, "bill reminder is already paid")
		return
	}

	expenseID, ok := s.store.MarkBillAsPaid(r.Context(), id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "bill reminder not found")
		return
	}
	bill, _ = s.store.BillReminder(id)
	expense, _ := s.store.Expense(expenseID)

	log.FromContext(r.Context()).InfoContext(r.Context(), "Bill paid",
		log.FieldOperation, log.OpPay,
		log.FieldEntityID, id,
		log.FieldAmount, bill.Amount.String())
	writeJSON(w, r, http.StatusOK, payResponse{Bill: bill, Expense: expense})
}

func (s *Server) handleUpcomingBills(w http.ResponseWriter, r *http.Request) {
	bills := s.store.UpcomingBills()
	if bills == nil {
		bills = []core.BillReminder{}
	}
	writeJSON(w, r, http.StatusOK, bills)
}

type budgetStatusResponse struct {
	Budget core.Budget       `json:"budget"`
	Status core.BudgetStatus `json:"status"`
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b, ok := s.store.Budget(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "budget not found")
		return
	}
	writeJSON(w, r, http.StatusOK, budgetStatusResponse{Budget: b, Status: s.store.BudgetStatus(id)})
}

type summaryResponse struct {
	Currency        core.Currency              `json:"currency"`
	Overview        core.MonthOverview         `json:"overview"`
	RemainingBudget string                     `json:"remainingBudget"`
	ByCategory      map[string]decimal.Decimal `json:"byCategory"`
	ByMonth         map[string]decimal.Decimal `json:"byMonth"`
	TopCategories   []core.CategoryAmount      `json:"topCategories"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, cached(s, "summary", s.summary))
}

func (s *Server) summary() summaryResponse {
	currency := s.store.Settings().Currency
	overview := s.store.MonthOverview()
	top := s.store.TopCategories()
	if top == nil {
		top = []core.CategoryAmount{}
	}
	return summaryResponse{
		Currency:        currency,
		Overview:        overview,
		RemainingBudget: core.FormatAmount(currency, overview.Remaining),
		ByCategory:      s.store.TotalExpensesByCategory(),
		ByMonth:         s.store.TotalExpensesByMonth(),
		TopCategories:   top,
	}
}

type forecastResponse struct {
	Category   string          `json:"category,omitempty"`
	Prediction decimal.Decimal `json:"prediction"`
	Display    string          `json:"display"`
}

// handleForecast predicts next month's spending, for one category when the
// category query parameter is set.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	category := sanitizeInput(r.URL.Query().Get("category"))
	resp := cached(s, "forecast:"+category, func() forecastResponse {
		prediction := s.store.PredictExpenseForNextMonth(category)
		return forecastResponse{
			Category:   category,
			Prediction: prediction,
			Display:    core.FormatAmount(s.store.Settings().Currency, prediction),
		}
	})
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	anomalies := cached(s, "anomalies", func() []core.Expense {
		if a := s.store.Anomalies(); a != nil {
			return a
		}
		return []core.Expense{}
	})
	writeJSON(w, r, http.StatusOK, anomalies)
}

type tipsResponse struct {
	Tips []string `json:"tips"`
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	resp := cached(s, "tips", func() tipsResponse {
		tips := s.store.SavingsTips()
		if tips == nil {
			tips = []string{}
		}
		return tipsResponse{Tips: tips}
	})
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Settings())
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language core.Language `json:"language"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !body.Language.IsValid() {
		writeError(w, r, http.StatusBadRequest, core.ErrInvalidLanguage.Error()+": "+string(body.Language))
		return
	}
	s.store.SetLanguage(r.Context(), body.Language)
	writeJSON(w, r, http.StatusOK, s.store.Settings())
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Currency core.Currency `json:"currency"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !body.Currency.IsValid() {
		writeError(w, r, http.StatusBadRequest, core.ErrInvalidCurrency.Error()+": "+string(body.Currency))
		return
	}
	s.store.SetCurrency(r.Context(), body.Currency)
	writeJSON(w, r, http.StatusOK, s.store.Settings())
}

func (s *Server) handleToggleNotifications(w http.ResponseWriter, r *http.Request) {
	s.store.ToggleNotifications(r.Context())
	writeJSON(w, r, http.StatusOK, s.store.Settings())
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Profile())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p core.UserProfilePatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p.Name = sanitizePtr(p.Name)
	p.Email = sanitizePtr(p.Email)
	p.Avatar = sanitizePtr(p.Avatar)
	if p.Name != nil && *p.Name == "" {
		writeError(w, r, http.StatusBadRequest, "invalid profile: "+core.ErrEmptyName.Error())
		return
	}
	if p.Email != nil && *p.Email != "" && !strings.Contains(*p.Email, "@") {
		writeError(w, r, http.StatusBadRequest, "invalid profile: malformed email")
		return
	}
	s.store.UpdateUserProfile(r.Context(), p)
	writeJSON(w, r, http.StatusOK, s.store.Profile())
}

type exportResponse struct {
	Workbook string   `json:"workbook"`
	Sheets   []string `json:"sheets"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, r, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	wb, err := s.exporter.Export(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
			log.FieldOperation, log.OpExport,
			log.FieldError, err)
		writeError(w, r, http.StatusBadGateway, "export failed")
		return
	}
	writeJSON(w, r, http.StatusOK, exportResponse{Workbook: wb.Name, Sheets: wb.SheetNames()})
}
