package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/service"
)

type tripResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	MemberCount int    `json:"member_count"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type memberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type expenseResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Amount         string `json:"amount"`
	PaidByMemberID string `json:"paid_by_member_id"`
	PaidByName     string `json:"paid_by_name"`
	CreatedAt      int64  `json:"created_at"`
}

// balanceResponse formats all money fields to 2 decimals (half-up); the
// unrounded values never leave the calculator.
type balanceResponse struct {
	MemberID  string `json:"member_id"`
	Name      string `json:"name"`
	TotalPaid string `json:"total_paid"`
	ShouldPay string `json:"should_pay"`
	Balance   string `json:"balance"`
}

func toTripResponse(t *models.Trip) tripResponse {
	return tripResponse{
		ID:          t.ID,
		Title:       t.Title,
		MemberCount: t.MemberCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toMemberResponses(members []*models.Member) []memberResponse {
	out := make([]memberResponse, len(members))
	for i, m := range members {
		out[i] = memberResponse{ID: m.ID, Name: m.Name}
	}
	return out
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:             e.ID,
		Title:          e.Title,
		Amount:         e.Amount.StringFixed(2),
		PaidByMemberID: e.PaidByMemberID,
		PaidByName:     e.PayerName,
		CreatedAt:      e.CreatedAt,
	}
}

func (h *Handler) createTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		MemberNames []string `json:"member_names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}

	trip, members, err := h.ledger.CreateTrip(r.Context(), middleware.GetUserID(r.Context()), req.Title, req.MemberNames)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"trip":    toTripResponse(trip),
		"members": toMemberResponses(members),
	})
}

func (h *Handler) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.ledger.ListTrips(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = toTripResponse(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": out})
}

func (h *Handler) getTrip(w http.ResponseWriter, r *http.Request) {
	trip, members, err := h.ledger.GetTrip(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trip":    toTripResponse(trip),
		"members": toMemberResponses(members),
	})
}

func (h *Handler) renameTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}

	trip, err := h.ledger.RenameTrip(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"trip": toTripResponse(trip)})
}

func (h *Handler) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteTrip(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title          string          `json:"title"`
		Amount         decimal.Decimal `json:"amount"`
		PaidByMemberID string          `json:"paid_by_member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}

	expense, err := h.ledger.AddExpense(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "tripID"),
		req.Title,
		req.Amount,
		req.PaidByMemberID,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"expense": toExpenseResponse(expense)})
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ledger.ListExpenses(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out})
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	trip, balances, err := h.ledger.TripBalances(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]balanceResponse, len(balances))
	for i, b := range balances {
		out[i] = toBalanceResponse(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trip":     toTripResponse(trip),
		"balances": out,
	})
}

func toBalanceResponse(b calculator.MemberBalance) balanceResponse {
	return balanceResponse{
		MemberID:  b.MemberID,
		Name:      b.Name,
		TotalPaid: b.TotalPaid.StringFixed(2),
		ShouldPay: b.ShouldPay.StringFixed(2),
		Balance:   b.Net.StringFixed(2),
	}
}
