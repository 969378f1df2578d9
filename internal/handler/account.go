package handler

import (
	"net/http"

	"github.com/dripsave/savings-service/internal/models"
)

type accountResponse struct {
	Username              string `json:"username"`
	SavingsCents          int64  `json:"savings_cents"`
	Active                bool   `json:"active"`
	ScheduledDepositCents int64  `json:"scheduled_deposit_cents"`
	ScheduledFrequency    string `json:"scheduled_frequency,omitempty"`
	Linked                bool   `json:"linked"`
}

func newAccountResponse(acct *models.Account) accountResponse {
	return accountResponse{
		Username:              acct.Username,
		SavingsCents:          acct.SavingsCents,
		Active:                acct.Active,
		ScheduledDepositCents: acct.ScheduledDepositCents,
		ScheduledFrequency:    acct.ScheduledFrequency,
		Linked:                acct.Linked(),
	}
}

// AccountInfo returns the authenticated user's account representation.
func (h *Handler) AccountInfo(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	acct, err := h.svc.GetAccount(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(acct))
}

// Balance returns the account's savings balance.
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	acct, err := h.svc.GetAccount(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"savings_cents": acct.SavingsCents})
}

// IsActive reports whether the account is currently saving on schedule.
func (h *Handler) IsActive(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	acct, err := h.svc.GetAccount(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": acct.Active})
}

type depositRequest struct {
	Deposit *int64 `json:"deposit"`
}

// Deposit adds to the account's savings.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	var req depositRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Deposit == nil || *req.Deposit < 0 {
		writeFieldErrors(w, map[string]string{"deposit": "A non-negative amount is required"})
		return
	}

	if _, err := h.svc.Deposit(r.Context(), username, *req.Deposit); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

type withdrawRequest struct {
	Withdrawal *int64 `json:"withdrawal"`
}

// Withdraw removes from the account's savings. Withdrawing more than the
// balance fails without mutation.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	var req withdrawRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Withdrawal == nil || *req.Withdrawal < 0 {
		writeFieldErrors(w, map[string]string{"withdrawal": "A non-negative amount is required"})
		return
	}

	if _, err := h.svc.Withdraw(r.Context(), username, *req.Withdrawal); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

type scheduleRequest struct {
	Amount    *int64 `json:"amount"`
	Frequency string `json:"frequency"`
}

// Schedule sets the amount of money to save at a set frequency. The schedule
// is stored only; nothing executes it.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.Amount == nil || *req.Amount < 0 {
		fields["amount"] = "A non-negative amount is required"
	}
	if !models.ValidFrequency(req.Frequency) {
		fields["frequency"] = "Must be one of: daily, weekly, biweekly, monthly"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	if err := h.svc.SetSchedule(r.Context(), username, *req.Amount, req.Frequency); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

// Restart sets the active status of the account to true. Fails if the
// account is already active.
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	if err := h.svc.Restart(r.Context(), username); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

// Pause sets the active status of the account to false. Fails if the
// account is already paused.
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	if err := h.svc.Pause(r.Context(), username); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}
