package handler

import (
	"net/http"

	"github.com/dripsave/savings-service/internal/integrations/aggregator"
)

type linkRequest struct {
	BankUsername string `json:"bank_username"`
	BankPassword string `json:"bank_password"`
	Institution  string `json:"institution"`
}

func (req *linkRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.BankUsername == "" {
		fields["bank_username"] = "This field is required"
	}
	if req.BankPassword == "" {
		fields["bank_password"] = "This field is required"
	}
	if req.Institution == "" {
		fields["institution"] = "This field is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Link performs phase 1 of the bank-link handshake: it authenticates the
// supplied institution credentials against the aggregator and returns the
// discovered accounts plus a public exchange token. Nothing is persisted;
// the caller picks an account and completes the link via Confirm.
func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.username(w, r); !ok {
		return
	}
	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	result, err := h.svc.LinkBank(r.Context(), aggregator.Credentials{
		Username:    req.BankUsername,
		Password:    req.BankPassword,
		Institution: req.Institution,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type confirmRequest struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
}

func (req *confirmRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Token == "" {
		fields["token"] = "This field is required"
	}
	if req.AccountID == "" {
		fields["account_id"] = "This field is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Confirm performs phase 2 of the bank-link handshake: it exchanges the
// public token for a durable bank token and persists it on the account.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}
	var req confirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	if err := h.svc.ConfirmLink(r.Context(), username, req.Token, req.AccountID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}
