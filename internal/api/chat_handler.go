package api

import (
	"encoding/json"
	"net/http"

	"talentscan/internal/apperr"
	"talentscan/internal/chat"
)

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Response string `json:"response"`
}

// RankRequest names the role to rank candidates for.
type RankRequest struct {
	Role string `json:"role"`
}

// ChatHandler answers a question about the stored candidates
// @Summary Ask about candidates
// @Description Answers a free-text question over all candidates. When role is set the candidates are ranked for it instead.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body chat.Request true "Question and optional role"
// @Success 200 {object} api.ChatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 502 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /chat [post]
func (a *API) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, apperr.Wrap(apperr.KindInvalidInput, err, "invalid JSON"))
		return
	}

	answer, err := a.chat.Ask(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: answer})
}

// RankHandler ranks every candidate for a role
// @Summary Rank candidates
// @Tags chat
// @Accept json
// @Produce json
// @Param request body api.RankRequest true "Role to rank for"
// @Success 200 {object} api.ChatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 502 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /rank [post]
func (a *API) RankHandler(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, apperr.Wrap(apperr.KindInvalidInput, err, "invalid JSON"))
		return
	}

	answer, err := a.chat.Rank(r.Context(), req.Role)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: answer})
}
