package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentscan/internal/candidate"
)

// CandidatesResponse wraps a list of candidates.
type CandidatesResponse struct {
	Candidates []candidate.Candidate `json:"candidates"`
}

// ListCandidatesHandler returns every stored candidate
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Success 200 {object} api.CandidatesResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /candidates [get]
func (a *API) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	cs, err := a.store.GetAllCandidates(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CandidatesResponse{Candidates: nonNil(cs)})
}

// SearchCandidatesHandler filters candidates by skill or work summary
// @Summary Search candidates
// @Description Case-insensitive containment match against skills and the work-experience summary.
// @Tags candidates
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} api.CandidatesResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /candidates/search [get]
func (a *API) SearchCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	cs, err := a.store.SearchCandidates(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CandidatesResponse{Candidates: nonNil(cs)})
}

// GetCandidateHandler returns one candidate
// @Summary Get candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} candidate.Candidate
// @Failure 404 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	c, err := a.store.GetCandidate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ExportCandidatesHandler downloads all candidates as a spreadsheet
// @Summary Export candidates
// @Tags candidates
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 503 {object} api.ErrorResponse
// @Router /candidates/export [get]
func (a *API) ExportCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	data, err := a.export.CandidatesXLSX(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	filename := "candidates-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func nonNil(cs []candidate.Candidate) []candidate.Candidate {
	if cs == nil {
		return []candidate.Candidate{}
	}
	return cs
}
