package api

import (
	"errors"
	"net/http"

	"talentscan/internal/apperr"
	"talentscan/internal/candidate"
	"talentscan/internal/cv"
)

// UploadResponse is returned for a processed resume.
type UploadResponse struct {
	Message   string               `json:"message"`
	Candidate *candidate.Candidate `json:"candidate"`
}

// UploadResumeHandler handles resume uploads
// @Summary Upload a resume
// @Description Upload a PDF or DOCX resume. Candidate fields are extracted with the language model and stored.
// @Tags resume
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file (PDF or DOCX)"
// @Success 200 {object} api.UploadResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 413 {object} api.ErrorResponse
// @Failure 415 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse
// @Failure 502 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /resume/upload [post]
func (a *API) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	if err := r.ParseMultipartForm(a.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "file too large",
				Kind:  apperr.KindInvalidInput,
			})
			return
		}
		a.writeError(w, r, apperr.Wrap(apperr.KindInvalidInput, err, "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeError(w, r, apperr.New(apperr.KindInvalidInput, "no file uploaded"))
		return
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = cv.MediaTypeByFilename(header.Filename)
	}

	c, err := a.ingest.Upload(r.Context(), header.Filename, mediaType, file)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:   "Resume processed successfully",
		Candidate: c,
	})
}
