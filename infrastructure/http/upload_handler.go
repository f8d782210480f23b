package http

import (
	"fmt"
	"net/http"
	"synaptik/errors"
)

// multipartOverhead leaves room for the form boundaries around the file itself.
const multipartOverhead = 1 << 20

func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(h.log, w, uploadError(err))
		return
	}
	defer file.Close()

	media, err := h.uploads.Save(r.Context(), header.Filename, file)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, media)
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return fmt.Errorf("%w: limit is %d bytes", errors.ErrFileTooLarge, tooLarge.Limit)
	case errors.Is(err, http.ErrMissingFile):
		return errors.ErrNoFile
	default:
		return errors.Join(errors.ErrInvalidPayload, err)
	}
}
