package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/amterp/flagmaker/internal/editor"
	fmerr "github.com/amterp/flagmaker/internal/errors"
	"github.com/amterp/flagmaker/internal/link"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var notFound *fmerr.NotFoundError
	var validation *fmerr.ValidationError
	var index *fmerr.IndexError
	var decode *link.DecodeError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &index):
		status = http.StatusBadRequest
	case errors.As(err, &decode):
		status = http.StatusBadRequest
		message = "Shared flag link is not valid"
	case errors.Is(err, editor.ErrPickerClosed):
		status = http.StatusConflict
	}

	JSON(w, status, map[string]string{"error": message})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// attachment writes data as a file download.
func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
