package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"lifequest/internal/model"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": v})
}

type failureBody struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeFailure(w http.ResponseWriter, err error) {
	var f *model.Failure
	if !errors.As(err, &f) {
		writeJSON(w, http.StatusInternalServerError, failureBody{Code: "internal", Message: "internal error"})
		return
	}
	writeJSON(w, statusFor(f.Code), failureBody{Code: string(f.Code), Message: f.Error()})
}

func statusFor(code model.Code) int {
	switch code {
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeInvalidInput:
		return http.StatusBadRequest
	case model.CodeAlreadyCompleted, model.CodeAlreadyUndone, model.CodeNotUndoable:
		return http.StatusConflict
	case model.CodeInsufficientBalance,
		model.CodeRequirementsNotMet,
		model.CodePrerequisitesNotMet,
		model.CodeProgressInsufficient:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decode reads an optional JSON body into dst. An empty body leaves dst
// untouched.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return model.Fail(model.CodeInvalidInput, "invalid json body: %v", err)
	}
	if dec.More() {
		return model.Fail(model.CodeInvalidInput, "invalid json body: trailing data")
	}
	return nil
}
