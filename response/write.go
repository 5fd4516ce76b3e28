package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// WriteError writes e as the JSON response body with its status code
func WriteError(w http.ResponseWriter, r *http.Request, e *Error) {
	writeJSON(w, r, e.StatusCode, e)
}

// WriteResponse writes result as a 200 JSON response
func WriteResponse(w http.ResponseWriter, r *http.Request, result interface{}) {
	writeJSON(w, r, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		Logger(r.Context(), nil).Error("Cannot write response",
			zap.Error(err),
		)
	}
}
