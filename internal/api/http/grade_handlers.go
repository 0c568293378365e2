package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vnexam/autograde/internal/grading"
)

// POST /grade
func GradeHandler(engine *grading.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req grading.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := engine.Grade(r.Context(), req)
		if err != nil {
			if errors.Is(err, grading.ErrPointCap) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "grade: "+err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
