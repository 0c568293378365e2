package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/vnexam/autograde/internal/audit"
	authmw "github.com/vnexam/autograde/internal/auth/middleware"
	"github.com/vnexam/autograde/internal/grading/pattern"
)

type recordCorrectionReq struct {
	CandidateText  string  `json:"student_answer"`
	ReferenceText  string  `json:"model_answer"`
	MachineScore   float64 `json:"machine_score,omitempty"`
	ConfirmedScore float64 `json:"confirmed_score"`
	PointCap       float64 `json:"max_points"`
	Feedback       string  `json:"feedback,omitempty"`
}

// POST /corrections
//
// The pattern write decides success. The audit row is best effort: a
// database outage must not lose the instructor's correction.
func RecordCorrectionHandler(store *pattern.Store, keyFn func(string) string, auditRepo *audit.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordCorrectionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.PointCap <= 0 {
			http.Error(w, "max_points must be positive", http.StatusBadRequest)
			return
		}
		ok := store.RecordCorrection(req.CandidateText, req.ReferenceText, req.ConfirmedScore, req.PointCap, req.Feedback)
		if !ok {
			http.Error(w, "correction not recorded", http.StatusUnprocessableEntity)
			return
		}
		if auditRepo != nil {
			err := auditRepo.Append(r.Context(), audit.Correction{
				Actor:          authmw.SubjectFromContext(r.Context()),
				ReferenceKey:   keyFn(req.ReferenceText),
				CandidateKey:   keyFn(req.CandidateText),
				MachineScore:   req.MachineScore,
				ConfirmedScore: req.ConfirmedScore,
				PointCap:       req.PointCap,
				Feedback:       req.Feedback,
			})
			if err != nil {
				log.Printf("audit: correction append failed: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"learned": true})
	}
}

// GET /learning/stats
func LearningStatsHandler(store *pattern.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.Stats())
	}
}

// DELETE /learning/patterns
func ClearPatternsHandler(store *pattern.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(); err != nil {
			http.Error(w, "clear patterns: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"cleared": true})
	}
}

// GET /corrections?limit=50
func ListCorrectionsHandler(auditRepo *audit.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err := auditRepo.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, "corrections: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []audit.Correction{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}
}
