// Package pattern persists instructor-confirmed grading decisions and
// answers future lookups from them before the scoring pipeline runs.
package pattern

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vnexam/autograde/internal/grading"
)

// Entry is one learned correction as stored on disk. Field names match the
// historical file format so existing data files keep loading.
type Entry struct {
	CandidateText  string  `json:"student_answer"`
	ReferenceText  string  `json:"model_answer"`
	ConfirmedScore float64 `json:"confirmed_score"`
	PointCap       float64 `json:"max_points"`
	ScoreRatio     float64 `json:"score_ratio"`
	Feedback       string  `json:"feedback"`
	LearnedAt      string  `json:"learned_at"`
}

// Stats summarises the learned memory.
type Stats struct {
	Total       int            `json:"total"`
	ByReference map[string]int `json:"by_question"`
}

// Store is the pattern memory: a JSON array file plus an in-memory index
// keyed by the normalized reference answer. The file is the source of
// truth; the index changes only after a durable write succeeds.
type Store struct {
	path  string
	keyFn func(string) string

	mu      sync.RWMutex
	entries []Entry
	index   map[string][]int
}

// NewStore creates a store over path. keyFn folds answers into index keys;
// it must match the engine's normalization so lookups and learning agree.
func NewStore(path string, keyFn func(string) string) *Store {
	return &Store{path: path, keyFn: keyFn, index: map[string][]int{}}
}

// Load reads the pattern file. A missing file is an empty store. An
// unparsable file is treated as empty and left on disk untouched, so a
// later correction does not destroy evidence of the corruption.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.entries = nil
		s.rebuildIndex()
		return nil
	}
	if err != nil {
		return fmt.Errorf("pattern: read %s: %w", s.path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("pattern: %s is not a valid pattern file, starting empty: %v", s.path, err)
		s.entries = nil
		s.rebuildIndex()
		return nil
	}
	s.entries = entries
	s.rebuildIndex()
	return nil
}

// rebuildIndex assumes the write lock is held.
func (s *Store) rebuildIndex() {
	s.index = make(map[string][]int, len(s.entries))
	for i, e := range s.entries {
		key := s.keyFn(e.ReferenceText)
		if key == "" {
			continue
		}
		s.index[key] = append(s.index[key], i)
	}
}

// Lookup finds a learned verdict for the candidate/reference pair. The
// reference resolves through the index first, then through a fuzzy scan
// (similarity > 0.90). Within the bucket an exact normalized candidate
// match wins with confidence 1.0; otherwise a near match (> 0.95) returns
// the similarity as confidence. Stored scores rescale to the caller's cap.
func (s *Store) Lookup(candidateText, referenceText string, pointCap float64) (grading.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.index[s.keyFn(referenceText)]
	if len(bucket) == 0 {
		refLower := strings.ToLower(strings.TrimSpace(referenceText))
		for _, idxs := range s.index {
			if len(idxs) == 0 {
				continue
			}
			stored := strings.ToLower(s.entries[idxs[0]].ReferenceText)
			if grading.Similarity(refLower, stored) > 0.90 {
				bucket = append(bucket, idxs...)
			}
		}
	}
	if len(bucket) == 0 {
		return grading.Result{}, false
	}

	candKey := s.keyFn(candidateText)
	for _, i := range bucket {
		e := s.entries[i]
		storedKey := s.keyFn(e.CandidateText)

		scale := 1.0
		if e.PointCap > 0 {
			scale = pointCap / e.PointCap
		}

		if candKey == storedKey {
			return learnedResult(e, scale, 1.0), true
		}
		if ratio := grading.Similarity(candKey, storedKey); ratio > 0.95 {
			return learnedResult(e, scale, ratio), true
		}
	}
	return grading.Result{}, false
}

func learnedResult(e Entry, scale, confidence float64) grading.Result {
	feedback := e.Feedback
	if feedback == "" {
		feedback = "Matched dataset pattern"
	}
	return grading.Result{
		Score:          round2(e.ConfirmedScore * scale),
		Confidence:     round2(confidence),
		Explanation:    feedback + " (From Dataset)",
		Category:       grading.CategoryLearnedPattern,
		FactMultiplier: 1.0,
	}
}

// RecordCorrection learns an instructor's verdict. The same normalized
// pair overwrites its previous entry instead of growing the file. The
// write is durable before the in-memory index updates, via a temp file
// and rename; any failure reports false and leaves memory unchanged.
func (s *Store) RecordCorrection(candidateText, referenceText string, confirmedScore, pointCap float64, feedback string) bool {
	if strings.TrimSpace(candidateText) == "" || strings.TrimSpace(referenceText) == "" {
		return false
	}
	if pointCap <= 0 {
		return false
	}
	ratio := confirmedScore / pointCap
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	if feedback == "" {
		feedback = fmt.Sprintf("Teacher confirmed: %g/%g", confirmedScore, pointCap)
	}
	entry := Entry{
		CandidateText:  strings.TrimSpace(candidateText),
		ReferenceText:  strings.TrimSpace(referenceText),
		ConfirmedScore: confirmedScore,
		PointCap:       pointCap,
		ScoreRatio:     ratio,
		Feedback:       feedback,
		LearnedAt:      time.Now().Format(time.RFC3339),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candKey := s.keyFn(entry.CandidateText)
	refKey := s.keyFn(entry.ReferenceText)

	next := make([]Entry, len(s.entries))
	copy(next, s.entries)
	replaced := false
	for i, e := range next {
		if s.keyFn(e.CandidateText) == candKey && s.keyFn(e.ReferenceText) == refKey {
			next[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, entry)
	}

	if err := s.writeFile(next); err != nil {
		log.Printf("pattern: saving correction failed: %v", err)
		return false
	}

	s.entries = next
	s.rebuildIndex()
	return true
}

// writeFile replaces the pattern file atomically: marshal to a temp file
// in the same directory, then rename over the target.
func (s *Store) writeFile(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Clear deletes all learned patterns, on disk and in memory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pattern: clear %s: %w", s.path, err)
	}
	s.entries = nil
	s.rebuildIndex()
	return nil
}

// Stats counts learned patterns per reference answer, keyed by the first
// 50 runes of the reference.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{ByReference: map[string]int{}}
	for _, e := range s.entries {
		short := e.ReferenceText
		if runes := []rune(short); len(runes) > 50 {
			short = string(runes[:50])
		}
		st.ByReference[short]++
		st.Total++
	}
	return st
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
