// Package audit records instructor corrections in the database so score
// overrides stay traceable after the pattern file has absorbed them.
package audit

import (
	"context"
	"database/sql"
	"time"
)

type Correction struct {
	ID             int64   `json:"id"`
	Actor          string  `json:"actor"`
	ReferenceKey   string  `json:"reference_key"`
	CandidateKey   string  `json:"candidate_key"`
	MachineScore   float64 `json:"machine_score"`
	ConfirmedScore float64 `json:"confirmed_score"`
	PointCap       float64 `json:"max_points"`
	Feedback       string  `json:"feedback"`
	CreatedAt      int64   `json:"created_at"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, c Correction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO correction_log (actor, reference_key, candidate_key, machine_score, confirmed_score, max_points, feedback, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.Actor, c.ReferenceKey, c.CandidateKey, c.MachineScore, c.ConfirmedScore, c.PointCap, c.Feedback, time.Now().Unix())
	return err
}

// Recent returns the newest corrections, most recent first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Correction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor, reference_key, candidate_key, machine_score, confirmed_score, max_points, feedback, created_at
		 FROM correction_log ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Correction
	for rows.Next() {
		var c Correction
		if err := rows.Scan(&c.ID, &c.Actor, &c.ReferenceKey, &c.CandidateKey,
			&c.MachineScore, &c.ConfirmedScore, &c.PointCap, &c.Feedback, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
