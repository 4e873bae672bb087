package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/minicheck/internal/ir"
	"github.com/roach88/minicheck/internal/verifier"
)

// RecordVerdict appends a verdict to the log and returns it with its run ID
// and sequence number assigned. A preset RunID is kept.
func (s *Store) RecordVerdict(ctx context.Context, v Verdict) (Verdict, error) {
	if v.RunID == "" {
		v.RunID = s.runID.Generate()
	}
	path := v.Path
	if path == nil {
		path = []string{}
	}
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return v, fmt.Errorf("record verdict: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO verdicts
		(run_id, program_hash, target, ptr_size, well_formed, kind, message, path, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.RunID,
		v.ProgramHash,
		v.Target,
		int64(v.PtrSize),
		v.WellFormed,
		string(v.Kind),
		v.Message,
		string(pathJSON),
		v.Source,
	)
	if err != nil {
		return v, fmt.Errorf("record verdict: %w", err)
	}
	if v.Seq, err = res.LastInsertId(); err != nil {
		return v, fmt.Errorf("record verdict: %w", err)
	}
	return v, nil
}

// LookupVerdict returns the most recent verdict for a program hash at a
// pointer size. Verdicts only depend on the pointer size of the target, so
// a verdict recorded for one target serves every target of the same width.
func (s *Store) LookupVerdict(ctx context.Context, hash string, ptrSize ir.Size) (Verdict, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, run_id, program_hash, target, ptr_size, well_formed, kind, message, path, source
		FROM verdicts
		WHERE program_hash = ? AND ptr_size = ?
		ORDER BY seq DESC
		LIMIT 1
	`, hash, int64(ptrSize))

	v, err := scanVerdict(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Verdict{}, false, nil
	}
	if err != nil {
		return Verdict{}, false, fmt.Errorf("lookup verdict: %w", err)
	}
	return v, true, nil
}

// ListVerdicts returns every verdict recorded for a program hash in
// sequence order. An empty hash lists the whole log.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) ListVerdicts(ctx context.Context, hash string) ([]Verdict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, run_id, program_hash, target, ptr_size, well_formed, kind, message, path, source
		FROM verdicts
		WHERE ? = '' OR program_hash = ?
		ORDER BY seq ASC
	`, hash, hash)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	verdicts := []Verdict{}
	for rows.Next() {
		v, err := scanVerdict(rows)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return verdicts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVerdict(row scanner) (Verdict, error) {
	var (
		v        Verdict
		ptrSize  int64
		kind     string
		pathJSON string
	)
	err := row.Scan(&v.Seq, &v.RunID, &v.ProgramHash, &v.Target, &ptrSize,
		&v.WellFormed, &kind, &v.Message, &pathJSON, &v.Source)
	if err != nil {
		return v, err
	}
	v.PtrSize = ir.Size(ptrSize)
	v.Kind = verifier.ErrorKind(kind)
	if err := json.Unmarshal([]byte(pathJSON), &v.Path); err != nil {
		return v, fmt.Errorf("decode verdict path: %w", err)
	}
	if len(v.Path) == 0 {
		v.Path = nil
	}
	return v, nil
}
