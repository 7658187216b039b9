package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// ErrNoSnapshot is returned by LoadProgram and LatestSnapshot when the
// database holds no saved program.
var ErrNoSnapshot = errors.New("store: no program snapshot")

// LatestSnapshot returns the most recent snapshot.
func (s *Store) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot
	err := s.db.QueryRowContext(ctx,
		"SELECT token, program_hash FROM snapshots ORDER BY token DESC LIMIT 1",
	).Scan(&snapshot.Token, &snapshot.ProgramHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	return snapshot, nil
}

// LoadProgram materializes the stored program. Every row's content hash
// is verified, and the rows together must reproduce the snapshot's
// program hash; any mismatch fails the load rather than returning a
// silently wrong program.
func (s *Store) LoadProgram(ctx context.Context) (*decl.Program, Snapshot, error) {
	snapshot, err := s.LatestSnapshot(ctx)
	if err != nil {
		return nil, Snapshot{}, err
	}

	program := decl.NewProgram()
	var parts [][]byte

	traitRows, err := s.readRows(ctx, "SELECT data, content_hash FROM traits ORDER BY id")
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("read traits: %w", err)
	}
	for _, data := range traitRows {
		d, err := decodeTrait(data)
		if err != nil {
			return nil, Snapshot{}, err
		}
		if err := program.AddTrait(d); err != nil {
			return nil, Snapshot{}, fmt.Errorf("load trait: %w", err)
		}
		parts = append(parts, data)
	}

	structRows, err := s.readRows(ctx, "SELECT data, content_hash FROM structs ORDER BY id")
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("read structs: %w", err)
	}
	for _, data := range structRows {
		d, err := decodeStruct(data)
		if err != nil {
			return nil, Snapshot{}, err
		}
		if err := program.AddStruct(d); err != nil {
			return nil, Snapshot{}, fmt.Errorf("load struct: %w", err)
		}
		parts = append(parts, data)
	}

	assocRows, err := s.readRows(ctx, "SELECT data, content_hash FROM assoc_types ORDER BY id")
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("read associated types: %w", err)
	}
	for _, data := range assocRows {
		d, err := decodeAssocTy(data)
		if err != nil {
			return nil, Snapshot{}, err
		}
		if err := program.AddAssociatedTy(d); err != nil {
			return nil, Snapshot{}, fmt.Errorf("load associated type: %w", err)
		}
		parts = append(parts, data)
	}

	implRows, err := s.readRows(ctx, "SELECT data, content_hash FROM impls ORDER BY position")
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("read impls: %w", err)
	}
	for _, data := range implRows {
		d, err := decodeImpl(data)
		if err != nil {
			return nil, Snapshot{}, err
		}
		program.AddImpl(d)
		parts = append(parts, data)
	}

	if got := ir.ProgramHash(parts...); got != snapshot.ProgramHash {
		return nil, Snapshot{}, fmt.Errorf("store: program hash mismatch: snapshot %s, rows %s", snapshot.ProgramHash, got)
	}

	return program, snapshot, nil
}

// readRows fetches (data, content_hash) rows and verifies each row's
// hash before returning the data.
func (s *Store) readRows(ctx context.Context, query string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data, hash string
		if err := rows.Scan(&data, &hash); err != nil {
			return nil, err
		}
		if got := contentHash([]byte(data)); got != hash {
			return nil, fmt.Errorf("row content hash mismatch: stored %s, computed %s", hash, got)
		}
		out = append(out, []byte(data))
	}
	return out, rows.Err()
}
