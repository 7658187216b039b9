package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// Snapshot identifies one saved program state.
type Snapshot struct {
	// Token is a UUIDv7: unique per save, lexically ordered by time.
	Token string `json:"token"`
	// ProgramHash is the content hash over every row of the program in
	// storage order. Two saves of the same program share it even though
	// their tokens differ.
	ProgramHash string `json:"program_hash"`
}

// SaveProgram replaces the stored program with the given one and records
// a snapshot. The write is transactional: a failed save leaves the
// previous program intact.
func (s *Store) SaveProgram(ctx context.Context, program *decl.Program) (Snapshot, error) {
	token, err := uuid.NewV7()
	if err != nil {
		return Snapshot{}, fmt.Errorf("generate snapshot token: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"traits", "structs", "assoc_types", "impls", "snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return Snapshot{}, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	// Row bytes accumulate in storage order (traits, structs, assoc
	// types sorted by id; impls by position) to form the program hash.
	var parts [][]byte

	for _, d := range program.Traits() {
		data, err := encodeTrait(d)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode trait %q: %w", d.ID(), err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO traits (id, data, content_hash) VALUES (?, ?, ?)",
			string(d.ID()), string(data), contentHash(data)); err != nil {
			return Snapshot{}, fmt.Errorf("insert trait %q: %w", d.ID(), err)
		}
		parts = append(parts, data)
	}

	for _, d := range program.Structs() {
		data, err := encodeStruct(d)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode struct %q: %w", d.ID(), err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO structs (id, data, content_hash) VALUES (?, ?, ?)",
			string(d.ID()), string(data), contentHash(data)); err != nil {
			return Snapshot{}, fmt.Errorf("insert struct %q: %w", d.ID(), err)
		}
		parts = append(parts, data)
	}

	for _, d := range program.AssociatedTys() {
		data, err := encodeAssocTy(d)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode associated type %q: %w", d.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO assoc_types (id, data, content_hash) VALUES (?, ?, ?)",
			string(d.ID), string(data), contentHash(data)); err != nil {
			return Snapshot{}, fmt.Errorf("insert associated type %q: %w", d.ID, err)
		}
		parts = append(parts, data)
	}

	for position, d := range program.Impls() {
		data, err := encodeImpl(d)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode impl %d: %w", position, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO impls (position, trait_id, data, content_hash) VALUES (?, ?, ?, ?)",
			position, string(d.TraitID()), string(data), contentHash(data)); err != nil {
			return Snapshot{}, fmt.Errorf("insert impl %d: %w", position, err)
		}
		parts = append(parts, data)
	}

	snapshot := Snapshot{
		Token:       token.String(),
		ProgramHash: ir.ProgramHash(parts...),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (token, program_hash) VALUES (?, ?)",
		snapshot.Token, snapshot.ProgramHash); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit save: %w", err)
	}
	return snapshot, nil
}
