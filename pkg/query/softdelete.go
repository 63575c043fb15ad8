package query

// EnableSoftDeletes turns on the soft-delete mixin for this builder; col
// defaults to "deleted_at" when empty (§4.10).
func (b Builder) EnableSoftDeletes(enabled bool, col string) Builder {
	if col == "" {
		col = "deleted_at"
	}
	return b.with(func(s *State) {
		s.SoftDelete = SoftDeleteConfig{Enabled: enabled, Column: col, Mode: s.SoftDelete.Mode}
	})
}

func (b Builder) WithTrashed() Builder {
	return b.with(func(s *State) { s.SoftDelete.Mode = "with_trashed" })
}

func (b Builder) OnlyTrashed() Builder {
	return b.with(func(s *State) { s.SoftDelete.Mode = "only_trashed" })
}

// SoftDelete rewrites this builder into an UPDATE that stamps the
// soft-delete column instead of issuing a physical DELETE.
func (b Builder) SoftDelete() (Builder, error) {
	if !b.state.SoftDelete.Enabled {
		return b, newErr(InvalidCriteria, "soft deletes are not enabled on this builder")
	}
	col := b.state.SoftDelete.Column
	raw, _ := Raw("NOW()")
	return b.Update(map[string]any{col: raw})
}

// Restore clears the soft-delete column back to NULL.
func (b Builder) Restore() (Builder, error) {
	if !b.state.SoftDelete.Enabled {
		return b, newErr(InvalidCriteria, "soft deletes are not enabled on this builder")
	}
	col := b.state.SoftDelete.Column
	return b.Update(map[string]any{col: nil})
}

// ForceDelete bypasses the soft-delete mixin entirely and issues a
// physical DELETE.
func (b Builder) ForceDelete() Builder {
	return b.with(func(s *State) {
		s.Operation = "delete"
		s.SoftDelete.Enabled = false
	})
}

// withSoftDeleteFilter is applied at Compile() time so every terminal
// SELECT/UPDATE/DELETE respects the current trashed-visibility mode,
// without the fluent methods above needing to thread a synthetic WHERE
// through every mutator.
func withSoftDeleteFilter(s State) State {
	if !s.SoftDelete.Enabled || s.Operation == "insert" {
		return s
	}
	s = s.clone()
	switch s.SoftDelete.Mode {
	case "with_trashed":
		return s
	case "only_trashed":
		s.Conditions = append(s.Conditions, Predicate{Boolean: "AND", Kind: "notnull", Column: s.SoftDelete.Column})
	default:
		s.Conditions = append(s.Conditions, Predicate{Boolean: "AND", Kind: "null", Column: s.SoftDelete.Column})
	}
	return s
}
