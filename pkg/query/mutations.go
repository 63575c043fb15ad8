package query

func validateValues(values map[string]any) error {
	for col := range values {
		if err := ValidateIdentifier(col); err != nil {
			return err
		}
	}
	return nil
}

func (b Builder) Insert(values map[string]any) (Builder, error) {
	if err := validateValues(values); err != nil {
		return b, err
	}
	return b.with(func(s *State) {
		s.Operation = "insert"
		s.Values = values
	}), nil
}

func (b Builder) Update(values map[string]any) (Builder, error) {
	if err := validateValues(values); err != nil {
		return b, err
	}
	return b.with(func(s *State) {
		s.Operation = "update"
		s.Values = values
	}), nil
}

func (b Builder) Delete() Builder {
	return b.with(func(s *State) { s.Operation = "delete" })
}

// Upsert prepares a dialect-aware INSERT ... ON CONFLICT/ON DUPLICATE KEY
// UPDATE; the dialect branch itself lives in the Grammar implementations
// (§4.10).
func (b Builder) Upsert(values map[string]any, updateCols []string) (Builder, error) {
	if err := validateValues(values); err != nil {
		return b, err
	}
	for _, c := range updateCols {
		if err := ValidateIdentifier(c); err != nil {
			return b, err
		}
	}
	return b.with(func(s *State) {
		s.Operation = "upsert"
		s.Values = values
		s.Groups = append([]string{}, updateCols...) // reuse Groups as the update-column carrier for upsert
	}), nil
}
