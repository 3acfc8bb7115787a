package mapping

// Merge combines per-chunk reports into one, summing row counts per field.
// A field's merged outcome is the most severe seen: Failed wins over
// NewlyMapped, which wins over AlreadyMapped, which wins over Skipped.
func Merge(reports ...*Report) *Report {
	merged := &Report{}
	index := make(map[string]int)
	for _, rep := range reports {
		if rep == nil {
			continue
		}
		for _, fr := range rep.Fields {
			i, ok := index[fr.Field]
			if !ok {
				index[fr.Field] = len(merged.Fields)
				merged.Fields = append(merged.Fields, fr)
				continue
			}
			m := &merged.Fields[i]
			m.RowsMapped += fr.RowsMapped
			m.ErrorRows += fr.ErrorRows
			if severity(fr.Outcome) > severity(m.Outcome) {
				m.Outcome = fr.Outcome
				m.Reason = fr.Reason
			}
			for _, v := range fr.Residual {
				if len(m.Residual) >= maxResidualSample {
					break
				}
				if !contains(m.Residual, v) {
					m.Residual = append(m.Residual, v)
				}
			}
		}
	}
	return merged
}

func severity(o Outcome) int {
	switch o {
	case Failed:
		return 3
	case NewlyMapped:
		return 2
	case AlreadyMapped:
		return 1
	default:
		return 0
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
