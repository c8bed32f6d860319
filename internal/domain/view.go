package domain

// DerivedView is the read-only aggregate computed from the most recent
// full snapshot of a user's records. It is recomputed wholesale on every
// notification, never patched incrementally.
//
// Invariants:
//   - Total == len(Records)
//   - sum(CountsByStatus) <= Total (only tracked statuses are counted)
//   - Malformed records (empty status) appear in neither Records nor the
//     counters; they are surfaced through the Malformed count instead.
type DerivedView struct {
	Records        []ApplicationRecord `json:"records"`
	CountsByStatus map[Status]int      `json:"counts_by_status"`
	Total          int                 `json:"total"`
	Malformed      int                 `json:"malformed,omitempty"`
}

// BuildView classifies a full snapshot into a DerivedView in a single pass.
// Records missing optional fields (company, timestamp) are kept as-is; a
// record missing its status is dropped from the list and counters and
// reflected in Malformed, so one bad record never fails the batch.
func BuildView(snapshot []ApplicationRecord) DerivedView {
	v := DerivedView{
		Records:        make([]ApplicationRecord, 0, len(snapshot)),
		CountsByStatus: map[Status]int{},
	}
	for _, rec := range snapshot {
		if rec.Status == "" {
			v.Malformed++
			continue
		}
		v.Records = append(v.Records, rec)
		if rec.Status.Tracked() {
			v.CountsByStatus[rec.Status]++
		}
	}
	v.Total = len(v.Records)
	return v
}

// Clone returns a deep copy safe to hand to readers while the owner keeps
// mutating its own view.
func (v DerivedView) Clone() DerivedView {
	out := v
	out.Records = append([]ApplicationRecord(nil), v.Records...)
	out.CountsByStatus = make(map[Status]int, len(v.CountsByStatus))
	for k, n := range v.CountsByStatus {
		out.CountsByStatus[k] = n
	}
	return out
}
