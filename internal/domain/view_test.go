package domain

import (
	"testing"
	"time"
)

func rec(id string, status Status) ApplicationRecord {
	return ApplicationRecord{ID: id, UserID: "u1", Status: status, Snippet: "s"}
}

func TestBuildView_Empty(t *testing.T) {
	v := BuildView(nil)
	if v.Total != 0 {
		t.Fatalf("Total = %d, want 0", v.Total)
	}
	if len(v.Records) != 0 {
		t.Fatalf("Records = %v, want empty", v.Records)
	}
	if len(v.CountsByStatus) != 0 {
		t.Fatalf("CountsByStatus = %v, want empty", v.CountsByStatus)
	}
	if v.Records == nil {
		t.Fatalf("Records should be non-nil so it serializes as []")
	}
}

func TestBuildView_CountsAndTotal(t *testing.T) {
	snapshot := []ApplicationRecord{
		rec("1", StatusShortlisted),
		rec("2", StatusShortlisted),
		rec("3", StatusRejected),
		rec("4", "Ghosted"), // untracked but valid
	}
	v := BuildView(snapshot)

	if v.Total != 4 {
		t.Fatalf("Total = %d, want 4", v.Total)
	}
	if got := v.CountsByStatus[StatusShortlisted]; got != 2 {
		t.Errorf("Shortlisted = %d, want 2", got)
	}
	if got := v.CountsByStatus[StatusRejected]; got != 1 {
		t.Errorf("Rejected = %d, want 1", got)
	}
	sum := 0
	for _, n := range v.CountsByStatus {
		sum += n
	}
	if sum > v.Total {
		t.Errorf("sum(counts) = %d exceeds total %d", sum, v.Total)
	}
}

func TestBuildView_MalformedRecordExcludedNotFatal(t *testing.T) {
	snapshot := []ApplicationRecord{
		rec("1", StatusShortlisted),
		{ID: "2", UserID: "u1"}, // missing status
		rec("3", StatusRejected),
	}
	v := BuildView(snapshot)

	if v.Total != 2 {
		t.Fatalf("Total = %d, want 2 (malformed excluded)", v.Total)
	}
	if v.Malformed != 1 {
		t.Fatalf("Malformed = %d, want 1", v.Malformed)
	}
	for _, r := range v.Records {
		if r.ID == "2" {
			t.Fatalf("malformed record leaked into Records")
		}
	}
	if v.CountsByStatus[StatusShortlisted] != 1 || v.CountsByStatus[StatusRejected] != 1 {
		t.Fatalf("valid records in the same snapshot were not aggregated: %v", v.CountsByStatus)
	}
}

func TestBuildView_MissingOptionalFieldsAccepted(t *testing.T) {
	// No company, no timestamp: the record is still counted.
	snapshot := []ApplicationRecord{
		{ID: "1", UserID: "u1", Status: StatusApplied},
	}
	v := BuildView(snapshot)
	if v.Total != 1 || v.CountsByStatus[StatusApplied] != 1 {
		t.Fatalf("record with missing optional fields was rejected: %+v", v)
	}
}

func TestDerivedView_CloneIsIndependent(t *testing.T) {
	now := time.Now()
	v := BuildView([]ApplicationRecord{
		{ID: "1", UserID: "u1", Status: StatusOffer, ReceivedAt: &now},
	})
	c := v.Clone()
	c.Records[0].ID = "mutated"
	c.CountsByStatus[StatusOffer] = 99

	if v.Records[0].ID != "1" {
		t.Fatalf("clone shares Records backing array")
	}
	if v.CountsByStatus[StatusOffer] != 1 {
		t.Fatalf("clone shares CountsByStatus map")
	}
}
