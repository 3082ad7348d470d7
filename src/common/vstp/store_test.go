package vstp

import (
	"testing"
	"time"

	"github.com/railwatch/vstp-engine/src/common/types"
)

// testStore pins the store's clock so validity gating is deterministic.
func testStore(t *testing.T, today string) *Store {
	t.Helper()
	s := NewStore()
	day, err := time.Parse("2006-01-02", today)
	if err != nil {
		t.Fatalf("bad test date %q: %v", today, err)
	}
	s.now = func() time.Time { return day }
	return s
}

func scheduleMsg(uid, transactionType string, locations ...types.ScheduleLocation) *types.VSTPMessage {
	return &types.VSTPMessage{
		JsonScheduleV1: &types.Schedule{
			TrainUID:         uid,
			TransactionType:  transactionType,
			ScheduleLocation: locations,
		},
	}
}

func loc(tiploc, arrival, departure, identity string) types.ScheduleLocation {
	return types.ScheduleLocation{
		TiplocCode:    tiploc,
		Arrival:       arrival,
		Departure:     departure,
		TrainIdentity: identity,
	}
}

// checkIndexConsistency asserts the joint invariant over both indexes: every
// secondary entry points at a stored schedule that carries that headcode, no
// secondary list is empty, and every stored schedule's headcodes are indexed.
func checkIndexConsistency(t *testing.T, s *Store) {
	t.Helper()

	for headcode, schedules := range s.byHeadcode {
		if len(schedules) == 0 {
			t.Errorf("headcode %q has an empty index entry", headcode)
		}
		for _, schedule := range schedules {
			stored, ok := s.byUID[schedule.TrainUID]
			if !ok {
				t.Errorf("headcode %q lists uid %q not present in primary index", headcode, schedule.TrainUID)
				continue
			}
			if stored != schedule {
				t.Errorf("headcode %q lists a stale copy of uid %q", headcode, schedule.TrainUID)
			}
			found := false
			for _, hc := range schedule.Headcodes() {
				if hc == headcode {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("headcode %q lists uid %q whose locations do not carry it", headcode, schedule.TrainUID)
			}
		}
	}

	for uid, schedule := range s.byUID {
		for _, headcode := range schedule.Headcodes() {
			indexed := false
			for _, candidate := range s.byHeadcode[headcode] {
				if candidate.TrainUID == uid {
					indexed = true
					break
				}
			}
			if !indexed {
				t.Errorf("uid %q carries headcode %q but is not indexed under it", uid, headcode)
			}
		}
	}
}

func TestIngestAndLookup(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(scheduleMsg("C12345", "Create",
		loc("EUSTON", "", "0915", "1F42"),
		loc("MKNSCEN", "0945", "0946", "1F42"),
		loc("BHAMNWS", "1030", "", "1F42"),
	))

	if got := s.LookupByUID("C12345"); got == nil {
		t.Fatal("expected schedule for uid C12345")
	}
	if got := s.LookupByHeadcode("1F42"); got == nil || got.TrainUID != "C12345" {
		t.Fatalf("expected schedule C12345 for headcode 1F42, got %+v", got)
	}
	if got := s.LookupByUID("X99999"); got != nil {
		t.Errorf("expected nil for unknown uid, got %+v", got)
	}
	if got := s.LookupByHeadcode("9X99"); got != nil {
		t.Errorf("expected nil for unknown headcode, got %+v", got)
	}

	checkIndexConsistency(t, s)
}

func TestIngestIdempotent(t *testing.T) {
	s := testStore(t, "2025-06-15")

	msg := scheduleMsg("C12345", "Create", loc("EUSTON", "", "0915", "1F42"))
	s.Ingest(msg)
	s.Ingest(msg)

	stats := s.Statistics()
	if stats.TotalSchedules != 1 {
		t.Errorf("expected 1 schedule after duplicate ingest, got %d", stats.TotalSchedules)
	}
	if got := len(s.LookupAllByHeadcode("1F42")); got != 1 {
		t.Errorf("expected 1 entry under headcode 1F42, got %d", got)
	}
	if stats.TotalMessages != 2 {
		t.Errorf("expected lifetime message count 2, got %d", stats.TotalMessages)
	}

	checkIndexConsistency(t, s)
}

func TestUpdateReplacesHeadcodeEntries(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(scheduleMsg("C12345", "Create", loc("EUSTON", "", "0915", "1A01")))
	s.Ingest(scheduleMsg("C12345", "Update", loc("EUSTON", "", "1015", "1B02")))

	if got := s.LookupByHeadcode("1A01"); got != nil {
		t.Errorf("expected old headcode 1A01 to be unindexed, got %+v", got)
	}
	got := s.LookupByHeadcode("1B02")
	if got == nil || got.TrainUID != "C12345" {
		t.Fatalf("expected C12345 under new headcode 1B02, got %+v", got)
	}
	if got.ScheduleLocation[0].Departure != "1015" {
		t.Errorf("expected replacement schedule, got departure %q", got.ScheduleLocation[0].Departure)
	}

	checkIndexConsistency(t, s)
}

func TestDeleteRemovesFromBothIndexes(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(scheduleMsg("C12345", "Create",
		loc("EUSTON", "", "0915", "1F42"),
		loc("CREWE", "1040", "1042", "2F90"),
	))
	s.Ingest(scheduleMsg("C67890", "Create", loc("EUSTON", "", "0920", "1F42")))

	s.Ingest(scheduleMsg("C12345", "Delete"))

	if got := s.LookupByUID("C12345"); got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
	if got := s.LookupByHeadcode("2F90"); got != nil {
		t.Errorf("expected headcode 2F90 to be fully removed, got %+v", got)
	}
	got := s.LookupByHeadcode("1F42")
	if got == nil || got.TrainUID != "C67890" {
		t.Fatalf("expected C67890 to remain under 1F42, got %+v", got)
	}

	// Deleting an unknown uid is a no-op.
	s.Ingest(scheduleMsg("NOPE", "Delete"))

	checkIndexConsistency(t, s)
}

func TestSharedHeadcodeOrdering(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(scheduleMsg("C11111", "Create", loc("EUSTON", "", "0915", "1F42")))
	s.Ingest(scheduleMsg("C22222", "Create", loc("EUSTON", "", "1915", "1F42")))

	first := s.LookupByHeadcode("1F42")
	if first == nil || first.TrainUID != "C11111" {
		t.Fatalf("expected first-inserted schedule C11111, got %+v", first)
	}

	all := s.LookupAllByHeadcode("1F42")
	if len(all) != 2 {
		t.Fatalf("expected 2 schedules for 1F42, got %d", len(all))
	}
	if all[0].TrainUID != "C11111" || all[1].TrainUID != "C22222" {
		t.Errorf("expected insertion order [C11111 C22222], got [%s %s]", all[0].TrainUID, all[1].TrainUID)
	}
}

func TestMultipleHeadcodesOneSchedule(t *testing.T) {
	s := testStore(t, "2025-06-15")

	// The identity can change partway through a journey; both headcodes
	// must resolve to the same schedule.
	s.Ingest(scheduleMsg("C12345", "Create",
		loc("EUSTON", "", "0915", "1F42"),
		loc("CREWE", "1040", "1042", "2F90"),
	))

	a := s.LookupByHeadcode("1F42")
	b := s.LookupByHeadcode("2F90")
	if a == nil || b == nil {
		t.Fatal("expected both headcodes to resolve")
	}
	if a != b {
		t.Error("expected both headcodes to resolve to the same schedule")
	}

	checkIndexConsistency(t, s)
}

func TestValidityGating(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		end    string
		stored bool
	}{
		{"window contains today", "2025-06-01", "2025-06-30", true},
		{"window starts today", "2025-06-15", "2025-06-30", true},
		{"window ends today", "2025-06-01", "2025-06-15", true},
		{"window in the future", "2025-07-01", "2025-07-31", false},
		{"window in the past", "2025-05-01", "2025-05-31", false},
		{"no dates", "", "", true},
		{"start only", "2025-06-01", "", true},
		{"malformed start date", "not-a-date", "2025-06-30", true},
		{"malformed end date", "2025-06-01", "garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t, "2025-06-15")
			s.Ingest(&types.VSTPMessage{
				JsonScheduleV1: &types.Schedule{
					TrainUID:          "C12345",
					TransactionType:   "Create",
					ScheduleStartDate: tt.start,
					ScheduleEndDate:   tt.end,
					ScheduleLocation:  []types.ScheduleLocation{loc("EUSTON", "", "0915", "1F42")},
				},
			})

			stored := s.LookupByUID("C12345") != nil
			if stored != tt.stored {
				t.Errorf("stored = %v, want %v", stored, tt.stored)
			}
			if !tt.stored {
				if got := s.LookupByHeadcode("1F42"); got != nil {
					t.Errorf("held-back schedule must not be indexed by headcode, got %+v", got)
				}
			}
		})
	}
}

func TestMalformedMessagesAreNoOps(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(nil)
	s.Ingest(&types.VSTPMessage{})
	s.Ingest(scheduleMsg("", "Create", loc("EUSTON", "", "0915", "1F42")))
	s.Ingest(scheduleMsg("C12345", "Cancel", loc("EUSTON", "", "0915", "1F42")))

	stats := s.Statistics()
	if stats.TotalSchedules != 0 {
		t.Errorf("expected no schedules stored, got %d", stats.TotalSchedules)
	}
	if stats.TotalMessages != 4 {
		t.Errorf("expected all 4 messages counted, got %d", stats.TotalMessages)
	}
}

func TestDefaultTransactionTypeIsCreate(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(scheduleMsg("C12345", "", loc("EUSTON", "", "0915", "1F42")))

	if got := s.LookupByUID("C12345"); got == nil {
		t.Error("expected message with no transaction type to be treated as Create")
	}
}

func TestPruneExpired(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(&types.VSTPMessage{
		JsonScheduleV1: &types.Schedule{
			TrainUID:          "C11111",
			TransactionType:   "Create",
			ScheduleStartDate: "2025-06-15",
			ScheduleEndDate:   "2025-06-15",
			ScheduleLocation:  []types.ScheduleLocation{loc("EUSTON", "", "0915", "1F42")},
		},
	})
	s.Ingest(scheduleMsg("C22222", "Create", loc("KNGX", "", "1000", "1A60")))

	// Next day: the dated schedule has lapsed, the undated one never does.
	day, _ := time.Parse("2006-01-02", "2025-06-16")
	s.now = func() time.Time { return day }

	if removed := s.PruneExpired(); removed != 1 {
		t.Fatalf("PruneExpired removed %d, want 1", removed)
	}
	if got := s.LookupByUID("C11111"); got != nil {
		t.Errorf("expected lapsed schedule to be pruned, got %+v", got)
	}
	if got := s.LookupByHeadcode("1F42"); got != nil {
		t.Errorf("expected lapsed schedule's headcode entry to be pruned, got %+v", got)
	}
	if got := s.LookupByUID("C22222"); got == nil {
		t.Error("expected undated schedule to survive pruning")
	}

	if removed := s.PruneExpired(); removed != 0 {
		t.Errorf("second prune removed %d, want 0", removed)
	}

	checkIndexConsistency(t, s)
}

func TestStatisticsAndClear(t *testing.T) {
	s := testStore(t, "2025-06-15")

	s.Ingest(scheduleMsg("C11111", "Create", loc("EUSTON", "", "0915", "1F42")))
	s.Ingest(scheduleMsg("C22222", "Create",
		loc("KNGX", "", "1000", "1A60"),
		loc("YORK", "1150", "1152", "1A60"),
		loc("EDINBUR", "1320", "", "1S60"),
	))

	stats := s.Statistics()
	if stats.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", stats.TotalMessages)
	}
	if stats.TotalSchedules != 2 {
		t.Errorf("TotalSchedules = %d, want 2", stats.TotalSchedules)
	}
	if stats.UniqueHeadcodes != 3 {
		t.Errorf("UniqueHeadcodes = %d, want 3", stats.UniqueHeadcodes)
	}

	s.Clear()

	stats = s.Statistics()
	if stats.TotalSchedules != 0 || stats.UniqueHeadcodes != 0 {
		t.Errorf("expected empty store after Clear, got %+v", stats)
	}
	if stats.TotalMessages != 2 {
		t.Errorf("Clear must retain the lifetime message count, got %d", stats.TotalMessages)
	}
}
