// Package vstp maintains the working set of short-notice schedule changes
// received from the VSTP feed, indexed for lookup by train UID and headcode.
package vstp

import (
	"sync"
	"time"

	"github.com/railwatch/vstp-engine/src/common/types"
	"github.com/railwatch/vstp-engine/src/common/utils"
	"go.uber.org/zap"
)

type Statistics struct {
	TotalMessages   int64 `json:"total_messages"`
	TotalSchedules  int   `json:"total_schedules"`
	UniqueHeadcodes int   `json:"unique_headcodes"`
}

// Store is the authoritative in-memory collection of currently valid VSTP
// schedules. It keeps two indexes over the same records: train UID to schedule,
// and headcode to the schedules carrying that headcode in insertion order.
// Both indexes are guarded by one lock; they are only ever consistent jointly.
type Store struct {
	mu         sync.RWMutex
	byUID      map[string]*types.Schedule
	byHeadcode map[string][]*types.Schedule

	messageCount int64

	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		byUID:      make(map[string]*types.Schedule),
		byHeadcode: make(map[string][]*types.Schedule),
		logger:     utils.GetLogger(),
		now:        time.Now,
	}
}

// Ingest applies one feed message to the store. The upstream feed is untrusted:
// every malformed or unrecognised message degrades to a logged no-op, never an
// error.
func (s *Store) Ingest(msg *types.VSTPMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messageCount++

	if msg == nil || msg.JsonScheduleV1 == nil {
		s.logger.Debug("VSTP message missing JsonScheduleV1 body")
		return
	}

	schedule := msg.JsonScheduleV1

	transactionType := schedule.TransactionType
	if transactionType == "" {
		transactionType = "Create"
	}

	if schedule.TrainUID == "" {
		s.logger.Warn("VSTP schedule missing train UID")
		return
	}

	switch transactionType {
	case "Delete":
		s.deleteLocked(schedule.TrainUID)
	case "Create", "Update":
		s.storeLocked(schedule)
	default:
		s.logger.Debugw("unknown VSTP transaction type", "type", transactionType)
	}
}

func (s *Store) storeLocked(schedule *types.Schedule) {
	if !s.validToday(schedule) {
		s.logger.Debugw("schedule not valid for today, skipping", "uid", schedule.TrainUID)
		return
	}

	// An update replaces the record wholesale. Unindex the previous record
	// first so headcodes it no longer carries don't keep stale entries.
	if prior, ok := s.byUID[schedule.TrainUID]; ok {
		s.unindexHeadcodesLocked(prior)
	}

	s.byUID[schedule.TrainUID] = schedule

	headcodes := schedule.Headcodes()
	for _, headcode := range headcodes {
		s.byHeadcode[headcode] = append(s.byHeadcode[headcode], schedule)
	}

	s.logger.Debugw("stored VSTP schedule",
		"uid", schedule.TrainUID,
		"headcodes", headcodes,
		"category", schedule.TrainCategory,
	)
}

func (s *Store) deleteLocked(uid string) {
	schedule, ok := s.byUID[uid]
	if !ok {
		return
	}

	delete(s.byUID, uid)
	s.unindexHeadcodesLocked(schedule)

	s.logger.Debugw("deleted VSTP schedule", "uid", uid)
}

// unindexHeadcodesLocked strips the schedule's UID from every headcode list it
// appears under, removing lists that become empty rather than leaving dangling
// keys.
func (s *Store) unindexHeadcodesLocked(schedule *types.Schedule) {
	for _, headcode := range schedule.Headcodes() {
		existing := s.byHeadcode[headcode]
		kept := existing[:0]
		for _, candidate := range existing {
			if candidate.TrainUID != schedule.TrainUID {
				kept = append(kept, candidate)
			}
		}
		if len(kept) > 0 {
			s.byHeadcode[headcode] = kept
		} else {
			delete(s.byHeadcode, headcode)
		}
	}
}

// validToday reports whether the schedule's validity window contains today.
// Missing or unparseable dates fail open: a window we can't evaluate must not
// cause a live schedule to be dropped.
func (s *Store) validToday(schedule *types.Schedule) bool {
	if schedule.ScheduleStartDate == "" || schedule.ScheduleEndDate == "" {
		return true
	}

	start, err := time.Parse("2006-01-02", schedule.ScheduleStartDate)
	if err != nil {
		s.logger.Warnw("error parsing schedule start date", "uid", schedule.TrainUID, "date", schedule.ScheduleStartDate, "error", err)
		return true
	}
	end, err := time.Parse("2006-01-02", schedule.ScheduleEndDate)
	if err != nil {
		s.logger.Warnw("error parsing schedule end date", "uid", schedule.TrainUID, "date", schedule.ScheduleEndDate, "error", err)
		return true
	}

	year, month, day := s.now().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	return !today.Before(start) && !today.After(end)
}

// LookupByUID returns the schedule stored under the given train UID, or nil.
func (s *Store) LookupByUID(uid string) *types.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.byUID[uid]
}

// LookupByHeadcode returns the first-inserted schedule carrying the headcode,
// or nil. Multiple schedules can share a headcode on the same day.
func (s *Store) LookupByHeadcode(headcode string) *types.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if schedules := s.byHeadcode[headcode]; len(schedules) > 0 {
		return schedules[0]
	}
	return nil
}

// LookupAllByHeadcode returns every schedule carrying the headcode in insertion
// order. The returned slice is a copy and safe to retain.
func (s *Store) LookupAllByHeadcode(headcode string) []*types.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := s.byHeadcode[headcode]
	if len(schedules) == 0 {
		return nil
	}
	out := make([]*types.Schedule, len(schedules))
	copy(out, schedules)
	return out
}

func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Statistics{
		TotalMessages:   s.messageCount,
		TotalSchedules:  len(s.byUID),
		UniqueHeadcodes: len(s.byHeadcode),
	}
}

// PruneExpired removes schedules whose validity window ended before today and
// returns how many were removed. Windows that are missing or unparseable are
// kept, consistent with the fail-open ingest gating.
func (s *Store) PruneExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	year, month, day := s.now().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	removed := 0
	for uid, schedule := range s.byUID {
		if schedule.ScheduleEndDate == "" {
			continue
		}
		end, err := time.Parse("2006-01-02", schedule.ScheduleEndDate)
		if err != nil {
			continue
		}
		if today.After(end) {
			delete(s.byUID, uid)
			s.unindexHeadcodesLocked(schedule)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Infow("pruned expired VSTP schedules", "count", removed)
	}

	return removed
}

// Clear empties both indexes. The lifetime message counter is retained.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUID = make(map[string]*types.Schedule)
	s.byHeadcode = make(map[string][]*types.Schedule)

	s.logger.Info("VSTP schedule cache cleared")
}
