package vstp

import (
	"github.com/railwatch/vstp-engine/src/common/types"
)

// OriginDestination extracts the origin and destination TIPLOCs of a schedule.
// Origin is the first location with a departure time, destination the last
// location with an arrival time. Either may be "" if no location qualifies.
func OriginDestination(schedule *types.Schedule) (string, string) {
	var origin, destination string

	for _, loc := range schedule.ScheduleLocation {
		if loc.Departure != "" {
			origin = loc.TiplocCode
			break
		}
	}

	for i := len(schedule.ScheduleLocation) - 1; i >= 0; i-- {
		if schedule.ScheduleLocation[i].Arrival != "" {
			destination = schedule.ScheduleLocation[i].TiplocCode
			break
		}
	}

	return origin, destination
}

// NextStop returns the next timed location after currentLocation, or the first
// timed location when currentLocation is "". Locations with neither an arrival
// nor a departure are passes and are skipped. Returns nil when the current
// location is not on the schedule or no timed stop follows it. If the current
// TIPLOC recurs, the scan locks onto its first occurrence.
func NextStop(schedule *types.Schedule, currentLocation string) *types.ScheduleLocation {
	if currentLocation == "" {
		for i := range schedule.ScheduleLocation {
			loc := &schedule.ScheduleLocation[i]
			if loc.Arrival != "" || loc.Departure != "" {
				return loc
			}
		}
		return nil
	}

	foundCurrent := false
	for i := range schedule.ScheduleLocation {
		loc := &schedule.ScheduleLocation[i]
		if foundCurrent && (loc.Arrival != "" || loc.Departure != "") {
			return loc
		}
		if loc.TiplocCode == currentLocation {
			foundCurrent = true
		}
	}

	return nil
}
