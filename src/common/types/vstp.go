package types

// VSTPMessage is the envelope delivered on the VSTP feed. Messages without a
// JsonScheduleV1 body are noise (heartbeats, other message families) and are
// dropped by the store.
type VSTPMessage struct {
	JsonScheduleV1 *Schedule `json:"JsonScheduleV1"`
}

// Schedule is one short-notice planned train journey for a date range.
// Field names follow the upstream feed; absent fields decode to "".
type Schedule struct {
	TrainUID                 string             `json:"CIF_train_uid"`
	TransactionType          string             `json:"transaction_type"`
	ScheduleStartDate        string             `json:"schedule_start_date"`
	ScheduleEndDate          string             `json:"schedule_end_date"`
	TrainCategory            string             `json:"CIF_train_category"`
	PowerType                string             `json:"CIF_power_type"`
	TrainClass               string             `json:"train_class"`
	OperatingCharacteristics string             `json:"operating_characteristics"`
	ScheduleLocation         []ScheduleLocation `json:"schedule_location"`
}

type ScheduleLocation struct {
	TiplocCode    string `json:"tiploc_code"`
	Arrival       string `json:"arrival"`
	Departure     string `json:"departure"`
	Platform      string `json:"platform"`
	TrainIdentity string `json:"train_identity"`
}

// Headcodes returns the distinct train identities carried across the schedule's
// locations, in first-appearance order. A schedule may carry different headcodes
// at different points of its journey.
func (s *Schedule) Headcodes() []string {
	var headcodes []string
	seen := make(map[string]bool)
	for _, loc := range s.ScheduleLocation {
		if loc.TrainIdentity == "" || seen[loc.TrainIdentity] {
			continue
		}
		seen[loc.TrainIdentity] = true
		headcodes = append(headcodes, loc.TrainIdentity)
	}
	return headcodes
}
