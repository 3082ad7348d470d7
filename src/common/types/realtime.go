package types

type VSTPStop struct {
	Tiploc     string `json:"tiploc"`
	PlannedArr string `json:"planned_arr,omitempty"`
	PlannedDep string `json:"planned_dep,omitempty"`
	Platform   string `json:"platform,omitempty"`
}

// VSTPJourney is the compact schedule summary mirrored into Redis for
// downstream consumers.
type VSTPJourney struct {
	UID         string     `json:"uid"`
	Headcodes   []string   `json:"headcodes"`
	Origin      string     `json:"origin,omitempty"`
	Destination string     `json:"destination,omitempty"`
	Stops       []VSTPStop `json:"stops"`
}
