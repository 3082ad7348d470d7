package types

// ServiceAlert is published to the alerts queue when a newly stored schedule
// matches the engine's alert configuration. Notification dispatch is left to
// downstream consumers.
type ServiceAlert struct {
	TrainUID    string `json:"train_uid"`
	Headcode    string `json:"headcode"`
	Reason      string `json:"reason"`
	ServiceType string `json:"service_type"`
	Description string `json:"description"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
}
