package api

import (
	"github.com/railwatch/vstp-engine/src/common/classify"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type NotFoundResponse struct {
	Error string `json:"error"`
}

// EndpointInfo is an origin or destination, decorated with the CORPUS
// description when reference data is available.
type EndpointInfo struct {
	Tiploc      string `json:"tiploc"`
	Description string `json:"description,omitempty"`
}

type LocationResponse struct {
	Tiploc        string `json:"tiploc"`
	Description   string `json:"description,omitempty"`
	Arrival       string `json:"arrival,omitempty"`
	Departure     string `json:"departure,omitempty"`
	Platform      string `json:"platform,omitempty"`
	TrainIdentity string `json:"train_identity,omitempty"`
}

type ServiceResponse struct {
	TrainUID          string                  `json:"train_uid"`
	Headcodes         []string                `json:"headcodes"`
	TrainCategory     string                  `json:"train_category,omitempty"`
	PowerType         string                  `json:"power_type,omitempty"`
	TrainClass        string                  `json:"train_class,omitempty"`
	ScheduleStartDate string                  `json:"schedule_start_date,omitempty"`
	ScheduleEndDate   string                  `json:"schedule_end_date,omitempty"`
	Origin            *EndpointInfo           `json:"origin,omitempty"`
	Destination       *EndpointInfo           `json:"destination,omitempty"`
	Locations         []LocationResponse      `json:"locations"`
	Classification    classify.Classification `json:"classification"`
}
