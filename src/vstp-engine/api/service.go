package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/railwatch/vstp-engine/src/common/classify"
	"github.com/railwatch/vstp-engine/src/common/types"
	"github.com/railwatch/vstp-engine/src/common/vstp"
)

// GetService returns every currently stored schedule carrying the queried
// headcode, classified against that headcode.
func (s *APIServer) GetService(c *fiber.Ctx) error {
	headcode := c.Query("headcode")
	if headcode == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Bad Request",
			Message: "headcode query parameter is required",
		})
	}

	schedules := s.Store.LookupAllByHeadcode(headcode)
	if len(schedules) == 0 {
		return c.Status(http.StatusNotFound).JSON(NotFoundResponse{
			Error: "No services found",
		})
	}

	services := make([]ServiceResponse, 0, len(schedules))
	for _, schedule := range schedules {
		services = append(services, s.serviceResponse(c, schedule, headcode))
	}

	return c.JSON(services)
}

// GetServiceByUID returns the schedule stored under a train UID, classified
// against its first headcode.
func (s *APIServer) GetServiceByUID(c *fiber.Ctx) error {
	uid := c.Params("uid")

	schedule := s.Store.LookupByUID(uid)
	if schedule == nil {
		return c.Status(http.StatusNotFound).JSON(NotFoundResponse{
			Error: "No service found for UID",
		})
	}

	headcode := ""
	if headcodes := schedule.Headcodes(); len(headcodes) > 0 {
		headcode = headcodes[0]
	}

	return c.JSON(s.serviceResponse(c, schedule, headcode))
}

// GetNextStop returns the next timed stop for a stored schedule. With no
// current query parameter it returns the first timed stop.
func (s *APIServer) GetNextStop(c *fiber.Ctx) error {
	uid := c.Params("uid")

	schedule := s.Store.LookupByUID(uid)
	if schedule == nil {
		return c.Status(http.StatusNotFound).JSON(NotFoundResponse{
			Error: "No service found for UID",
		})
	}

	next := vstp.NextStop(schedule, c.Query("current"))
	if next == nil {
		return c.Status(http.StatusNotFound).JSON(NotFoundResponse{
			Error: "No next stop found",
		})
	}

	return c.JSON(s.locationResponse(c, next))
}

func (s *APIServer) GetStats(c *fiber.Ctx) error {
	return c.JSON(s.Store.Statistics())
}

// ClearCache drops the schedule working set. The feed rebuilds it.
func (s *APIServer) ClearCache(c *fiber.Ctx) error {
	s.Store.Clear()
	return c.SendStatus(http.StatusNoContent)
}

func (s *APIServer) serviceResponse(c *fiber.Ctx, schedule *types.Schedule, headcode string) ServiceResponse {
	response := ServiceResponse{
		TrainUID:          schedule.TrainUID,
		Headcodes:         schedule.Headcodes(),
		TrainCategory:     schedule.TrainCategory,
		PowerType:         schedule.PowerType,
		TrainClass:        schedule.TrainClass,
		ScheduleStartDate: schedule.ScheduleStartDate,
		ScheduleEndDate:   schedule.ScheduleEndDate,
		Classification:    classify.Classify(schedule, headcode),
	}

	origin, destination := vstp.OriginDestination(schedule)
	if origin != "" {
		response.Origin = &EndpointInfo{Tiploc: origin, Description: s.describeTiploc(c, origin)}
	}
	if destination != "" {
		response.Destination = &EndpointInfo{Tiploc: destination, Description: s.describeTiploc(c, destination)}
	}

	response.Locations = make([]LocationResponse, 0, len(schedule.ScheduleLocation))
	for i := range schedule.ScheduleLocation {
		response.Locations = append(response.Locations, s.locationResponse(c, &schedule.ScheduleLocation[i]))
	}

	return response
}

func (s *APIServer) locationResponse(c *fiber.Ctx, loc *types.ScheduleLocation) LocationResponse {
	return LocationResponse{
		Tiploc:        loc.TiplocCode,
		Description:   s.describeTiploc(c, loc.TiplocCode),
		Arrival:       loc.Arrival,
		Departure:     loc.Departure,
		Platform:      loc.Platform,
		TrainIdentity: loc.TrainIdentity,
	}
}

// describeTiploc is best-effort: without reference data, or on a miss, the
// response simply carries no description.
func (s *APIServer) describeTiploc(c *fiber.Ctx, tiploc string) string {
	if s.Data == nil || tiploc == "" {
		return ""
	}

	description, err := s.Data.GetTiplocDescription(c.Context(), tiploc)
	if err != nil {
		return ""
	}
	return description
}
