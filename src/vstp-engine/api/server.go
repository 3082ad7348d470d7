package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/railwatch/vstp-engine/src/common/data"
	"github.com/railwatch/vstp-engine/src/common/vstp"
)

type APIServer struct {
	Store  *vstp.Store
	Data   *data.DataClient
	Logger *zap.SugaredLogger
}

// NewServer wires the query API over a schedule store. dataClient may be nil,
// in which case responses are served without location descriptions.
func NewServer(store *vstp.Store, dataClient *data.DataClient, logger *zap.SugaredLogger) *APIServer {
	return &APIServer{
		Store:  store,
		Data:   dataClient,
		Logger: logger,
	}
}

func RegisterHandlers(app *fiber.App, s *APIServer) {
	app.Get("/health", s.GetHealth)
	app.Get("/service", s.GetService)
	app.Get("/service/uid/:uid", s.GetServiceByUID)
	app.Get("/service/uid/:uid/next-stop", s.GetNextStop)
	app.Get("/stats", s.GetStats)
	app.Delete("/cache", s.ClearCache)
}
