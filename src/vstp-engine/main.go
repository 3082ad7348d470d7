package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/railwatch/vstp-engine/src/common/classify"
	"github.com/railwatch/vstp-engine/src/common/data"
	"github.com/railwatch/vstp-engine/src/common/utils"
	"github.com/railwatch/vstp-engine/src/common/vstp"
	"github.com/railwatch/vstp-engine/src/vstp-engine/api"
)

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	log := utils.GetLogger()

	store := vstp.NewStore()

	rdb := utils.NewRedisClient()
	defer rdb.Close()

	conn, channel, err := utils.NewRabbitConnection()
	if err != nil {
		log.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer conn.Close()
	defer channel.Close()

	for _, queue := range []string{"vstp", "alerts"} {
		if _, err := channel.QueueDeclare(queue, false, false, false, false, nil); err != nil {
			log.Fatalw("failed to declare queue", "queue", queue, "error", err)
		}
	}

	// Location reference data is optional; the engine serves undecorated
	// responses without it.
	var dataClient *data.DataClient
	if os.Getenv("POSTGRES_HOST") != "" {
		db, err := utils.NewPostgresConnection()
		if err != nil {
			log.Warnw("failed to connect to database, continuing without reference data", "error", err)
		} else {
			defer db.Close()
			dataClient = data.NewDataClient(db, rdb, log)
		}
	} else {
		log.Info("POSTGRES_HOST not set, running without location reference data")
	}

	alertConfig := classify.ConfigFromEnv()
	if len(alertConfig) == 0 {
		log.Info("ALERT_SERVICES not set, service alerts disabled")
	}

	consumer := NewConsumer(store, channel, rdb, alertConfig, log)
	go func() {
		if err := consumer.Run(context.Background()); err != nil {
			log.Fatalw("VSTP consumer failed", "error", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			store.PruneExpired()
		}
	}()

	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		method := c.Method()

		if path != "/health" {
			log.Infow("request", "method", method, "path", path, "status", c.Response().StatusCode())
		}

		return c.Next()
	})

	app.Use(cors.New())

	server := api.NewServer(store, dataClient, log)
	api.RegisterHandlers(app, server)

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	if err := app.Listen(addr); err != nil {
		log.Fatalw("fiber listen failed", "error", err)
	}
}
