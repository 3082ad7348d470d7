package main

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/railwatch/vstp-engine/src/common/classify"
	"github.com/railwatch/vstp-engine/src/common/types"
	"github.com/railwatch/vstp-engine/src/common/utils"
	"github.com/railwatch/vstp-engine/src/common/vstp"
)

const journeyTTL = 72 * time.Hour

// Consumer drains the vstp queue into the schedule store, mirrors stored
// schedules to Redis for downstream consumers, and publishes alerts for
// services matching the alert configuration.
type Consumer struct {
	store       *vstp.Store
	channel     *amqp.Channel
	rdb         *redis.Client
	alertConfig classify.AlertConfig
	logger      *zap.SugaredLogger
}

func NewConsumer(store *vstp.Store, channel *amqp.Channel, rdb *redis.Client, alertConfig classify.AlertConfig, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{
		store:       store,
		channel:     channel,
		rdb:         rdb,
		alertConfig: alertConfig,
		logger:      logger,
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.channel.Consume("vstp", "", true, false, false, false, nil)
	if err != nil {
		return err
	}

	c.logger.Info("Processing VSTP schedule messages...")

	for msg := range msgs {
		var vstpMsg types.VSTPMessage
		if err := json.Unmarshal(msg.Body, &vstpMsg); err != nil {
			c.logger.Warnw("bad JSON on vstp queue", "error", err)
			continue
		}

		c.process(ctx, &vstpMsg)
	}

	return nil
}

func (c *Consumer) process(ctx context.Context, msg *types.VSTPMessage) {
	c.store.Ingest(msg)

	if msg.JsonScheduleV1 == nil || msg.JsonScheduleV1.TrainUID == "" {
		return
	}
	uid := msg.JsonScheduleV1.TrainUID

	if msg.JsonScheduleV1.TransactionType == "Delete" {
		if err := c.rdb.Del(ctx, utils.BuildJourneyKey(uid)).Err(); err != nil {
			c.logger.Debugw("failed to drop journey mirror", "uid", uid, "error", err)
		}
		return
	}

	// Re-read through the store: a schedule outside its validity window was
	// held back and must not be mirrored or alerted on.
	schedule := c.store.LookupByUID(uid)
	if schedule == nil {
		return
	}

	c.mirrorJourney(ctx, schedule)
	c.checkAlerts(schedule)
}

func (c *Consumer) mirrorJourney(ctx context.Context, schedule *types.Schedule) {
	origin, destination := vstp.OriginDestination(schedule)

	journey := types.VSTPJourney{
		UID:         schedule.TrainUID,
		Headcodes:   schedule.Headcodes(),
		Origin:      origin,
		Destination: destination,
	}
	for _, loc := range schedule.ScheduleLocation {
		journey.Stops = append(journey.Stops, types.VSTPStop{
			Tiploc:     loc.TiplocCode,
			PlannedArr: loc.Arrival,
			PlannedDep: loc.Departure,
			Platform:   loc.Platform,
		})
	}

	b, _ := json.Marshal(journey)
	key := utils.BuildJourneyKey(schedule.TrainUID)
	if err := c.rdb.Set(ctx, key, b, journeyTTL).Err(); err != nil {
		c.logger.Warnw("failed to write journey mirror to Redis", "uid", schedule.TrainUID, "error", err)
	} else {
		c.logger.Debugw("wrote journey mirror to Redis", "key", key)
	}
}

// checkAlerts classifies the schedule once per headcode it carries and
// publishes an alert for each headcode whose classification matches the
// configuration. Dispatch to users is a downstream concern.
func (c *Consumer) checkAlerts(schedule *types.Schedule) {
	if len(c.alertConfig) == 0 {
		return
	}

	origin, destination := vstp.OriginDestination(schedule)

	for _, headcode := range schedule.Headcodes() {
		classification := classify.Classify(schedule, headcode)
		fire, reason := classify.ShouldAlert(classification, c.alertConfig)
		if !fire {
			continue
		}

		alert := types.ServiceAlert{
			TrainUID:    schedule.TrainUID,
			Headcode:    headcode,
			Reason:      reason,
			ServiceType: classification.ServiceType,
			Description: classification.Description,
			Origin:      origin,
			Destination: destination,
		}

		body, _ := json.Marshal(alert)
		err := c.channel.Publish(
			"",
			"alerts",
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
		if err != nil {
			c.logger.Warnw("error publishing alert", "uid", schedule.TrainUID, "headcode", headcode, "error", err)
		} else {
			c.logger.Infow("published service alert", "uid", schedule.TrainUID, "headcode", headcode, "reason", reason)
		}
	}
}
