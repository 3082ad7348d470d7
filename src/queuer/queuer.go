package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/railwatch/vstp-engine/src/common/utils"
	"github.com/railwatch/vstp-engine/src/queuer/listener"

	amqp "github.com/rabbitmq/amqp091-go"
)

var mqConn *amqp.Connection

// HandleVSTP republishes one VSTP feed frame to the vstp queue. Frames that
// don't parse as VSTP envelopes are dropped here so consumers only ever see
// well-formed JSON.
func HandleVSTP(channel *amqp.Channel, data string) {
	message, err := utils.UnmarshalVSTP(data)
	if err != nil {
		utils.GetLogger().Warnw("error unmarshalling VSTP message", "error", err)
		return
	}

	body, _ := json.Marshal(message)
	err = channel.Publish(
		"",
		"vstp",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		utils.GetLogger().Warnw("error publishing message to RabbitMQ", "queue", "vstp", "error", err)
	} else {
		utils.GetLogger().Debug("Published message to RabbitMQ for VSTP")
	}
}

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	logger := utils.GetLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	mqConn, err = utils.NewRabbitConnectionOnly()
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer mqConn.Close()

	closeChan := make(chan *amqp.Error)
	mqConn.NotifyClose(closeChan)

	go func() {
		select {
		case err := <-closeChan:
			if err != nil {
				logger.Warnw("RabbitMQ connection closed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}()

	vstpChannel, err := mqConn.Channel()
	if err != nil {
		logger.Fatalw("failed to create VSTP channel", "error", err)
	}
	defer vstpChannel.Close()

	stompConn, err := utils.NewNRStompConnection()
	if err != nil {
		logger.Fatalw("failed to connect to NR stomp", "error", err)
	}

	topic := os.Getenv("NR_VSTP_TOPIC")
	if topic == "" {
		topic = "VSTP_ALL"
	}

	var wg sync.WaitGroup

	vstpListener := listener.NewListener(ctx, &wg, vstpChannel, stompConn, topic, HandleVSTP)
	if err := vstpListener.DeclareQueue("vstp"); err != nil {
		logger.Fatalw("failed to declare vstp queue", "error", err)
	}

	wg.Add(1)
	go vstpListener.Start()

	logger.Infow("queuer started", "topic", topic)

	<-ctx.Done()
	stop()

	wg.Wait()

	stompConn.Disconnect()
}
