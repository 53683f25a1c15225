// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/silversky/partnersms-backend/internal/config"
	"github.com/silversky/partnersms-backend/internal/logger"
	"github.com/silversky/partnersms-backend/internal/notify"
	"github.com/silversky/partnersms-backend/internal/queue"
	"github.com/silversky/partnersms-backend/internal/sms"
)

// The worker drains reply notification events and relays them to the
// operator. Relay failures never requeue forever: bad payloads are
// dropped, and the relay itself already swallows channel errors.
func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	transport := sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	notifier := &notify.Notifier{Cfg: cfg, Transport: transport, Log: log}

	msgs, cleanup, err := queue.Consume(cfg.AMQPURL)
	if err != nil {
		log.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer cleanup()

	log.Info("worker running, waiting for reply notifications")

	ctx := context.Background()
	for d := range msgs {
		var event queue.ReplyEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Warn("invalid notification payload, dropping", zap.Error(err))
			d.Ack(false)
			continue
		}

		log.Info("📩 relaying reply notification",
			zap.String("event_id", event.ID),
			zap.String("partner", event.PartnerName))
		notifier.Notify(ctx, event.PartnerName, event.Body)
		d.Ack(false)
	}
}
