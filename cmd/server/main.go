// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/silversky/partnersms-backend/internal/config"
	"github.com/silversky/partnersms-backend/internal/db"
	"github.com/silversky/partnersms-backend/internal/handler"
	"github.com/silversky/partnersms-backend/internal/logger"
	"github.com/silversky/partnersms-backend/internal/queue"
	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/service"
	"github.com/silversky/partnersms-backend/internal/sms"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer conn.Close()
	log.Info("✅ connected to database")

	partnerRepo := &repository.PartnerRepository{DB: conn}
	categoryRepo := &repository.CategoryRepository{DB: conn}
	tagRepo := &repository.TagRepository{DB: conn}
	messageRepo := &repository.MessageRepository{DB: conn}
	sendRepo := &repository.SendRecordRepository{DB: conn}
	templateRepo := &repository.TemplateRepository{DB: conn}
	scheduledRepo := &repository.ScheduledRepository{DB: conn}
	statsRepo := &repository.StatsRepository{DB: conn}

	var publisher service.ReplyPublisher
	if cfg.AMQPURL != "" {
		p, err := queue.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Warn("rabbitmq unavailable, reply notifications disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	transport := sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)

	conversationSvc := &service.ConversationService{
		PartnerRepo:        partnerRepo,
		MessageRepo:        messageRepo,
		Publisher:          publisher,
		DefaultPhoneRegion: cfg.DefaultPhoneRegion,
		Log:                log,
	}
	broadcastSvc := &service.BroadcastService{
		PartnerRepo:  partnerRepo,
		SendRepo:     sendRepo,
		Conversation: conversationSvc,
		Transport:    transport,
		Log:          log,
	}
	partnerSvc := &service.PartnerService{
		PartnerRepo:        partnerRepo,
		DefaultPhoneRegion: cfg.DefaultPhoneRegion,
		Log:                log,
	}
	schedulerSvc := &service.SchedulerService{
		ScheduledRepo: scheduledRepo,
		PartnerRepo:   partnerRepo,
		Broadcast:     broadcastSvc,
		Log:           log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go schedulerSvc.StartLoop(ctx, cfg.SchedulerInterval)

	router := handler.NewRouter(handler.Handlers{
		Partners:   &handler.PartnerHandler{Service: partnerSvc},
		Categories: &handler.CategoryHandler{Categories: categoryRepo, Tags: tagRepo},
		Broadcasts: &handler.BroadcastHandler{Broadcast: broadcastSvc},
		Messages:   &handler.MessageHandler{Conversation: conversationSvc},
		Templates:  &handler.TemplateHandler{Repo: templateRepo},
		Scheduled:  &handler.ScheduledHandler{Scheduler: schedulerSvc},
		Stats:      &handler.StatsHandler{Repo: statsRepo},
		Webhooks: &handler.WebhookHandler{
			Conversation: conversationSvc,
			MessageRepo:  messageRepo,
			SendRepo:     sendRepo,
			Log:          log,
		},
	})

	server := &http.Server{Addr: cfg.HTTPPort, Handler: router}
	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		server.Shutdown(context.Background())
	}()

	log.Info("🚀 server running", zap.String("addr", cfg.HTTPPort))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", zap.Error(err))
	}
}
