package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/prospexa-sync/internal/infra/database"
	"github.com/xavierca1/prospexa-sync/internal/infra/http/handlers"
	"github.com/xavierca1/prospexa-sync/internal/infra/http/middleware"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/instantly"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/kommo"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/provider"
	"github.com/xavierca1/prospexa-sync/internal/infra/integration/smartlead"
	"github.com/xavierca1/prospexa-sync/internal/infra/mail"
	"github.com/xavierca1/prospexa-sync/internal/infra/queue"
	"github.com/xavierca1/prospexa-sync/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	campaignRepo := database.NewCampaignRepository(db)
	clientRepo := database.NewClientRepository(db)
	leadRepo := database.NewLeadRepository(db)
	leadEmailRepo := database.NewLeadEmailRepository(db)
	webhookLogRepo := database.NewWebhookLogRepository(db)

	// 2. Adapters dos provedores de cold-email
	registry := provider.NewRegistry(
		instantly.NewClient(os.Getenv("INSTANTLY_API_KEY"), os.Getenv("INSTANTLY_URL")),
		smartlead.NewClient(os.Getenv("SMARTLEAD_API_KEY"), os.Getenv("SMARTLEAD_URL")),
	)

	// 3. Efeitos colaterais de resposta positiva (fila -> CRM + alerta)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	kommoClient := kommo.NewClient(kommo.Config{
		APIToken: os.Getenv("KOMMO_API_TOKEN"),
		BaseURL:  os.Getenv("KOMMO_URL"),
	})
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587,
		os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"), os.Getenv("MAIL_ALERT_TO"),
	)

	worker := queue.NewWorker(rabbitMQ.Ch, kommoClient, mailSender)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	syncUC := usecase.NewSyncCampaignLeadsUseCase(
		campaignRepo, clientRepo, leadRepo, leadEmailRepo, registry,
	)
	webhookUC := usecase.NewProcessWebhookUseCase(
		campaignRepo, clientRepo, leadRepo, leadEmailRepo, webhookLogRepo, producer,
	)

	// 5. Handlers
	syncHandler := handlers.NewSyncHandler(syncUC)
	webhookHandler := handlers.NewWebhookHandler(
		registry, webhookUC, campaignRepo, leadRepo, leadEmailRepo,
		map[string]string{
			"instantly": os.Getenv("INSTANTLY_WEBHOOK_SECRET"),
			"smartlead": os.Getenv("SMARTLEAD_WEBHOOK_SECRET"),
		},
	)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/campaigns/{campaignId}/sync", syncHandler.Handle)
	r.Post("/webhooks/{provider}/{campaignId}", webhookHandler.Handle)
	r.Get("/webhooks/{provider}/{campaignId}", webhookHandler.HandleStatus)

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 Prospexa Sync Engine rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
