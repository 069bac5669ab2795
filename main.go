package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyCheckAPI/handlers"
	"studyCheckAPI/internal/notification"
	"studyCheckAPI/middleware"
	"studyCheckAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	studyService        *services.StudyService
	groupService        *services.GroupService
	homeworkService     *services.HomeworkService
	feedbackService     *services.FeedbackService
	notificationService *services.NotificationService
	paddleService       *services.PaddleService
	feedManager         *services.GroupFeedManager
	fcmService          *notification.FCMService
	photoStore          *services.FirebaseStorage
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	photoStore, err = services.NewFirebaseStorage(ctx, "./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize photo storage: %v", err)
	}

	feedManager = services.NewGroupFeedManager()
	studyService = services.NewStudyService(dbPool)
	groupService = services.NewGroupService(dbPool)
	notificationService = services.NewNotificationService(dbPool)
	feedbackService = services.NewFeedbackService(dbPool, notificationService)

	if photoStore != nil {
		homeworkService = services.NewHomeworkService(dbPool, photoStore, feedManager)
	} else {
		homeworkService = services.NewHomeworkService(dbPool, nil, feedManager)
	}

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	var paddleClient *paddle.SDK
	paddleAPIKey := os.Getenv("PADDLE_API_KEY")
	if paddleAPIKey == "" {
		log.Println("Warning: PADDLE_API_KEY not set, premium checkout disabled")
	} else {
		paddleClient, err = paddle.New(paddleAPIKey, paddle.WithBaseURL(paddle.SandboxBaseURL))
		if err != nil {
			log.Printf("Warning: Could not initialize Paddle client: %v", err)
		}
	}
	paddleService = services.NewPaddleService(paddleClient, dbPool)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	studyHandler := handlers.NewStudyHandler(studyService)
	groupHandler := handlers.NewGroupHandler(groupService)
	homeworkHandler := handlers.NewHomeworkHandler(homeworkService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	paddleHandler := handlers.NewPaddleHandler(paddleService)
	feedHandler := handlers.NewFeedHandler(feedManager)

	r := mux.NewRouter()

	// Websocket route stays outside the rate limiter; a feed connection is
	// one long request.
	r.HandleFunc("/api/v1/groups/ws/{groupID}", feedHandler.JoinGroupFeed)

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "studyCheck-api"}`))
	}).Methods("GET")

	standardRouter.HandleFunc("/webhooks/paddle", paddleHandler.PaddleWebhookHandler).Methods("POST")
	standardRouter.HandleFunc("/payment/success", paddleHandler.PaymentSuccessPage).Methods("GET")
	standardRouter.HandleFunc("/payment/fail", paddleHandler.PaymentFailPage).Methods("GET")

	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	// -------------------------------------------------------------------------
	// FAMILY ROUTES (X-Family-Code header is the owner key)
	// -------------------------------------------------------------------------
	study := api.PathPrefix("/study").Subrouter()
	study.Use(middleware.FamilyCodeMiddleware)

	study.HandleFunc("/check", studyHandler.CheckIn).Methods("POST")
	study.HandleFunc("/check", studyHandler.DeleteToday).Methods("DELETE")
	study.HandleFunc("/records", studyHandler.GetRecords).Methods("GET")
	study.HandleFunc("/streak", studyHandler.GetStreak).Methods("GET")
	study.HandleFunc("/calendar", studyHandler.GetCalendar).Methods("GET")
	study.HandleFunc("/heatmap", studyHandler.GetHeatmap).Methods("GET")

	// -------------------------------------------------------------------------
	// GROUP / PREMIUM ROUTES
	// -------------------------------------------------------------------------
	api.HandleFunc("/groups", groupHandler.CreateGroup).Methods("POST")
	api.HandleFunc("/groups/join", groupHandler.JoinGroup).Methods("POST")
	api.HandleFunc("/groups/{groupID}/invite-qr", groupHandler.InviteQR).Methods("GET")

	api.HandleFunc("/groups/{groupID}/homeworks", homeworkHandler.Submit).Methods("POST")
	api.HandleFunc("/groups/{groupID}/homeworks/today", homeworkHandler.GetToday).Methods("GET")
	api.HandleFunc("/groups/{groupID}/homeworks/today/{student}", homeworkHandler.GetTodayForStudent).Methods("GET")
	api.HandleFunc("/groups/{groupID}/students/{student}/streak", homeworkHandler.GetStudentStreak).Methods("GET")
	api.HandleFunc("/homeworks/{homeworkID}", homeworkHandler.Delete).Methods("DELETE")

	api.HandleFunc("/homeworks/{homeworkID}/feedback", feedbackHandler.Create).Methods("POST")
	api.HandleFunc("/homeworks/{homeworkID}/feedback", feedbackHandler.List).Methods("GET")

	api.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	api.HandleFunc("/premium/prices", paddleHandler.GetPrices).Methods("GET")
	api.HandleFunc("/premium/transaction", paddleHandler.CreateTransaction).Methods("POST")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "X-Family-Code", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
