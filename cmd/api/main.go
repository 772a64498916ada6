package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gracechapel-dev/churchhub-backend/api/routes"
	"github.com/gracechapel-dev/churchhub-backend/internal/announcements"
	"github.com/gracechapel-dev/churchhub-backend/internal/attendance"
	"github.com/gracechapel-dev/churchhub-backend/internal/auth"
	"github.com/gracechapel-dev/churchhub-backend/internal/dashboard"
	"github.com/gracechapel-dev/churchhub-backend/internal/donations"
	"github.com/gracechapel-dev/churchhub-backend/internal/media"
	"github.com/gracechapel-dev/churchhub-backend/internal/members"
	"github.com/gracechapel-dev/churchhub-backend/internal/prayers"
	"github.com/gracechapel-dev/churchhub-backend/internal/profiles"
	"github.com/gracechapel-dev/churchhub-backend/internal/programs"
	"github.com/gracechapel-dev/churchhub-backend/internal/sermons"
	"github.com/gracechapel-dev/churchhub-backend/internal/testimonies"
	"github.com/gracechapel-dev/churchhub-backend/internal/users"
	"github.com/gracechapel-dev/churchhub-backend/pkg/auth/session"
	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db"
	"github.com/gracechapel-dev/churchhub-backend/pkg/flutterwave"
	"github.com/gracechapel-dev/churchhub-backend/pkg/logger"
	"github.com/gracechapel-dev/churchhub-backend/pkg/metrics"
	"github.com/gracechapel-dev/churchhub-backend/pkg/migrate"
	"github.com/gracechapel-dev/churchhub-backend/pkg/paystack"
	"github.com/gracechapel-dev/churchhub-backend/pkg/redis"
	"github.com/gracechapel-dev/churchhub-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	paystackClient, err := paystack.NewClient(context.Background(), cfg.Paystack, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap paystack", err)
		os.Exit(1)
	}

	flutterwaveClient, err := flutterwave.NewClient(context.Background(), cfg.Flutterwave, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap flutterwave", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	attendanceRepo := attendance.NewRepository(dbClient.DB())
	announcementsRepo := announcements.NewRepository(dbClient.DB())
	programsRepo := programs.NewRepository(dbClient.DB())
	sermonsRepo := sermons.NewRepository(dbClient.DB())
	donationsRepo := donations.NewRepository(dbClient.DB())
	prayersRepo := prayers.NewRepository(dbClient.DB())
	testimoniesRepo := testimonies.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		SessionManager: sessionManager,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	passwordResetService, err := auth.NewPasswordResetService(auth.PasswordResetParams{
		UserRepo:       usersRepo,
		TokenStore:     redisClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create password reset service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{
		UserRepo:      usersRepo,
		ProfileConfig: cfg.Profile,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.ServiceParams{
		Signer:      gcsClient,
		GCSConfig:   cfg.GCS,
		MediaConfig: cfg.Media,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	attendanceService, err := attendance.NewService(attendance.ServiceParams{
		EventRepo:        attendanceRepo,
		AttendanceConfig: cfg.Attendance,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create attendance service", err)
		os.Exit(1)
	}

	attendanceExporter, err := attendance.NewExporter(attendanceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create attendance exporter", err)
		os.Exit(1)
	}

	announcementService, err := announcements.NewService(announcements.ServiceParams{Repo: announcementsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create announcement service", err)
		os.Exit(1)
	}

	programService, err := programs.NewService(programs.ServiceParams{Repo: programsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create program service", err)
		os.Exit(1)
	}

	sermonService, err := sermons.NewService(sermons.ServiceParams{Repo: sermonsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create sermon service", err)
		os.Exit(1)
	}

	donationService, err := donations.NewService(donations.ServiceParams{
		Repo:        donationsRepo,
		Paystack:    paystackClient,
		Flutterwave: flutterwaveClient,
		RedirectURL: cfg.Flutterwave.RedirectURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create donation service", err)
		os.Exit(1)
	}

	prayerService, err := prayers.NewService(prayers.ServiceParams{Repo: prayersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create prayer service", err)
		os.Exit(1)
	}

	testimonyService, err := testimonies.NewService(testimonies.ServiceParams{Repo: testimoniesRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create testimony service", err)
		os.Exit(1)
	}

	memberService, err := members.NewService(members.ServiceParams{Repo: usersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create member service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Members:     usersRepo,
		Events:      attendanceRepo,
		Donations:   donationsRepo,
		Testimonies: testimoniesRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	instance, _ := os.Hostname()
	if instance == "" {
		instance = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			GCS:      gcsClient,
			Metrics:  httpMetrics,
			Sessions: sessionManager,

			UsersRepo: usersRepo,

			AuthService:          authService,
			RegisterService:      registerService,
			PasswordResetService: passwordResetService,
			ProfileService:       profileService,
			MediaService:         mediaService,
			AttendanceService:    attendanceService,
			AttendanceExporter:   attendanceExporter,
			AnnouncementService:  announcementService,
			ProgramService:       programService,
			SermonService:        sermonService,
			DonationService:      donationService,
			PrayerService:        prayerService,
			TestimonyService:     testimonyService,
			MemberService:        memberService,
			DashboardService:     dashboardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
