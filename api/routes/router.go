package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gracechapel-dev/churchhub-backend/api/controllers"
	"github.com/gracechapel-dev/churchhub-backend/api/middleware"
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
	"github.com/gracechapel-dev/churchhub-backend/pkg/logger"
	"github.com/gracechapel-dev/churchhub-backend/pkg/metrics"
	"github.com/gracechapel-dev/churchhub-backend/pkg/redis"
	"github.com/gracechapel-dev/churchhub-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	GCS      gcs.Pinger
	Metrics  *metrics.HTTPMetrics
	Sessions sessionManager

	UsersRepo *users.Repository

	AuthService          auth.Service
	RegisterService      auth.RegisterService
	PasswordResetService auth.PasswordResetService
	ProfileService       profiles.Service
	MediaService         media.Service
	AttendanceService    attendance.Service
	AttendanceExporter   attendance.Exporter
	AnnouncementService  announcements.Service
	ProgramService       programs.Service
	SermonService        sermons.Service
	DonationService      donations.Service
	PrayerService        prayers.Service
	TestimonyService     testimonies.Service
	MemberService        members.Service
	DashboardService     dashboard.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
		r.Post("/password-reset/request", controllers.AuthPasswordResetRequest(deps.PasswordResetService, logg))
		r.Post("/password-reset/confirm", controllers.AuthPasswordResetConfirm(deps.PasswordResetService, logg))
	})

	// Public content feeds need no session.
	r.Route("/api/v1/content", func(r chi.Router) {
		r.Get("/announcements", controllers.AnnouncementsList(deps.AnnouncementService, logg))
		r.Get("/announcements/{announcementId}", controllers.AnnouncementsGet(deps.AnnouncementService, logg))
		r.Get("/programs", controllers.ProgramsList(deps.ProgramService, logg))
		r.Get("/programs/{programId}", controllers.ProgramsGet(deps.ProgramService, logg))
		r.Get("/sermons", controllers.SermonsList(deps.SermonService, logg))
		r.Get("/sermons/{sermonId}", controllers.SermonsGet(deps.SermonService, logg))
		r.Get("/testimonies", controllers.TestimoniesList(deps.TestimonyService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.MeFetch(deps.ProfileService, logg))
			r.Patch("/", controllers.MeUpdate(deps.ProfileService, logg))
			r.Post("/photo/presign", controllers.MePhotoPresign(deps.MediaService, logg))
			r.Post("/photo/adopt", controllers.MePhotoAdopt(deps.ProfileService, logg))
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/events", controllers.AttendanceEvents(deps.AttendanceService, logg))
			r.Post("/check-in", controllers.AttendanceCheckIn(deps.AttendanceService, deps.UsersRepo, deps.Metrics, logg))
		})

		r.Route("/donations", func(r chi.Router) {
			r.Post("/initiate", controllers.DonationsInitiate(deps.DonationService, deps.UsersRepo, logg))
			r.Post("/verify", controllers.DonationsVerify(deps.DonationService, logg))
			r.Get("/history", controllers.DonationsHistory(deps.DonationService, logg))
		})

		r.Route("/prayers", func(r chi.Router) {
			r.Get("/", controllers.PrayersList(deps.PrayerService, logg))
			r.Post("/", controllers.PrayersSubmit(deps.PrayerService, deps.UsersRepo, logg))
			r.Post("/{requestId}/pray", controllers.PrayersTogglePray(deps.PrayerService, logg))
		})

		r.Post("/testimonies", controllers.TestimoniesSubmit(deps.TestimonyService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/ping", controllers.AdminPing())
		r.Get("/dashboard", controllers.AdminDashboardStats(deps.DashboardService, logg))

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.AdminAttendanceList(deps.AttendanceService, logg))
			r.Post("/", controllers.AdminAttendanceCreate(deps.AttendanceService, logg))
			r.Get("/{eventId}", controllers.AdminAttendanceGet(deps.AttendanceService, logg))
			r.Post("/{eventId}/end", controllers.AdminAttendanceEnd(deps.AttendanceService, logg))
			r.Delete("/{eventId}", controllers.AdminAttendanceDelete(deps.AttendanceService, logg))
			r.Get("/{eventId}/export", controllers.AdminAttendanceExport(deps.AttendanceExporter, logg))
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Post("/", controllers.AdminAnnouncementsCreate(deps.AnnouncementService, logg))
			r.Patch("/{announcementId}", controllers.AdminAnnouncementsUpdate(deps.AnnouncementService, logg))
			r.Delete("/{announcementId}", controllers.AdminAnnouncementsDelete(deps.AnnouncementService, logg))
		})

		r.Route("/programs", func(r chi.Router) {
			r.Post("/", controllers.AdminProgramsCreate(deps.ProgramService, logg))
			r.Patch("/{programId}", controllers.AdminProgramsUpdate(deps.ProgramService, logg))
			r.Delete("/{programId}", controllers.AdminProgramsDelete(deps.ProgramService, logg))
		})

		r.Route("/sermons", func(r chi.Router) {
			r.Post("/", controllers.AdminSermonsCreate(deps.SermonService, logg))
			r.Patch("/{sermonId}", controllers.AdminSermonsUpdate(deps.SermonService, logg))
			r.Delete("/{sermonId}", controllers.AdminSermonsDelete(deps.SermonService, logg))
			r.Post("/{sermonId}/media/presign", controllers.AdminSermonsMediaPresign(deps.MediaService, logg))
			r.Post("/{sermonId}/media/adopt", controllers.AdminSermonsMediaAdopt(deps.SermonService, logg))
		})

		r.Route("/donations", func(r chi.Router) {
			r.Get("/", controllers.AdminDonationsList(deps.DonationService, logg))
		})

		r.Route("/prayers", func(r chi.Router) {
			r.Delete("/{requestId}", controllers.AdminPrayersDelete(deps.PrayerService, logg))
		})

		r.Route("/testimonies", func(r chi.Router) {
			r.Get("/pending", controllers.AdminTestimoniesPending(deps.TestimonyService, logg))
			r.Post("/{testimonyId}/approve", controllers.AdminTestimoniesApprove(deps.TestimonyService, logg))
			r.Delete("/{testimonyId}", controllers.AdminTestimoniesDelete(deps.TestimonyService, logg))
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/", controllers.AdminMembersList(deps.MemberService, logg))
			r.Get("/{memberId}", controllers.AdminMembersGet(deps.MemberService, logg))
			r.Post("/{memberId}/deactivate", controllers.AdminMembersDeactivate(deps.MemberService, logg))
			r.Post("/{memberId}/reactivate", controllers.AdminMembersReactivate(deps.MemberService, logg))

			// Role changes carry a stricter gate than directory reads.
			r.With(middleware.RequireSuperadmin(logg)).Post("/{memberId}/role", controllers.AdminMembersChangeRole(deps.MemberService, logg))
		})
	})

	return r
}
