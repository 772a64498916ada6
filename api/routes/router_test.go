package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

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
	pkgAuth "github.com/gracechapel-dev/churchhub-backend/pkg/auth"
	"github.com/gracechapel-dev/churchhub-backend/pkg/auth/session"
	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	"github.com/gracechapel-dev/churchhub-backend/pkg/logger"
	"github.com/gracechapel-dev/churchhub-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

type stubPasswordResetService struct{}

func (stubPasswordResetService) RequestReset(ctx context.Context, req auth.PasswordResetRequest) error {
	panic("unimplemented")
}

func (stubPasswordResetService) ConfirmReset(ctx context.Context, req auth.PasswordResetConfirmRequest) error {
	panic("unimplemented")
}

type stubProfileService struct{}

func (stubProfileService) Fetch(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubProfileService) Update(ctx context.Context, userID uuid.UUID, req profiles.UpdateRequest) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubProfileService) AdoptPhoto(ctx context.Context, userID uuid.UUID, photoURL string) (*users.UserDTO, error) {
	panic("unimplemented")
}

type stubMediaService struct{}

func (stubMediaService) PresignUpload(ctx context.Context, kind media.Kind, ownerID uuid.UUID, req media.PresignRequest) (*media.PresignResponse, error) {
	panic("unimplemented")
}

func (stubMediaService) SignedDownloadURL(ctx context.Context, objectPath string) (string, error) {
	panic("unimplemented")
}

func (stubMediaService) DeleteObject(ctx context.Context, objectPath string) error {
	panic("unimplemented")
}

type stubAttendanceService struct{}

func (stubAttendanceService) CreateEvent(ctx context.Context, createdBy uuid.UUID, req attendance.CreateEventRequest) (*attendance.EventDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) CheckIn(ctx context.Context, member attendance.MemberIdentity, req attendance.CheckInRequest) (*attendance.CheckInResponse, error) {
	panic("unimplemented")
}

func (stubAttendanceService) EndEvent(ctx context.Context, id uuid.UUID) (*attendance.EventDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubAttendanceService) GetEvent(ctx context.Context, id uuid.UUID) (*attendance.EventDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) ListEvents(ctx context.Context, limit, offset int) ([]attendance.EventDTO, error) {
	return []attendance.EventDTO{}, nil
}

func (stubAttendanceService) ListEventsForMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]attendance.MemberEventDTO, error) {
	return []attendance.MemberEventDTO{}, nil
}

type stubExporter struct{}

func (stubExporter) ExportRoster(ctx context.Context, eventID uuid.UUID, w io.Writer) (string, error) {
	panic("unimplemented")
}

type stubAnnouncementService struct{}

func (stubAnnouncementService) Create(ctx context.Context, createdBy uuid.UUID, req announcements.CreateAnnouncementRequest) (*announcements.AnnouncementDTO, error) {
	panic("unimplemented")
}

func (stubAnnouncementService) Update(ctx context.Context, id uuid.UUID, req announcements.UpdateAnnouncementRequest) (*announcements.AnnouncementDTO, error) {
	panic("unimplemented")
}

func (stubAnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubAnnouncementService) Get(ctx context.Context, id uuid.UUID) (*announcements.AnnouncementDTO, error) {
	panic("unimplemented")
}

func (stubAnnouncementService) List(ctx context.Context, limit, offset int) ([]announcements.AnnouncementDTO, error) {
	return []announcements.AnnouncementDTO{}, nil
}

type stubProgramService struct{}

func (stubProgramService) Create(ctx context.Context, createdBy uuid.UUID, req programs.CreateProgramRequest) (*programs.ProgramDTO, error) {
	panic("unimplemented")
}

func (stubProgramService) Update(ctx context.Context, id uuid.UUID, req programs.UpdateProgramRequest) (*programs.ProgramDTO, error) {
	panic("unimplemented")
}

func (stubProgramService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubProgramService) Get(ctx context.Context, id uuid.UUID) (*programs.ProgramDTO, error) {
	panic("unimplemented")
}

func (stubProgramService) List(ctx context.Context, limit, offset int) ([]programs.ProgramDTO, error) {
	return []programs.ProgramDTO{}, nil
}

type stubSermonService struct{}

func (stubSermonService) Create(ctx context.Context, createdBy uuid.UUID, req sermons.CreateSermonRequest) (*sermons.SermonDTO, error) {
	panic("unimplemented")
}

func (stubSermonService) Update(ctx context.Context, id uuid.UUID, req sermons.UpdateSermonRequest) (*sermons.SermonDTO, error) {
	panic("unimplemented")
}

func (stubSermonService) AdoptMedia(ctx context.Context, id uuid.UUID, mediaURL string) (*sermons.SermonDTO, error) {
	panic("unimplemented")
}

func (stubSermonService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubSermonService) Get(ctx context.Context, id uuid.UUID) (*sermons.SermonDTO, error) {
	panic("unimplemented")
}

func (stubSermonService) List(ctx context.Context, limit, offset int) ([]sermons.SermonDTO, error) {
	return []sermons.SermonDTO{}, nil
}

type stubDonationService struct{}

func (stubDonationService) Initiate(ctx context.Context, giver donations.Giver, req donations.InitiateRequest) (*donations.InitiateResponse, error) {
	panic("unimplemented")
}

func (stubDonationService) Verify(ctx context.Context, req donations.VerifyRequest) (*donations.DonationDTO, error) {
	panic("unimplemented")
}

func (stubDonationService) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]donations.DonationDTO, error) {
	return []donations.DonationDTO{}, nil
}

func (stubDonationService) ListAll(ctx context.Context, status string, limit, offset int) ([]donations.DonationDTO, error) {
	return []donations.DonationDTO{}, nil
}

type stubPrayerService struct{}

func (stubPrayerService) Submit(ctx context.Context, author prayers.Author, req prayers.SubmitRequest) (*prayers.RequestDTO, error) {
	panic("unimplemented")
}

func (stubPrayerService) List(ctx context.Context, limit, offset int) ([]prayers.RequestDTO, error) {
	return []prayers.RequestDTO{}, nil
}

func (stubPrayerService) TogglePray(ctx context.Context, requestID, userID uuid.UUID) (*prayers.ToggleResponse, error) {
	panic("unimplemented")
}

func (stubPrayerService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubTestimonyService struct{}

func (stubTestimonyService) Submit(ctx context.Context, userID uuid.UUID, req testimonies.SubmitRequest) (*testimonies.TestimonyDTO, error) {
	panic("unimplemented")
}

func (stubTestimonyService) ListApproved(ctx context.Context, limit, offset int) ([]testimonies.TestimonyDTO, error) {
	return []testimonies.TestimonyDTO{}, nil
}

func (stubTestimonyService) ListPending(ctx context.Context, limit, offset int) ([]testimonies.TestimonyDTO, error) {
	return []testimonies.TestimonyDTO{}, nil
}

func (stubTestimonyService) Approve(ctx context.Context, id uuid.UUID) (*testimonies.TestimonyDTO, error) {
	panic("unimplemented")
}

func (stubTestimonyService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubMemberService struct{}

func (stubMemberService) List(ctx context.Context, query string, limit, offset int) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (stubMemberService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubMemberService) ChangeRole(ctx context.Context, actor members.Actor, memberID uuid.UUID, req members.ChangeRoleRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: memberID}, nil
}

func (stubMemberService) Deactivate(ctx context.Context, actor members.Actor, memberID uuid.UUID) error {
	panic("unimplemented")
}

func (stubMemberService) Reactivate(ctx context.Context, actor members.Actor, memberID uuid.UUID) error {
	panic("unimplemented")
}

type stubDashboardService struct{}

func (stubDashboardService) Stats(ctx context.Context) (*dashboard.Stats, error) {
	return &dashboard.Stats{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Dependencies{
		Config:               cfg,
		Logger:               logg,
		DB:                   stubPinger{},
		Redis:                (*redis.Client)(nil),
		GCS:                  stubPinger{},
		Sessions:             stubSessionManager{},
		AuthService:          stubAuthService{},
		RegisterService:      stubRegisterService{},
		PasswordResetService: stubPasswordResetService{},
		ProfileService:       stubProfileService{},
		MediaService:         stubMediaService{},
		AttendanceService:    stubAttendanceService{},
		AttendanceExporter:   stubExporter{},
		AnnouncementService:  stubAnnouncementService{},
		ProgramService:       stubProgramService{},
		SermonService:        stubSermonService{},
		DonationService:      stubDonationService{},
		PrayerService:        stubPrayerService{},
		TestimonyService:     stubTestimonyService{},
		MemberService:        stubMemberService{},
		DashboardService:     stubDashboardService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	payload := pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	}
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMember))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMember))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestRoleChangeRequiresSuperadmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/admin/v1/members/" + uuid.NewString() + "/role"
	body := `{"role":"admin"}`

	asAdmin := httptest.NewRequest(http.MethodPost, target, nil)
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin role change got %d", resp.Code)
	}

	asSuper := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	asSuper.Header.Set("Content-Type", "application/json")
	asSuper.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSuperadmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asSuper)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for superadmin role change got %d", resp.Code)
	}
}

func TestPublicContentNeedsNoSession(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/v1/content/announcements",
		"/api/v1/content/programs",
		"/api/v1/content/sermons",
		"/api/v1/content/testimonies",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-ChurchHub-Env"); got != "test" {
		t.Fatalf("expected env header got %q", got)
	}
}
