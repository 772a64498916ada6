package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/api/middleware"
	"github.com/gracechapel-dev/churchhub-backend/internal/attendance"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

type stubAttendanceService struct {
	checkIn    *attendance.CheckInResponse
	checkInErr error
	gotMember  attendance.MemberIdentity
	gotCode    string
	listCalls  int
	gotLimit   int
	gotOffset  int
}

func (s *stubAttendanceService) CreateEvent(ctx context.Context, createdBy uuid.UUID, req attendance.CreateEventRequest) (*attendance.EventDTO, error) {
	return nil, nil
}

func (s *stubAttendanceService) CheckIn(ctx context.Context, member attendance.MemberIdentity, req attendance.CheckInRequest) (*attendance.CheckInResponse, error) {
	s.gotMember = member
	s.gotCode = req.Code
	return s.checkIn, s.checkInErr
}

func (s *stubAttendanceService) EndEvent(ctx context.Context, id uuid.UUID) (*attendance.EventDTO, error) {
	return nil, nil
}

func (s *stubAttendanceService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubAttendanceService) GetEvent(ctx context.Context, id uuid.UUID) (*attendance.EventDTO, error) {
	return nil, nil
}

func (s *stubAttendanceService) ListEvents(ctx context.Context, limit, offset int) ([]attendance.EventDTO, error) {
	s.listCalls++
	s.gotLimit = limit
	s.gotOffset = offset
	return []attendance.EventDTO{}, nil
}

func (s *stubAttendanceService) ListEventsForMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]attendance.MemberEventDTO, error) {
	s.listCalls++
	s.gotLimit = limit
	s.gotOffset = offset
	return []attendance.MemberEventDTO{}, nil
}

type stubMemberLoader struct {
	user *models.User
	err  error
}

func (s stubMemberLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

type stubExporter struct {
	filename string
	body     string
	err      error
}

func (s stubExporter) ExportRoster(ctx context.Context, eventID uuid.UUID, w io.Writer) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.WriteString(w, s.body); err != nil {
		return "", err
	}
	return s.filename, nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAttendanceCheckInSuccess(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()
	svc := &stubAttendanceService{checkIn: &attendance.CheckInResponse{
		EventID:     eventID,
		EventTitle:  "Sunday Service",
		CheckedInAt: time.Now().UTC(),
	}}
	user := &models.User{ID: userID, Email: "ada@gracechapel.dev", FullName: "Ada Obi"}

	handler := AttendanceCheckIn(svc, stubMemberLoader{user: user}, nil, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/attendance/check-in", `{"code":"483920"}`, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotCode != "483920" {
		t.Fatalf("expected code forwarded got %s", svc.gotCode)
	}
	if svc.gotMember.ID != userID || svc.gotMember.Name != "Ada Obi" {
		t.Fatalf("expected member identity forwarded got %+v", svc.gotMember)
	}

	var envelope struct {
		Data attendance.CheckInResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.EventID != eventID {
		t.Fatalf("expected event id in payload got %s", envelope.Data.EventID)
	}
}

func TestAttendanceCheckInRejectsShortCode(t *testing.T) {
	svc := &stubAttendanceService{}
	handler := AttendanceCheckIn(svc, stubMemberLoader{user: &models.User{ID: uuid.New()}}, nil, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/attendance/check-in", `{"code":"123"}`, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.gotCode != "" {
		t.Fatal("expected service untouched for malformed code")
	}
}

func TestAttendanceCheckInRequiresUserContext(t *testing.T) {
	handler := AttendanceCheckIn(&stubAttendanceService{}, stubMemberLoader{}, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", strings.NewReader(`{"code":"483920"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAttendanceCheckInSurfacesInvalidCode(t *testing.T) {
	svc := &stubAttendanceService{checkInErr: pkgerrors.New(pkgerrors.CodeInvalidCode, "invalid or expired code")}
	user := &models.User{ID: uuid.New(), FullName: "Ada Obi"}
	handler := AttendanceCheckIn(svc, stubMemberLoader{user: user}, nil, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/attendance/check-in", `{"code":"000000"}`, user.ID))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInvalidCode) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestAdminAttendanceExportStreamsCSV(t *testing.T) {
	exp := stubExporter{
		filename: "attendance-2025-09-07-roster.csv",
		body:     "name,email,checked_in_at\nAda Obi,ada@gracechapel.dev,2025-09-07T09:15:00Z\n",
	}
	handler := AdminAttendanceExport(exp, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/events/export", nil), "eventId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv got %s", got)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, exp.filename) {
		t.Fatalf("expected filename in disposition got %s", got)
	}
	if !strings.Contains(resp.Body.String(), "Ada Obi") {
		t.Fatalf("expected roster rows in body got %s", resp.Body.String())
	}
}

func TestAdminAttendanceExportNotFound(t *testing.T) {
	exp := stubExporter{err: pkgerrors.New(pkgerrors.CodeNotFound, "event not found")}
	handler := AdminAttendanceExport(exp, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/events/export", nil), "eventId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("expected json error got %s", got)
	}
}

func TestAdminAttendanceListRejectsBadLimit(t *testing.T) {
	svc := &stubAttendanceService{}
	handler := AdminAttendanceList(svc, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/v1/events?limit=abc", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.listCalls != 0 {
		t.Fatal("expected service untouched for malformed limit")
	}
}

func TestAdminAttendanceListDefaultsToFullHistory(t *testing.T) {
	svc := &stubAttendanceService{}
	handler := AdminAttendanceList(svc, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/v1/events", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listCalls != 1 {
		t.Fatalf("expected one list call, got %d", svc.listCalls)
	}
	if svc.gotLimit != 0 || svc.gotOffset != 0 {
		t.Fatalf("expected uncapped listing, got limit=%d offset=%d", svc.gotLimit, svc.gotOffset)
	}
}

func TestAttendanceEventsDefaultsToFullHistory(t *testing.T) {
	svc := &stubAttendanceService{}
	handler := AttendanceEvents(svc, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/attendance/events", "", uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotLimit != 0 {
		t.Fatalf("expected uncapped listing, got limit=%d", svc.gotLimit)
	}
}
