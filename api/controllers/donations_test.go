package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gracechapel-dev/churchhub-backend/internal/donations"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

type stubDonationService struct {
	initiate *donations.InitiateResponse
	verify   *donations.DonationDTO
	err      error
	gotGiver donations.Giver
	gotReq   donations.InitiateRequest
}

func (s *stubDonationService) Initiate(ctx context.Context, giver donations.Giver, req donations.InitiateRequest) (*donations.InitiateResponse, error) {
	s.gotGiver = giver
	s.gotReq = req
	return s.initiate, s.err
}

func (s *stubDonationService) Verify(ctx context.Context, req donations.VerifyRequest) (*donations.DonationDTO, error) {
	return s.verify, s.err
}

func (s *stubDonationService) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]donations.DonationDTO, error) {
	return nil, s.err
}

func (s *stubDonationService) ListAll(ctx context.Context, status string, limit, offset int) ([]donations.DonationDTO, error) {
	return nil, s.err
}

func TestDonationsInitiateSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubDonationService{initiate: &donations.InitiateResponse{
		DonationID:  uuid.New(),
		Reference:   "1757200000000-" + userID.String(),
		CheckoutURL: "https://checkout.paystack.com/abc123",
	}}
	user := &models.User{ID: userID, Email: "ada@gracechapel.dev", FullName: "Ada Obi"}

	handler := DonationsInitiate(svc, stubMemberLoader{user: user}, nil)
	resp := httptest.NewRecorder()
	body := `{"provider":"paystack","category":"tithe","amount":"5000","currency":"NGN"}`
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/donations/initiate", body, userID))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotGiver.ID != userID || svc.gotGiver.Email != "ada@gracechapel.dev" {
		t.Fatalf("expected giver forwarded got %+v", svc.gotGiver)
	}
	if !svc.gotReq.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected amount forwarded got %s", svc.gotReq.Amount)
	}

	var envelope struct {
		Data donations.InitiateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CheckoutURL == "" {
		t.Fatal("expected checkout url in payload")
	}
}

func TestDonationsInitiateRequiresUserContext(t *testing.T) {
	handler := DonationsInitiate(&stubDonationService{}, stubMemberLoader{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/donations/initiate", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestDonationsVerifySuccess(t *testing.T) {
	svc := &stubDonationService{verify: &donations.DonationDTO{
		ID:        uuid.New(),
		Reference: "1757200000000-ref",
	}}
	handler := DonationsVerify(svc, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/donations/verify", `{"reference":"1757200000000-ref"}`, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDonationsVerifyRejectsMissingReference(t *testing.T) {
	handler := DonationsVerify(&stubDonationService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/donations/verify", `{}`, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
