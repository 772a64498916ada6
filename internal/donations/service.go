package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
	"github.com/gracechapel-dev/churchhub-backend/pkg/flutterwave"
	"github.com/gracechapel-dev/churchhub-backend/pkg/paystack"
)

const defaultCurrency = "NGN"

// Giver is the donating member's provider-facing identity.
type Giver struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Service defines the donation operations used by the controllers.
type Service interface {
	Initiate(ctx context.Context, giver Giver, req InitiateRequest) (*InitiateResponse, error)
	Verify(ctx context.Context, req VerifyRequest) (*DonationDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]DonationDTO, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]DonationDTO, error)
}

type donationRepository interface {
	Create(ctx context.Context, d *models.Donation) error
	FindByReference(ctx context.Context, reference string) (*models.Donation, error)
	Settle(ctx context.Context, reference string, status enums.DonationStatus, at time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Donation, error)
	ListAll(ctx context.Context, status enums.DonationStatus, limit, offset int) ([]models.Donation, error)
}

type paystackGateway interface {
	InitializeTransaction(ctx context.Context, params paystack.InitializeParams) (*paystack.InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyResult, error)
}

type flutterwaveGateway interface {
	InitializePayment(ctx context.Context, params flutterwave.InitializeParams) (*flutterwave.InitializeResult, error)
	VerifyPayment(ctx context.Context, reference string) (*flutterwave.VerifyResult, error)
}

type service struct {
	repo        donationRepository
	paystack    paystackGateway
	flutterwave flutterwaveGateway
	redirectURL string
	now         func() time.Time
}

// ServiceParams bundles the donation service dependencies.
type ServiceParams struct {
	Repo        donationRepository
	Paystack    paystackGateway
	Flutterwave flutterwaveGateway
	RedirectURL string
}

// NewService constructs the donations service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("donation repository is required")
	}
	if params.Paystack == nil || params.Flutterwave == nil {
		return nil, fmt.Errorf("both payment gateways are required")
	}
	return &service{
		repo:        params.Repo,
		paystack:    params.Paystack,
		flutterwave: params.Flutterwave,
		redirectURL: params.RedirectURL,
		now:         time.Now,
	}, nil
}

// Initiate records a pending donation and opens the provider checkout.
// The local row is written first so a provider failure never leaves an
// untracked charge.
func (s *service) Initiate(ctx context.Context, giver Giver, req InitiateRequest) (*InitiateResponse, error) {
	if giver.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing member identity")
	}
	provider, err := enums.ParsePaymentProvider(req.Provider)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider must be paystack or flutterwave")
	}
	category, err := enums.ParseDonationCategory(req.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown donation category")
	}
	if !req.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	reference := s.newReference(giver.ID)
	donation := &models.Donation{
		UserID:    giver.ID,
		Category:  category,
		Provider:  provider,
		Reference: reference,
		Amount:    req.Amount,
		Currency:  currency,
		Status:    enums.DonationStatusPending,
	}
	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record donation")
	}

	checkoutURL, err := s.openCheckout(ctx, provider, giver, donation)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open provider checkout")
	}

	return &InitiateResponse{
		DonationID:  donation.ID,
		Reference:   reference,
		CheckoutURL: checkoutURL,
	}, nil
}

func (s *service) openCheckout(ctx context.Context, provider enums.PaymentProvider, giver Giver, d *models.Donation) (string, error) {
	switch provider {
	case enums.PaymentProviderPaystack:
		result, err := s.paystack.InitializeTransaction(ctx, paystack.InitializeParams{
			Email:     giver.Email,
			Amount:    d.Amount,
			Currency:  d.Currency,
			Reference: d.Reference,
		})
		if err != nil {
			return "", err
		}
		return result.AuthorizationURL, nil
	case enums.PaymentProviderFlutterwave:
		result, err := s.flutterwave.InitializePayment(ctx, flutterwave.InitializeParams{
			Email:       giver.Email,
			Name:        giver.Name,
			Amount:      d.Amount,
			Currency:    d.Currency,
			Reference:   d.Reference,
			RedirectURL: s.redirectURL,
		})
		if err != nil {
			return "", err
		}
		return result.PaymentLink, nil
	}
	return "", fmt.Errorf("unsupported provider %q", provider)
}

// Verify asks the provider whether the charge settled and records the
// terminal status. Only the server-side answer counts; the client's
// redirect parameters are never trusted.
func (s *service) Verify(ctx context.Context, req VerifyRequest) (*DonationDTO, error) {
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}

	donation, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load donation")
	}
	if donation.Status != enums.DonationStatusPending {
		return fromModel(donation), nil
	}

	succeeded, amount, err := s.verifyWithProvider(ctx, donation)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify with provider")
	}

	status := enums.DonationStatusFailed
	if succeeded && amount.Equal(donation.Amount) {
		status = enums.DonationStatusSucceeded
	}
	now := s.now().UTC()
	if err := s.repo.Settle(ctx, reference, status, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settle donation")
	}
	donation.Status = status
	donation.VerifiedAt = &now
	return fromModel(donation), nil
}

func (s *service) verifyWithProvider(ctx context.Context, d *models.Donation) (bool, decimal.Decimal, error) {
	switch d.Provider {
	case enums.PaymentProviderPaystack:
		result, err := s.paystack.VerifyTransaction(ctx, d.Reference)
		if err != nil {
			return false, decimal.Zero, err
		}
		return result.Succeeded(), result.Amount, nil
	case enums.PaymentProviderFlutterwave:
		result, err := s.flutterwave.VerifyPayment(ctx, d.Reference)
		if err != nil {
			return false, decimal.Zero, err
		}
		return result.Succeeded(), result.Amount, nil
	}
	return false, decimal.Zero, fmt.Errorf("unsupported provider %q", d.Provider)
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]DonationDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list donations")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAll(ctx context.Context, status string, limit, offset int) ([]DonationDTO, error) {
	var filter enums.DonationStatus
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		parsed := enums.DonationStatus(trimmed)
		if !parsed.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown donation status")
		}
		filter = parsed
	}
	rows, err := s.repo.ListAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list donations")
	}
	return toDTOs(rows), nil
}

// newReference builds the provider reference. The timestamp prefix
// keeps references sortable; the user suffix makes ownership auditable
// from the reference alone.
func (s *service) newReference(userID uuid.UUID) string {
	return fmt.Sprintf("%d-%s", s.now().UnixMilli(), userID)
}

func toDTOs(rows []models.Donation) []DonationDTO {
	out := make([]DonationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out
}
