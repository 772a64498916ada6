package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

// Stats is the admin overview snapshot.
type Stats struct {
	Members            int64           `json:"members"`
	ActiveEvents       int64           `json:"active_events"`
	TotalCheckins      int64           `json:"total_checkins"`
	DonationsTotal     decimal.Decimal `json:"donations_total"`
	PendingTestimonies int64           `json:"pending_testimonies"`
}

type memberCounter interface {
	Count(ctx context.Context) (int64, error)
}

type eventCounter interface {
	CountActiveEvents(ctx context.Context) (int64, error)
	CountAttendees(ctx context.Context) (int64, error)
}

type donationSummer interface {
	SumSucceeded(ctx context.Context) (decimal.Decimal, error)
}

type testimonyCounter interface {
	CountByStatus(ctx context.Context, status enums.TestimonyStatus) (int64, error)
}

// Service assembles the admin overview.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	members     memberCounter
	events      eventCounter
	donations   donationSummer
	testimonies testimonyCounter
}

// ServiceParams bundles the dashboard dependencies.
type ServiceParams struct {
	Members     memberCounter
	Events      eventCounter
	Donations   donationSummer
	Testimonies testimonyCounter
}

// NewService constructs the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Members == nil || params.Events == nil || params.Donations == nil || params.Testimonies == nil {
		return nil, fmt.Errorf("all dashboard repositories are required")
	}
	return &service{
		members:     params.Members,
		events:      params.Events,
		donations:   params.Donations,
		testimonies: params.Testimonies,
	}, nil
}

// Stats gathers each count concurrently. Failures are accumulated so
// one slow or broken table reports every problem at once instead of
// the first.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		mu    sync.Mutex
		wg    sync.WaitGroup
		errs  error
	)

	collect := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}()
	}

	collect(func() error {
		n, err := s.members.Count(ctx)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		mu.Lock()
		stats.Members = n
		mu.Unlock()
		return nil
	})
	collect(func() error {
		n, err := s.events.CountActiveEvents(ctx)
		if err != nil {
			return fmt.Errorf("count active events: %w", err)
		}
		mu.Lock()
		stats.ActiveEvents = n
		mu.Unlock()
		return nil
	})
	collect(func() error {
		n, err := s.events.CountAttendees(ctx)
		if err != nil {
			return fmt.Errorf("count check-ins: %w", err)
		}
		mu.Lock()
		stats.TotalCheckins = n
		mu.Unlock()
		return nil
	})
	collect(func() error {
		total, err := s.donations.SumSucceeded(ctx)
		if err != nil {
			return fmt.Errorf("sum donations: %w", err)
		}
		mu.Lock()
		stats.DonationsTotal = total
		mu.Unlock()
		return nil
	})
	collect(func() error {
		n, err := s.testimonies.CountByStatus(ctx, enums.TestimonyStatusPending)
		if err != nil {
			return fmt.Errorf("count pending testimonies: %w", err)
		}
		mu.Lock()
		stats.PendingTestimonies = n
		mu.Unlock()
		return nil
	})

	wg.Wait()
	if errs != nil {
		// Error() renders only code and message, so the aggregate has
		// to ride in the message.
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, errs, "assemble dashboard: "+errs.Error())
	}
	return &stats, nil
}
