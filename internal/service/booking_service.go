package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-booking/internal/domain"
	"github.com/spec-kit/event-booking/internal/events"
	"github.com/spec-kit/event-booking/internal/provider"
	"github.com/spec-kit/event-booking/internal/qr"
	"github.com/spec-kit/event-booking/internal/repository"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// BookingService drives the reservation and payment workflow. Inventory is
// reserved at booking creation and released only on confirmed cancellation or
// expiry; no locks are held across payment provider calls.
type BookingService struct {
	bookings    repository.BookingRepository
	ticketTypes repository.TicketTypeRepository
	eventsRepo  repository.EventRepository
	payments    repository.PaymentRepository
	payment     provider.PaymentClient
	signer      *qr.Signer
	currency    string
	dispatcher  events.Dispatcher
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	BookingRepo    repository.BookingRepository
	TicketTypeRepo repository.TicketTypeRepository
	EventRepo      repository.EventRepository
	PaymentRepo    repository.PaymentRepository
	PaymentClient  provider.PaymentClient
	Signer         *qr.Signer
	Currency       string
	Dispatcher     events.Dispatcher
}

// ReserveInput describes a booking request.
type ReserveInput struct {
	EventID      string
	TicketTypeID string
	Quantity     int
}

// ReserveResult is the outcome of a reservation.
type ReserveResult struct {
	Booking         *domain.Booking
	RequiresPayment bool
}

// CheckoutResult is the outcome of initiating payment.
type CheckoutResult struct {
	SessionID string
	URL       string
}

// PaymentResolution reports the provider status after a resolution attempt.
type PaymentResolution struct {
	Status        string
	PaymentStatus string
	BookingStatus domain.BookingStatus
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		bookings:    deps.BookingRepo,
		ticketTypes: deps.TicketTypeRepo,
		eventsRepo:  deps.EventRepo,
		payments:    deps.PaymentRepo,
		payment:     deps.PaymentClient,
		signer:      deps.Signer,
		currency:    deps.Currency,
		dispatcher:  deps.Dispatcher,
	}
}

// Reserve atomically reserves inventory and creates the booking. Free ticket
// types confirm immediately; paid ones await checkout.
func (s *BookingService) Reserve(ctx context.Context, buyerID string, input ReserveInput) (*ReserveResult, error) {
	if input.Quantity < 1 {
		return nil, apperrors.NewValidationError("quantity must be at least 1",
			map[string]any{"quantity": input.Quantity})
	}

	event, err := s.eventsRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": input.EventID})
		}
		return nil, err
	}
	if event.Status != domain.EventStatusActive {
		return nil, apperrors.NewNotFound("event", map[string]any{"event_id": input.EventID})
	}

	ticketType, err := s.ticketTypes.GetByID(ctx, input.TicketTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket type", map[string]any{"ticket_type_id": input.TicketTypeID})
		}
		return nil, err
	}
	if ticketType.EventID != event.ID {
		return nil, apperrors.NewNotFound("ticket type", map[string]any{"ticket_type_id": input.TicketTypeID})
	}

	booking := &domain.Booking{
		UserID:          buyerID,
		EventID:         event.ID,
		TicketTypeID:    ticketType.ID,
		Quantity:        input.Quantity,
		TotalPriceCents: ticketType.PriceCents * int64(input.Quantity),
		Status:          domain.BookingStatusPendingPayment,
	}
	if ticketType.Free() {
		booking.Status = domain.BookingStatusConfirmed
	}

	if err := s.bookings.CreateReserved(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrInventoryExhausted):
			return nil, apperrors.NewInventoryExhausted(map[string]any{
				"ticket_type_id": ticketType.ID,
				"requested":      input.Quantity,
				"remaining":      ticketType.Remaining(),
			})
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("ticket type", map[string]any{"ticket_type_id": input.TicketTypeID})
		default:
			return nil, err
		}
	}

	if booking.Status == domain.BookingStatusConfirmed {
		if err := s.attachQRToken(ctx, booking); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:    events.EventBookingCreated,
		ActorID: buyerID,
		Payload: events.BookingCreatedPayload{
			BookingID:       booking.ID,
			EventID:         booking.EventID,
			TicketTypeID:    booking.TicketTypeID,
			Quantity:        booking.Quantity,
			TotalPriceCents: booking.TotalPriceCents,
			Status:          booking.Status,
		},
	})

	return &ReserveResult{
		Booking:         booking,
		RequiresPayment: booking.Status == domain.BookingStatusPendingPayment,
	}, nil
}

// InitiateCheckout opens a checkout session for a pending booking and stores
// the session reference on it. Re-invoking replaces the prior session: the old
// transaction is marked superseded and can no longer move the booking, while
// the inventory reserved at Reserve time stays untouched.
func (s *BookingService) InitiateCheckout(ctx context.Context, requesterID, bookingID, origin string) (*CheckoutResult, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID {
		return nil, apperrors.NewForbidden("booking belongs to another user")
	}
	if booking.Status != domain.BookingStatusPendingPayment {
		return nil, apperrors.NewConflict("booking already processed",
			map[string]any{"status": string(booking.Status)})
	}

	session, err := s.payment.CreateCheckoutSession(ctx, provider.CreateSessionInput{
		AmountCents: booking.TotalPriceCents,
		Currency:    s.currency,
		SuccessURL:  origin + "/booking-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/events",
		Metadata: map[string]string{
			"booking_id": booking.ID,
			"user_id":    booking.UserID,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.payments.SupersedeInitiated(ctx, booking.ID); err != nil {
		return nil, err
	}
	txn := &domain.PaymentTransaction{
		SessionID:     session.SessionID,
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		AmountCents:   booking.TotalPriceCents,
		Currency:      s.currency,
		PaymentStatus: domain.PaymentStatusPending,
		Status:        domain.TransactionStatusInitiated,
		CheckoutURL:   session.URL,
	}
	if err := s.payments.Create(ctx, txn); err != nil {
		return nil, err
	}
	if err := s.bookings.SetPaymentSession(ctx, booking.ID, session.SessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The booking reached a terminal state while we were talking to the
			// provider; the fresh session is orphaned and harmless.
			return nil, apperrors.NewConflict("booking already processed", nil)
		}
		return nil, err
	}

	return &CheckoutResult{SessionID: session.SessionID, URL: session.URL}, nil
}

// ResolvePayment queries the provider for a session and converges the booking:
// paid confirms it, expired or canceled cancels it and releases inventory,
// anything else leaves it untouched for a later poll. Terminal resolutions are
// idempotent; a repeat call observes the guard in the repository and does
// nothing.
func (s *BookingService) ResolvePayment(ctx context.Context, sessionID string) (*PaymentResolution, error) {
	txn, err := s.payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("transaction", map[string]any{"session_id": sessionID})
		}
		return nil, err
	}

	booking, err := s.getBooking(ctx, txn.BookingID)
	if err != nil {
		return nil, err
	}

	// Short-circuit: this session already drove the booking to a terminal
	// state; repeat polls must not hit the provider again.
	if txn.PaymentStatus == domain.PaymentStatusPaid && booking.Status == domain.BookingStatusConfirmed {
		return &PaymentResolution{
			Status:        "complete",
			PaymentStatus: string(domain.PaymentStatusPaid),
			BookingStatus: booking.Status,
		}, nil
	}

	status, err := s.payment.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch status.PaymentStatus {
	case string(domain.PaymentStatusPaid):
		if err := s.payments.UpdateStatusBySession(ctx, sessionID, domain.PaymentStatusPaid, domain.TransactionStatusCompleted); err != nil {
			return nil, err
		}
		token, err := s.signer.Issue(booking.ID, booking.EventID)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		confirmed, err := s.bookings.Confirm(ctx, booking.ID, sessionID, token)
		if err != nil {
			return nil, err
		}
		if !confirmed {
			// The guard rejected the transition: the session no longer matches
			// the booking (superseded by a newer checkout) or the booking is
			// already terminal. Report the row as it stands rather than the
			// transition this call did not perform.
			return s.resolutionFromCurrent(ctx, booking.ID, status)
		}
		s.publish(ctx, events.Event{
			Type:    events.EventBookingConfirmed,
			ActorID: booking.UserID,
			Payload: events.BookingResolvedPayload{
				BookingID: booking.ID,
				EventID:   booking.EventID,
				SessionID: sessionID,
				NewStatus: domain.BookingStatusConfirmed,
			},
		})
		return &PaymentResolution{
			Status:        status.Status,
			PaymentStatus: status.PaymentStatus,
			BookingStatus: domain.BookingStatusConfirmed,
		}, nil

	case string(domain.PaymentStatusExpired), "canceled", "cancelled":
		if err := s.payments.UpdateStatusBySession(ctx, sessionID, domain.PaymentStatusExpired, domain.TransactionStatusExpired); err != nil {
			return nil, err
		}
		released, err := s.bookings.CancelAndRelease(ctx, booking.ID, sessionID)
		if err != nil {
			return nil, err
		}
		if !released {
			return s.resolutionFromCurrent(ctx, booking.ID, status)
		}
		s.publish(ctx, events.Event{
			Type:    events.EventBookingCancelled,
			ActorID: booking.UserID,
			Payload: events.BookingResolvedPayload{
				BookingID: booking.ID,
				EventID:   booking.EventID,
				SessionID: sessionID,
				NewStatus: domain.BookingStatusCancelled,
			},
		})
		return &PaymentResolution{
			Status:        status.Status,
			PaymentStatus: status.PaymentStatus,
			BookingStatus: domain.BookingStatusCancelled,
		}, nil
	}

	// Intermediate status: the caller polls again; the server never cancels on
	// a client timeout.
	return nil, apperrors.NewPaymentUnresolved(sessionID)
}

// resolutionFromCurrent re-reads the booking and reports its committed status,
// used when a guarded transition declined to run.
func (s *BookingService) resolutionFromCurrent(ctx context.Context, bookingID string, status *provider.CheckoutStatus) (*PaymentResolution, error) {
	current, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &PaymentResolution{
		Status:        status.Status,
		PaymentStatus: status.PaymentStatus,
		BookingStatus: current.Status,
	}, nil
}

// QRArtifact renders the entrance QR for a confirmed booking owned by the
// requester.
func (s *BookingService) QRArtifact(ctx context.Context, requesterID, bookingID string) ([]byte, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID {
		return nil, apperrors.NewForbidden("booking belongs to another user")
	}
	if booking.Status != domain.BookingStatusConfirmed || booking.QRToken == nil {
		return nil, apperrors.NewForbidden("booking not confirmed")
	}
	png, err := qr.RenderPNG(*booking.QRToken)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return png, nil
}

// MyBookings lists the caller's bookings with event and ticket type details.
func (s *BookingService) MyBookings(ctx context.Context, userID string) ([]domain.BookingWithDetails, error) {
	return s.bookings.ListByUserWithDetails(ctx, userID)
}

func (s *BookingService) getBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) attachQRToken(ctx context.Context, booking *domain.Booking) error {
	token, err := s.signer.Issue(booking.ID, booking.EventID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	booking.QRToken = &token
	return s.bookings.AttachQRToken(ctx, booking.ID, token)
}

func (s *BookingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
