package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-booking/internal/domain"
	"github.com/spec-kit/event-booking/internal/provider"
	"github.com/spec-kit/event-booking/internal/qr"
	"github.com/spec-kit/event-booking/internal/repository"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateReserved(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = "booking-1"
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUserWithDetails(ctx context.Context, userID string) ([]domain.BookingWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingWithDetails), args.Error(1)
}

func (m *MockBookingRepository) SetPaymentSession(ctx context.Context, bookingID, sessionID string) error {
	args := m.Called(ctx, bookingID, sessionID)
	return args.Error(0)
}

func (m *MockBookingRepository) Confirm(ctx context.Context, bookingID, sessionID, qrToken string) (bool, error) {
	args := m.Called(ctx, bookingID, sessionID, qrToken)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) CancelAndRelease(ctx context.Context, bookingID, sessionID string) (bool, error) {
	args := m.Called(ctx, bookingID, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) CancelAllForEvent(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) AttachQRToken(ctx context.Context, bookingID, token string) error {
	args := m.Called(ctx, bookingID, token)
	return args.Error(0)
}

type MockTicketTypeRepository struct {
	mock.Mock
}

func (m *MockTicketTypeRepository) Create(ctx context.Context, tt *domain.TicketType) error {
	args := m.Called(ctx, tt)
	return args.Error(0)
}

func (m *MockTicketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *MockTicketTypeRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.TicketType), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetWithCreator(ctx context.Context, id string) (*domain.EventWithCreator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventWithCreator), args.Error(1)
}

func (m *MockEventRepository) ListActive(ctx context.Context, filter repository.EventFilter) ([]domain.EventWithCreator, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.EventWithCreator), args.Error(1)
}

func (m *MockEventRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Event, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) MarkCancelled(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, txn *domain.PaymentTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatusBySession(ctx context.Context, sessionID string, paymentStatus domain.PaymentStatus, status domain.TransactionStatus) error {
	args := m.Called(ctx, sessionID, paymentStatus, status)
	return args.Error(0)
}

func (m *MockPaymentRepository) SupersedeInitiated(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

type MockPaymentClient struct {
	mock.Mock
}

func (m *MockPaymentClient) CreateCheckoutSession(ctx context.Context, input provider.CreateSessionInput) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *MockPaymentClient) GetSessionStatus(ctx context.Context, sessionID string) (*provider.CheckoutStatus, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutStatus), args.Error(1)
}

func newTestService(bookings *MockBookingRepository, tickets *MockTicketTypeRepository, events *MockEventRepository, payments *MockPaymentRepository, client *MockPaymentClient) *BookingService {
	return NewBookingService(BookingDependencies{
		BookingRepo:    bookings,
		TicketTypeRepo: tickets,
		EventRepo:      events,
		PaymentRepo:    payments,
		PaymentClient:  client,
		Signer:         qr.NewSigner("test-secret"),
		Currency:       "usd",
	})
}

func activeEvent() *domain.Event {
	return &domain.Event{ID: "event-1", CreatorID: "org-1", Status: domain.EventStatusActive}
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

func TestReserve_FreeTicketConfirmsImmediately(t *testing.T) {
	bookings := &MockBookingRepository{}
	tickets := &MockTicketTypeRepository{}
	events := &MockEventRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, tickets, events, payments, client)

	events.On("GetByID", mock.Anything, "event-1").Return(activeEvent(), nil)
	tickets.On("GetByID", mock.Anything, "tt-1").Return(&domain.TicketType{
		ID: "tt-1", EventID: "event-1", PriceCents: 0, QuantityAvailable: 10,
	}, nil)
	bookings.On("CreateReserved", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusConfirmed && b.TotalPriceCents == 0
	})).Return(nil)
	bookings.On("AttachQRToken", mock.Anything, "booking-1", mock.Anything).Return(nil)

	result, err := svc.Reserve(context.Background(), "user-1", ReserveInput{
		EventID: "event-1", TicketTypeID: "tt-1", Quantity: 2,
	})
	require.NoError(t, err)
	assert.False(t, result.RequiresPayment)
	assert.Equal(t, domain.BookingStatusConfirmed, result.Booking.Status)
	assert.NotNil(t, result.Booking.QRToken)

	// The payment client is never consulted for free tickets.
	client.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	bookings.AssertExpectations(t)
}

func TestReserve_PaidTicketAwaitsPayment(t *testing.T) {
	bookings := &MockBookingRepository{}
	tickets := &MockTicketTypeRepository{}
	events := &MockEventRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, tickets, events, payments, client)

	events.On("GetByID", mock.Anything, "event-1").Return(activeEvent(), nil)
	tickets.On("GetByID", mock.Anything, "tt-1").Return(&domain.TicketType{
		ID: "tt-1", EventID: "event-1", PriceCents: 2500, QuantityAvailable: 10,
	}, nil)
	bookings.On("CreateReserved", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusPendingPayment && b.TotalPriceCents == 7500
	})).Return(nil)

	result, err := svc.Reserve(context.Background(), "user-1", ReserveInput{
		EventID: "event-1", TicketTypeID: "tt-1", Quantity: 3,
	})
	require.NoError(t, err)
	assert.True(t, result.RequiresPayment)
	assert.Equal(t, domain.BookingStatusPendingPayment, result.Booking.Status)
	bookings.AssertNotCalled(t, "AttachQRToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserve_RejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(&MockBookingRepository{}, &MockTicketTypeRepository{}, &MockEventRepository{}, &MockPaymentRepository{}, &MockPaymentClient{})

	_, err := svc.Reserve(context.Background(), "user-1", ReserveInput{
		EventID: "event-1", TicketTypeID: "tt-1", Quantity: 0,
	})
	assertDomainErrorCode(t, err, "VALIDATION_FAILED")
}

func TestReserve_InventoryExhausted(t *testing.T) {
	bookings := &MockBookingRepository{}
	tickets := &MockTicketTypeRepository{}
	events := &MockEventRepository{}
	svc := newTestService(bookings, tickets, events, &MockPaymentRepository{}, &MockPaymentClient{})

	events.On("GetByID", mock.Anything, "event-1").Return(activeEvent(), nil)
	tickets.On("GetByID", mock.Anything, "tt-1").Return(&domain.TicketType{
		ID: "tt-1", EventID: "event-1", PriceCents: 2500, QuantityAvailable: 10, QuantitySold: 9,
	}, nil)
	bookings.On("CreateReserved", mock.Anything, mock.Anything).Return(repository.ErrInventoryExhausted)

	_, err := svc.Reserve(context.Background(), "user-1", ReserveInput{
		EventID: "event-1", TicketTypeID: "tt-1", Quantity: 2,
	})
	assertDomainErrorCode(t, err, "INVENTORY_EXHAUSTED")
}

func TestReserve_CancelledEventNotBookable(t *testing.T) {
	events := &MockEventRepository{}
	svc := newTestService(&MockBookingRepository{}, &MockTicketTypeRepository{}, events, &MockPaymentRepository{}, &MockPaymentClient{})

	events.On("GetByID", mock.Anything, "event-1").Return(&domain.Event{
		ID: "event-1", Status: domain.EventStatusCancelled,
	}, nil)

	_, err := svc.Reserve(context.Background(), "user-1", ReserveInput{
		EventID: "event-1", TicketTypeID: "tt-1", Quantity: 1,
	})
	assertDomainErrorCode(t, err, "NOT_FOUND")
}

func TestInitiateCheckout_SupersedesPriorSession(t *testing.T) {
	bookings := &MockBookingRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, client)

	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1", EventID: "event-1",
		TotalPriceCents: 5000, Status: domain.BookingStatusPendingPayment,
	}, nil)
	client.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(in provider.CreateSessionInput) bool {
		return in.AmountCents == 5000 && in.Metadata["booking_id"] == "booking-1"
	})).Return(&provider.CheckoutSession{SessionID: "sess-2", URL: "https://pay/sess-2"}, nil)
	payments.On("SupersedeInitiated", mock.Anything, "booking-1").Return(nil)
	payments.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.PaymentTransaction) bool {
		return txn.SessionID == "sess-2" && txn.Status == domain.TransactionStatusInitiated
	})).Return(nil)
	bookings.On("SetPaymentSession", mock.Anything, "booking-1", "sess-2").Return(nil)

	result, err := svc.InitiateCheckout(context.Background(), "user-1", "booking-1", "https://app.example.com")
	require.NoError(t, err)
	assert.Equal(t, "sess-2", result.SessionID)
	payments.AssertExpectations(t)
}

func TestInitiateCheckout_ForeignBookingForbidden(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, &MockPaymentRepository{}, &MockPaymentClient{})

	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "someone-else", Status: domain.BookingStatusPendingPayment,
	}, nil)

	_, err := svc.InitiateCheckout(context.Background(), "user-1", "booking-1", "https://app.example.com")
	assertDomainErrorCode(t, err, "FORBIDDEN")
}

func TestInitiateCheckout_TerminalBookingConflicts(t *testing.T) {
	bookings := &MockBookingRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, &MockPaymentRepository{}, client)

	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1", Status: domain.BookingStatusConfirmed,
	}, nil)

	_, err := svc.InitiateCheckout(context.Background(), "user-1", "booking-1", "https://app.example.com")
	assertDomainErrorCode(t, err, "CONFLICT")
	client.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestResolvePayment_PaidConfirmsBooking(t *testing.T) {
	bookings := &MockBookingRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, client)

	sessionID := "sess-1"
	payments.On("GetBySessionID", mock.Anything, sessionID).Return(&domain.PaymentTransaction{
		SessionID: sessionID, BookingID: "booking-1",
		PaymentStatus: domain.PaymentStatusPending, Status: domain.TransactionStatusInitiated,
	}, nil)
	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1", EventID: "event-1",
		Status: domain.BookingStatusPendingPayment, PaymentSessionID: &sessionID,
	}, nil)
	client.On("GetSessionStatus", mock.Anything, sessionID).Return(&provider.CheckoutStatus{
		Status: "complete", PaymentStatus: "paid",
	}, nil)
	payments.On("UpdateStatusBySession", mock.Anything, sessionID, domain.PaymentStatusPaid, domain.TransactionStatusCompleted).Return(nil)
	bookings.On("Confirm", mock.Anything, "booking-1", sessionID, mock.Anything).Return(true, nil)

	resolution, err := svc.ResolvePayment(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, resolution.BookingStatus)
	bookings.AssertExpectations(t)
}

func TestResolvePayment_SecondCallShortCircuits(t *testing.T) {
	bookings := &MockBookingRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, client)

	sessionID := "sess-1"
	payments.On("GetBySessionID", mock.Anything, sessionID).Return(&domain.PaymentTransaction{
		SessionID: sessionID, BookingID: "booking-1",
		PaymentStatus: domain.PaymentStatusPaid, Status: domain.TransactionStatusCompleted,
	}, nil)
	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", Status: domain.BookingStatusConfirmed, PaymentSessionID: &sessionID,
	}, nil)

	resolution, err := svc.ResolvePayment(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, resolution.BookingStatus)

	// Neither the provider nor any mutation path is touched again.
	client.AssertNotCalled(t, "GetSessionStatus", mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "UpdateStatusBySession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolvePayment_ExpiredCancelsAndReleases(t *testing.T) {
	bookings := &MockBookingRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, client)

	sessionID := "sess-1"
	payments.On("GetBySessionID", mock.Anything, sessionID).Return(&domain.PaymentTransaction{
		SessionID: sessionID, BookingID: "booking-1",
		PaymentStatus: domain.PaymentStatusPending, Status: domain.TransactionStatusInitiated,
	}, nil)
	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1", EventID: "event-1",
		Status: domain.BookingStatusPendingPayment, PaymentSessionID: &sessionID,
	}, nil)
	client.On("GetSessionStatus", mock.Anything, sessionID).Return(&provider.CheckoutStatus{
		Status: "expired", PaymentStatus: "expired",
	}, nil)
	payments.On("UpdateStatusBySession", mock.Anything, sessionID, domain.PaymentStatusExpired, domain.TransactionStatusExpired).Return(nil)
	bookings.On("CancelAndRelease", mock.Anything, "booking-1", sessionID).Return(true, nil)

	resolution, err := svc.ResolvePayment(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, resolution.BookingStatus)
	bookings.AssertExpectations(t)
}

func TestResolvePayment_SupersededSessionPaidReportsPending(t *testing.T) {
	bookings := &MockBookingRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, client)

	// The booking points at sess-B; the provider reports the older sess-A as
	// paid. The session-match guard rejects the confirm, so the resolution
	// must report the booking as it still is, not as confirmed.
	staleSession := "sess-A"
	currentSession := "sess-B"
	payments.On("GetBySessionID", mock.Anything, staleSession).Return(&domain.PaymentTransaction{
		SessionID: staleSession, BookingID: "booking-1",
		PaymentStatus: domain.PaymentStatusPending, Status: domain.TransactionStatusSuperseded,
	}, nil)
	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1", EventID: "event-1",
		Status: domain.BookingStatusPendingPayment, PaymentSessionID: &currentSession,
	}, nil)
	client.On("GetSessionStatus", mock.Anything, staleSession).Return(&provider.CheckoutStatus{
		Status: "complete", PaymentStatus: "paid",
	}, nil)
	payments.On("UpdateStatusBySession", mock.Anything, staleSession, domain.PaymentStatusPaid, domain.TransactionStatusCompleted).Return(nil)
	bookings.On("Confirm", mock.Anything, "booking-1", staleSession, mock.Anything).Return(false, nil)

	resolution, err := svc.ResolvePayment(context.Background(), staleSession)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPendingPayment, resolution.BookingStatus)
	bookings.AssertExpectations(t)
}

func TestResolvePayment_StaleExpiryLeavesConfirmedBooking(t *testing.T) {
	bookings := &MockBookingRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, client)

	staleSession := "sess-A"
	currentSession := "sess-B"
	payments.On("GetBySessionID", mock.Anything, staleSession).Return(&domain.PaymentTransaction{
		SessionID: staleSession, BookingID: "booking-1",
		PaymentStatus: domain.PaymentStatusPending, Status: domain.TransactionStatusSuperseded,
	}, nil)
	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1", EventID: "event-1",
		Status: domain.BookingStatusConfirmed, PaymentSessionID: &currentSession,
	}, nil)
	client.On("GetSessionStatus", mock.Anything, staleSession).Return(&provider.CheckoutStatus{
		Status: "expired", PaymentStatus: "expired",
	}, nil)
	payments.On("UpdateStatusBySession", mock.Anything, staleSession, domain.PaymentStatusExpired, domain.TransactionStatusExpired).Return(nil)
	bookings.On("CancelAndRelease", mock.Anything, "booking-1", staleSession).Return(false, nil)

	resolution, err := svc.ResolvePayment(context.Background(), staleSession)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, resolution.BookingStatus)
	bookings.AssertExpectations(t)
}

func TestResolvePayment_IntermediateStatusUnresolved(t *testing.T) {
	bookings := &MockBookingRepository{}
	payments := &MockPaymentRepository{}
	client := &MockPaymentClient{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, client)

	sessionID := "sess-1"
	payments.On("GetBySessionID", mock.Anything, sessionID).Return(&domain.PaymentTransaction{
		SessionID: sessionID, BookingID: "booking-1",
		PaymentStatus: domain.PaymentStatusPending, Status: domain.TransactionStatusInitiated,
	}, nil)
	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", Status: domain.BookingStatusPendingPayment, PaymentSessionID: &sessionID,
	}, nil)
	client.On("GetSessionStatus", mock.Anything, sessionID).Return(&provider.CheckoutStatus{
		Status: "open", PaymentStatus: "unpaid",
	}, nil)

	_, err := svc.ResolvePayment(context.Background(), sessionID)
	assertDomainErrorCode(t, err, "PAYMENT_UNRESOLVED")

	// No cancellation on an intermediate status; the booking stays pending.
	bookings.AssertNotCalled(t, "CancelAndRelease", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolvePayment_UnknownSession(t *testing.T) {
	payments := &MockPaymentRepository{}
	svc := newTestService(&MockBookingRepository{}, &MockTicketTypeRepository{}, &MockEventRepository{}, payments, &MockPaymentClient{})

	payments.On("GetBySessionID", mock.Anything, "nope").Return(nil, pgx.ErrNoRows)

	_, err := svc.ResolvePayment(context.Background(), "nope")
	assertDomainErrorCode(t, err, "NOT_FOUND")
}

func TestQRArtifact(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, &MockPaymentRepository{}, &MockPaymentClient{})

	token, err := qr.NewSigner("test-secret").Issue("booking-1", "event-1")
	require.NoError(t, err)

	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1", EventID: "event-1",
		Status: domain.BookingStatusConfirmed, QRToken: &token,
	}, nil)

	png, err := svc.QRArtifact(context.Background(), "user-1", "booking-1")
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = svc.QRArtifact(context.Background(), "intruder", "booking-1")
	assertDomainErrorCode(t, err, "FORBIDDEN")
}

func TestQRArtifact_PendingBookingForbidden(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newTestService(bookings, &MockTicketTypeRepository{}, &MockEventRepository{}, &MockPaymentRepository{}, &MockPaymentClient{})

	bookings.On("GetByID", mock.Anything, "booking-1").Return(&domain.Booking{
		ID: "booking-1", UserID: "user-1",
		Status: domain.BookingStatusPendingPayment,
	}, nil)

	_, err := svc.QRArtifact(context.Background(), "user-1", "booking-1")
	assertDomainErrorCode(t, err, "FORBIDDEN")
}
