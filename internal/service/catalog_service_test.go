package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-booking/internal/domain"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func newTestCatalog(events *MockEventRepository, tickets *MockTicketTypeRepository, categories *MockCategoryRepository, bookings *MockBookingRepository) *CatalogService {
	return NewCatalogService(CatalogDependencies{
		EventRepo:      events,
		TicketTypeRepo: tickets,
		CategoryRepo:   categories,
		BookingRepo:    bookings,
		Logger:         zap.NewNop(),
	})
}

func TestCreateEvent_AttendeeForbidden(t *testing.T) {
	svc := newTestCatalog(&MockEventRepository{}, &MockTicketTypeRepository{}, &MockCategoryRepository{}, &MockBookingRepository{})

	attendee := &domain.User{ID: "u1", Role: domain.RoleAttendee}
	_, err := svc.CreateEvent(context.Background(), attendee, EventCreateInput{
		Title: "Conf", Description: "A conference",
	})
	assertDomainErrorCode(t, err, "FORBIDDEN")
}

func TestCreateEvent_OrganizerOwnsResult(t *testing.T) {
	events := &MockEventRepository{}
	svc := newTestCatalog(events, &MockTicketTypeRepository{}, &MockCategoryRepository{}, &MockBookingRepository{})

	events.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.CreatorID == "org-1" && e.Status == domain.EventStatusActive
	})).Return(nil)

	organizer := &domain.User{ID: "org-1", Role: domain.RoleOrganizer}
	event, err := svc.CreateEvent(context.Background(), organizer, EventCreateInput{
		Title: "Conf", Description: "A conference", Capacity: 100, Category: "Conference",
	})
	require.NoError(t, err)
	assert.Equal(t, "org-1", event.CreatorID)
}

func TestUpdateEvent_ForeignOrganizerForbidden(t *testing.T) {
	events := &MockEventRepository{}
	svc := newTestCatalog(events, &MockTicketTypeRepository{}, &MockCategoryRepository{}, &MockBookingRepository{})

	events.On("GetByID", mock.Anything, "event-1").Return(&domain.Event{
		ID: "event-1", CreatorID: "org-1", Status: domain.EventStatusActive,
	}, nil)

	other := &domain.User{ID: "org-2", Role: domain.RoleOrganizer}
	title := "New title"
	_, err := svc.UpdateEvent(context.Background(), other, "event-1", EventUpdateInput{Title: &title})
	assertDomainErrorCode(t, err, "FORBIDDEN")
	events.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateEvent_AdminOverridesOwnership(t *testing.T) {
	events := &MockEventRepository{}
	svc := newTestCatalog(events, &MockTicketTypeRepository{}, &MockCategoryRepository{}, &MockBookingRepository{})

	events.On("GetByID", mock.Anything, "event-1").Return(&domain.Event{
		ID: "event-1", CreatorID: "org-1", Status: domain.EventStatusActive,
	}, nil)
	events.On("Update", mock.Anything, mock.Anything).Return(nil)

	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	title := "Renamed"
	event, err := svc.UpdateEvent(context.Background(), admin, "event-1", EventUpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", event.Title)
}

func TestDeleteEvent_CascadeCancelsBookings(t *testing.T) {
	events := &MockEventRepository{}
	bookings := &MockBookingRepository{}
	svc := newTestCatalog(events, &MockTicketTypeRepository{}, &MockCategoryRepository{}, bookings)

	events.On("GetByID", mock.Anything, "event-1").Return(&domain.Event{
		ID: "event-1", CreatorID: "org-1", Status: domain.EventStatusActive,
	}, nil)
	events.On("MarkCancelled", mock.Anything, "event-1").Return(nil)
	bookings.On("CancelAllForEvent", mock.Anything, "event-1").Return(3, nil)

	owner := &domain.User{ID: "org-1", Role: domain.RoleOrganizer}
	require.NoError(t, svc.DeleteEvent(context.Background(), owner, "event-1"))
	bookings.AssertExpectations(t)
}

func TestCreateTicketType_Validation(t *testing.T) {
	events := &MockEventRepository{}
	tickets := &MockTicketTypeRepository{}
	svc := newTestCatalog(events, tickets, &MockCategoryRepository{}, &MockBookingRepository{})

	events.On("GetByID", mock.Anything, "event-1").Return(&domain.Event{
		ID: "event-1", CreatorID: "org-1", Status: domain.EventStatusActive,
	}, nil)

	owner := &domain.User{ID: "org-1", Role: domain.RoleOrganizer}

	_, err := svc.CreateTicketType(context.Background(), owner, "event-1", TicketTypeCreateInput{
		Name: "VIP", PriceCents: -100, QuantityAvailable: 10,
	})
	assertDomainErrorCode(t, err, "VALIDATION_FAILED")

	tickets.On("Create", mock.Anything, mock.MatchedBy(func(tt *domain.TicketType) bool {
		return tt.EventID == "event-1" && tt.PriceCents == 0
	})).Return(nil)

	tt, err := svc.CreateTicketType(context.Background(), owner, "event-1", TicketTypeCreateInput{
		Name: "Free entry", PriceCents: 0, QuantityAvailable: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "Free entry", tt.Name)
}

func TestSeedCategories_SkipsWhenPresent(t *testing.T) {
	categories := &MockCategoryRepository{}
	svc := newTestCatalog(&MockEventRepository{}, &MockTicketTypeRepository{}, categories, &MockBookingRepository{})

	categories.On("Count", mock.Anything).Return(8, nil)

	require.NoError(t, svc.SeedCategories(context.Background()))
	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSeedCategories_SeedsWhenEmpty(t *testing.T) {
	categories := &MockCategoryRepository{}
	svc := newTestCatalog(&MockEventRepository{}, &MockTicketTypeRepository{}, categories, &MockBookingRepository{})

	categories.On("Count", mock.Anything).Return(0, nil)
	categories.On("Create", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.SeedCategories(context.Background()))
	categories.AssertNumberOfCalls(t, "Create", 8)
}
