package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/domain"
	"github.com/spec-kit/event-booking/internal/events"
	"github.com/spec-kit/event-booking/internal/repository"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// CatalogService manages events, ticket types, and categories, scoped by the
// role policy. Read paths are public; write paths require an authorized actor.
type CatalogService struct {
	eventsRepo  repository.EventRepository
	ticketTypes repository.TicketTypeRepository
	categories  repository.CategoryRepository
	bookings    repository.BookingRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// CatalogDependencies bundles repositories for the catalog service.
type CatalogDependencies struct {
	EventRepo      repository.EventRepository
	TicketTypeRepo repository.TicketTypeRepository
	CategoryRepo   repository.CategoryRepository
	BookingRepo    repository.BookingRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// EventCreateInput describes event creation payload.
type EventCreateInput struct {
	Title       string
	Description string
	Date        string
	Location    string
	Capacity    int
	Category    string
	ImageURL    *string
}

// EventUpdateInput carries optional field updates.
type EventUpdateInput struct {
	Title       *string
	Description *string
	Date        *string
	Location    *string
	Capacity    *int
	Category    *string
	ImageURL    *string
	Status      *domain.EventStatus
}

// TicketTypeCreateInput describes ticket type creation payload.
type TicketTypeCreateInput struct {
	Name              string
	PriceCents        int64
	QuantityAvailable int
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		eventsRepo:  deps.EventRepo,
		ticketTypes: deps.TicketTypeRepo,
		categories:  deps.CategoryRepo,
		bookings:    deps.BookingRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// CreateEvent creates an event owned by the actor.
func (s *CatalogService) CreateEvent(ctx context.Context, actor *domain.User, input EventCreateInput) (*domain.Event, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionCreateEvent, ""); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if input.Capacity < 0 {
		return nil, apperrors.NewValidationError("capacity must not be negative",
			map[string]any{"capacity": input.Capacity})
	}

	event := &domain.Event{
		CreatorID:   actor.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		Location:    input.Location,
		Capacity:    input.Capacity,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Status:      domain.EventStatusActive,
	}
	if err := s.eventsRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventEventCreated,
		ActorID: actor.ID,
		Payload: events.EventCreatedPayload{
			EventID:  event.ID,
			Title:    event.Title,
			Category: event.Category,
		},
	})
	return event, nil
}

// ListEvents returns active events with optional category and search filters.
// Listing is public.
func (s *CatalogService) ListEvents(ctx context.Context, category, search *string) ([]domain.EventWithCreator, error) {
	return s.eventsRepo.ListActive(ctx, repository.EventFilter{
		Category:   category,
		SearchTerm: search,
	})
}

// GetEvent returns a single event with creator details. Public.
func (s *CatalogService) GetEvent(ctx context.Context, eventID string) (*domain.EventWithCreator, error) {
	event, err := s.eventsRepo.GetWithCreator(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	return event, nil
}

// MyEvents lists events created by the actor.
func (s *CatalogService) MyEvents(ctx context.Context, actor *domain.User) ([]domain.Event, error) {
	return s.eventsRepo.ListByCreator(ctx, actor.ID)
}

// UpdateEvent applies partial updates to an event owned by the actor (or any
// event when the actor is admin).
func (s *CatalogService) UpdateEvent(ctx context.Context, actor *domain.User, eventID string, input EventUpdateInput) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, actor, eventID, auth.ActionEditEvent)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = strings.TrimSpace(*input.Description)
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			return nil, apperrors.NewValidationError("capacity must not be negative", nil)
		}
		event.Capacity = *input.Capacity
	}
	if input.Category != nil {
		event.Category = *input.Category
	}
	if input.ImageURL != nil {
		event.ImageURL = input.ImageURL
	}
	if input.Status != nil {
		if *input.Status != domain.EventStatusActive && *input.Status != domain.EventStatusCancelled {
			return nil, apperrors.NewValidationError("unknown event status", nil)
		}
		event.Status = *input.Status
	}

	if err := s.eventsRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent cancels an event and cascade-cancels its outstanding bookings,
// releasing their reserved inventory. The event record is kept (soft delete)
// so existing bookings stay resolvable.
func (s *CatalogService) DeleteEvent(ctx context.Context, actor *domain.User, eventID string) error {
	if _, err := s.ownedEvent(ctx, actor, eventID, auth.ActionDeleteEvent); err != nil {
		return err
	}

	if err := s.eventsRepo.MarkCancelled(ctx, eventID); err != nil {
		return err
	}
	cancelled, err := s.bookings.CancelAllForEvent(ctx, eventID)
	if err != nil {
		return err
	}
	s.logger.Info("event cancelled",
		zap.String("event_id", eventID),
		zap.Int("bookings_cancelled", cancelled))

	s.publish(ctx, events.Event{
		Type:    events.EventEventCancelled,
		ActorID: actor.ID,
		Payload: events.EventCancelledPayload{
			EventID:           eventID,
			BookingsCancelled: cancelled,
		},
	})
	return nil
}

// CreateTicketType adds a ticket type to an event owned by the actor.
func (s *CatalogService) CreateTicketType(ctx context.Context, actor *domain.User, eventID string, input TicketTypeCreateInput) (*domain.TicketType, error) {
	if _, err := s.ownedEvent(ctx, actor, eventID, auth.ActionManageTicketTypes); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.PriceCents < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}
	if input.QuantityAvailable < 0 {
		return nil, apperrors.NewValidationError("quantity must not be negative", nil)
	}

	tt := &domain.TicketType{
		EventID:           eventID,
		Name:              strings.TrimSpace(input.Name),
		PriceCents:        input.PriceCents,
		QuantityAvailable: input.QuantityAvailable,
	}
	if err := s.ticketTypes.Create(ctx, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

// ListTicketTypes returns the ticket types of an event. Public.
func (s *CatalogService) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	return s.ticketTypes.ListByEvent(ctx, eventID)
}

// ListCategories returns all categories. Public.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// SeedCategories inserts the default categories when none exist yet.
func (s *CatalogService) SeedCategories(ctx context.Context) error {
	count, err := s.categories.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []string{
		"Conference", "Workshop", "Concert", "Sports",
		"Exhibition", "Networking", "Festival", "Other",
	}
	for _, name := range defaults {
		if err := s.categories.Create(ctx, &domain.Category{Name: name}); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default categories", zap.Int("count", len(defaults)))
	return nil
}

func (s *CatalogService) ownedEvent(ctx context.Context, actor *domain.User, eventID string, action auth.Action) (*domain.Event, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	if err := auth.Authorize(actor.Role, actor.ID, action, event.CreatorID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *CatalogService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
