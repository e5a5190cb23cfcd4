package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-booking/internal/api/dto"
	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/domain"
	"github.com/spec-kit/event-booking/internal/service"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// EventsHandler exposes event catalog endpoints.
type EventsHandler struct {
	catalog *service.CatalogService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(catalog *service.CatalogService) *EventsHandler {
	return &EventsHandler{catalog: catalog}
}

// List handles GET /api/events with optional category and search filters.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	var category, search *string
	if v := c.Query("category"); v != "" {
		category = &v
	}
	if v := c.Query("search"); v != "" {
		search = &v
	}

	events, err := h.catalog.ListEvents(c.UserContext(), category, search)
	if err != nil {
		return err
	}

	out := make([]dto.EventDetailResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.NewEventDetailResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.catalog.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventDetailResponse(event)})
}

// Create handles POST /api/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.EventCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	event, err := h.catalog.CreateEvent(c.UserContext(), principal.User, service.EventCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Update handles PUT /api/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.EventUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.EventUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		input.Status = &status
	}

	event, err := h.catalog.UpdateEvent(c.UserContext(), principal.User, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Delete handles DELETE /api/events/:id. The event is cancelled, not removed;
// its outstanding bookings are cancelled and their inventory released.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	if err := h.catalog.DeleteEvent(c.UserContext(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cancelled": true}})
}

// MyEvents handles GET /api/events/my-events/list.
func (h *EventsHandler) MyEvents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	events, err := h.catalog.MyEvents(c.UserContext(), principal.User)
	if err != nil {
		return err
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.NewEventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// CreateTicketType handles POST /api/events/:id/ticket-types.
func (h *EventsHandler) CreateTicketType(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.TicketTypeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tt, err := h.catalog.CreateTicketType(c.UserContext(), principal.User, c.Params("id"), service.TicketTypeCreateInput{
		Name:              req.Name,
		PriceCents:        req.PriceCents,
		QuantityAvailable: req.QuantityAvailable,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketTypeResponse(*tt)})
}

// ListTicketTypes handles GET /api/events/:id/ticket-types.
func (h *EventsHandler) ListTicketTypes(c *fiber.Ctx) error {
	types, err := h.catalog.ListTicketTypes(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.TicketTypeResponse, 0, len(types))
	for _, tt := range types {
		out = append(out, dto.NewTicketTypeResponse(tt))
	}
	return c.JSON(fiber.Map{"data": out})
}
