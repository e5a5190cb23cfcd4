package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-booking/internal/api/dto"
	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/service"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// BookingsHandler exposes the reservation and payment workflow.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// Create handles POST /api/bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.bookings.Reserve(c.UserContext(), principal.User.ID, service.ReserveInput{
		EventID:      req.EventID,
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"booking":          dto.NewBookingResponse(result.Booking),
			"requires_payment": result.RequiresPayment,
		},
	})
}

// Checkout handles POST /api/bookings/checkout.
func (h *BookingsHandler) Checkout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.BookingID == "" {
		return apperrors.NewValidationError("booking_id required", nil)
	}
	origin := req.OriginURL
	if origin == "" {
		origin = c.Get("Origin")
	}
	if origin == "" {
		return apperrors.NewValidationError("origin_url required", nil)
	}

	result, err := h.bookings.InitiateCheckout(c.UserContext(), principal.User.ID, req.BookingID, origin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CheckoutResponse{SessionID: result.SessionID, URL: result.URL}})
}

// PaymentStatus handles GET /api/bookings/payment-status/:session_id. The
// client polls this after returning from the hosted payment page; the booking
// converges here or via the provider webhook, whichever lands first.
func (h *BookingsHandler) PaymentStatus(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	resolution, err := h.bookings.ResolvePayment(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PaymentStatusResponse{
		Status:        resolution.Status,
		PaymentStatus: resolution.PaymentStatus,
		BookingStatus: string(resolution.BookingStatus),
	}})
}

// MyBookings handles GET /api/bookings/my-bookings/list.
func (h *BookingsHandler) MyBookings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	bookings, err := h.bookings.MyBookings(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}

	out := make([]dto.BookingDetailsResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.NewBookingDetailsResponse(b))
	}
	return c.JSON(fiber.Map{"data": out})
}

// QR handles GET /api/bookings/:id/qr and streams the entrance QR as PNG.
func (h *BookingsHandler) QR(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	png, err := h.bookings.QRArtifact(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// PaymentWebhook handles POST /api/webhook/payment. The provider posts the
// session id; resolution is idempotent, so a webhook racing a client poll is
// harmless.
func (h *BookingsHandler) PaymentWebhook(c *fiber.Ctx) error {
	var payload struct {
		SessionID string `json:"session_id"`
	}
	if err := c.BodyParser(&payload); err != nil || payload.SessionID == "" {
		return apperrors.NewValidationError("session_id required", nil)
	}

	if _, err := h.bookings.ResolvePayment(c.UserContext(), payload.SessionID); err != nil {
		// An unresolved session is not a webhook failure; the provider retries
		// and the client keeps polling.
		domainErr := apperrors.ToDomainError(err)
		if domainErr.Code == "PAYMENT_UNRESOLVED" {
			return c.JSON(fiber.Map{"data": fiber.Map{"received": true, "resolved": false}})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"received": true, "resolved": true}})
}
