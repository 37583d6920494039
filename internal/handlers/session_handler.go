package handlers

import (
	"context"
	"errors"

	"github.com/ZicoForREAL/fullstackAPP/internal/middleware"
	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	service sessionApplicationService
}

type sessionApplicationService interface {
	BookSession(ctx context.Context, sessionID, clientID int64) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, clientID int64) error
	CreateSession(ctx context.Context, coachID int64, input services.CreateSessionInput) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID, coachID int64) error
	ListAvailableSessions(ctx context.Context) ([]models.AvailableSession, error)
	ListBookedSessionsForClient(ctx context.Context, clientID int64) ([]models.BookedSession, error)
	ListSessionsForCoach(ctx context.Context, coachID int64) ([]models.Session, error)
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type createSessionRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Duration    scalarValue `json:"duration"`
	Price       scalarValue `json:"price"`
}

func (h *SessionHandler) ListAvailableSessions(c *fiber.Ctx) error {
	sessions, err := h.service.ListAvailableSessions(c.Context())
	if err != nil {
		return mapSessionError(c, err, "Failed to load sessions")
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) ListBookedSessions(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return forbidden(c)
	}

	sessions, err := h.service.ListBookedSessionsForClient(c.Context(), principal.ID)
	if err != nil {
		return mapSessionError(c, err, "Failed to load sessions")
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) BookSession(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return forbidden(c)
	}

	sessionID, err := c.ParamsInt("sessionId")
	if err != nil {
		return mapSessionError(c, services.ErrNotAvailable, "")
	}

	booking, err := h.service.BookSession(c.Context(), int64(sessionID), principal.ID)
	if err != nil {
		return mapSessionError(c, err, "Failed to book session")
	}

	return c.JSON(fiber.Map{
		"message": "Session booked successfully",
		"booking": booking,
	})
}

func (h *SessionHandler) CancelBooking(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return forbidden(c)
	}

	bookingID, err := c.ParamsInt("bookingId")
	if err != nil {
		return mapSessionError(c, services.ErrNotCancellable, "")
	}

	if err := h.service.CancelBooking(c.Context(), int64(bookingID), principal.ID); err != nil {
		return mapSessionError(c, err, "Failed to cancel booking")
	}
	return c.JSON(fiber.Map{"message": "Booking cancelled successfully"})
}

func (h *SessionHandler) ListCoachSessions(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return forbidden(c)
	}

	sessions, err := h.service.ListSessionsForCoach(c.Context(), principal.ID)
	if err != nil {
		return mapSessionError(c, err, "Failed to load sessions")
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return forbidden(c)
	}

	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	session, err := h.service.CreateSession(c.Context(), principal.ID, services.CreateSessionInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    string(req.Duration),
		Price:       string(req.Price),
	})
	if err != nil {
		return mapSessionError(c, err, "Failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session created successfully",
		"session": session,
	})
}

func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return forbidden(c)
	}

	sessionID, err := c.ParamsInt("id")
	if err != nil {
		return mapSessionError(c, services.ErrSessionNotFound, "")
	}

	if err := h.service.DeleteSession(c.Context(), int64(sessionID), principal.ID); err != nil {
		return mapSessionError(c, err, "Failed to delete session")
	}
	return c.JSON(fiber.Map{"message": "Session deleted successfully"})
}

// mapSessionError writes the response for a coordinator error. failure is
// the message used when the store itself failed.
func mapSessionError(c *fiber.Ctx, err error, failure string) error {
	var validation services.ValidationErrors
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validation,
		})
	case errors.Is(err, services.ErrNotAvailable):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Session not found or not available"})
	case errors.Is(err, services.ErrPastDate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot book a session in the past"})
	case errors.Is(err, services.ErrNotCancellable):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Booking not found or cannot be cancelled"})
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Session not found"})
	case errors.Is(err, services.ErrNotDeletable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot delete a booked or completed session"})
	case errors.Is(err, services.ErrTransactionFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": failure,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": failure})
	}
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
}
