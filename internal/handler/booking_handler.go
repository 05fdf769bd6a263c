package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/service/booking"
)

type BookingHandler struct {
	bookingService booking.Service
}

func NewBookingHandler(bookingService booking.Service) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateBookingInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.BookingTime == "" {
		return middleware.BadRequest("booking_date and booking_time are required")
	}

	created, err := h.bookingService.Create(c.Context(), middleware.GetCurrentUser(c), input)
	if err != nil {
		if errors.Is(err, booking.ErrPropertyNotFound) {
			return middleware.NotFound("Property not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	bookings, err := h.bookingService.ListMine(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bookings": bookings})
}

// ListReceived is the owner's side: tour requests against the caller's
// properties.
func (h *BookingHandler) ListReceived(c *fiber.Ctx) error {
	bookings, err := h.bookingService.ListReceived(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid booking id")
	}

	if err := h.bookingService.Cancel(c.Context(), middleware.GetCurrentUser(c), id); err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return middleware.NotFound("Booking not found")
		case errors.Is(err, booking.ErrNotYours):
			return middleware.Forbidden("Booking belongs to another user")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Booking cancelled"})
}
