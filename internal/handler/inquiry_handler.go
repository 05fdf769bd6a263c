package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/service/inquiry"
)

type InquiryHandler struct {
	inquiryService inquiry.Service
}

func NewInquiryHandler(inquiryService inquiry.Service) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateInquiryInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Message == "" {
		return middleware.BadRequest("message is required")
	}

	created, err := h.inquiryService.Create(c.Context(), middleware.GetCurrentUser(c), input)
	if err != nil {
		if errors.Is(err, inquiry.ErrPropertyNotFound) {
			return middleware.NotFound("Property not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *InquiryHandler) ListMine(c *fiber.Ctx) error {
	inquiries, err := h.inquiryService.ListMine(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"inquiries": inquiries})
}

// ListReceived is the owner's side: inquiries made against the
// caller's properties.
func (h *InquiryHandler) ListReceived(c *fiber.Ctx) error {
	inquiries, err := h.inquiryService.ListReceived(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"inquiries": inquiries})
}
