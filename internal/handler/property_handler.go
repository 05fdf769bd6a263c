package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/service/property"
)

type PropertyHandler struct {
	propertyService property.Service
}

func NewPropertyHandler(propertyService property.Service) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var input domain.CreatePropertyInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" || input.Address == "" || input.City == "" {
		return middleware.BadRequest("title, address and city are required")
	}

	created, err := h.propertyService.Create(c.Context(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return middleware.BadRequest(err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *PropertyHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid property id")
	}

	found, err := h.propertyService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return middleware.NotFound("Property not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *PropertyHandler) List(c *fiber.Ctx) error {
	var filter domain.PropertyFilter
	if err := c.QueryParser(&filter); err != nil {
		return middleware.BadRequest("Invalid query parameters")
	}

	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return middleware.BadRequest("Invalid pagination parameters")
	}
	params.Validate()

	result, err := h.propertyService.List(c.Context(), filter, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PropertyHandler) ListMine(c *fiber.Ctx) error {
	ownerID := middleware.GetCurrentUserID(c)

	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return middleware.BadRequest("Invalid pagination parameters")
	}
	params.Validate()

	filter := domain.PropertyFilter{OwnerID: &ownerID}
	result, err := h.propertyService.List(c.Context(), filter, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid property id")
	}

	var input domain.UpdatePropertyInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.propertyService.Update(c.Context(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		switch {
		case errors.Is(err, property.ErrNotFound):
			return middleware.NotFound("Property not found")
		case errors.Is(err, property.ErrNotOwner):
			return middleware.Forbidden("Property belongs to another user")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid property id")
	}

	if err := h.propertyService.Delete(c.Context(), middleware.GetCurrentUser(c), id); err != nil {
		switch {
		case errors.Is(err, property.ErrNotFound):
			return middleware.NotFound("Property not found")
		case errors.Is(err, property.ErrNotOwner):
			return middleware.Forbidden("Property belongs to another user")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *PropertyHandler) UploadImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid property id")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return middleware.BadRequest("image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	imageURL, err := h.propertyService.UploadImage(c.Context(), middleware.GetCurrentUser(c), id,
		fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, property.ErrNotFound):
			return middleware.NotFound("Property not found")
		case errors.Is(err, property.ErrNotOwner):
			return middleware.Forbidden("Property belongs to another user")
		case errors.Is(err, property.ErrNoStorage):
			return fiber.NewError(fiber.StatusServiceUnavailable, "Media storage is not configured")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": imageURL})
}
