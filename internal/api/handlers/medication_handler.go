package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"MedTrack-Backend/domain"
	"MedTrack-Backend/internal/api/presenters"
	"MedTrack-Backend/pkg/medication"
)

type (
	MedicationHandler interface {
		AddMedication(c *fiber.Ctx) error
		UpdateMedication(c *fiber.Ctx) error
		UpdateMedicationQuantity(c *fiber.Ctx) error
		DeleteMedication(c *fiber.Ctx) error
		GetMedications(c *fiber.Ctx) error
		GetMedicationDetails(c *fiber.Ctx) error
		UploadMedicationPhoto(c *fiber.Ctx) error
		GetDashboardStats(c *fiber.Ctx) error
	}

	medicationHandler struct {
		medicationService medication.MedicationService
		validator         *validator.Validate
	}
)

func NewMedicationHandler(medicationService medication.MedicationService, validator *validator.Validate) MedicationHandler {
	return &medicationHandler{
		medicationService: medicationService,
		validator:         validator,
	}
}

func (h *medicationHandler) AddMedication(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddMedicationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMedication, err)
	}

	res, err := h.medicationService.Create(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedAddMedication, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddMedication)
}

func (h *medicationHandler) UpdateMedication(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")
	req := new(domain.UpdateMedicationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMedication, err)
	}

	res, err := h.medicationService.Update(c.Context(), itemID, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedUpdateMedication, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMedication)
}

func (h *medicationHandler) UpdateMedicationQuantity(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")
	req := new(domain.UpdateQuantityRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateQuantity, err)
	}

	res, err := h.medicationService.UpdateQuantity(c.Context(), itemID, *req.CurrentQuantity, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedUpdateQuantity, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateQuantity)
}

func (h *medicationHandler) DeleteMedication(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.medicationService.Delete(c.Context(), itemID, userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedDeleteMedication, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteMedication)
}

func (h *medicationHandler) GetMedications(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.medicationService.List(c.Context(), userID, parseFilters(c))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedGetMedications, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMedications)
}

func (h *medicationHandler) GetMedicationDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	res, err := h.medicationService.GetByID(c.Context(), itemID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedGetMedications, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMedications)
}

func (h *medicationHandler) UploadMedicationPhoto(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadMedicationPhotoRequest)
	req.MedicationID = c.Params("id")

	file, err := c.FormFile("photo")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Photo = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadPhoto, err)
	}

	res, err := h.medicationService.UploadPhoto(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedUploadPhoto, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadPhoto)
}

func (h *medicationHandler) GetDashboardStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	stats, err := h.medicationService.GetStatistics(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusCodeFor(err), domain.MessageFailedGetDashboardStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetDashboardStats)
}

// parseFilters reads the list query defensively: anything malformed is
// dropped rather than rejected, and the service normalizes the rest.
func parseFilters(c *fiber.Ctx) domain.MedicationFilters {
	filters := domain.MedicationFilters{
		Text:          c.Query("q"),
		Status:        c.Query("status"),
		Kind:          c.Query("kind"),
		Manufacturer:  c.Query("manufacturer"),
		SortField:     c.Query("sort_by"),
		SortDirection: c.Query("sort_dir"),
	}

	if raw := c.Query("is_generic"); raw != "" {
		if isGeneric, err := strconv.ParseBool(raw); err == nil {
			filters.IsGeneric = &isGeneric
		}
	}

	if page, err := strconv.Atoi(c.Query("page", "1")); err == nil && page >= 1 {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit", "20")); err == nil && limit >= 1 {
		filters.Limit = limit
	}

	return filters
}
