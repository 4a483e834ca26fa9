package handlers

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/internal/api/presenters"
	"FoodBridge-Backend/pkg/request"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RequestHandler interface {
		CreateRequest(c *fiber.Ctx) error
		GetRequestByID(c *fiber.Ctx) error

		Approve(c *fiber.Ctx) error
		Reject(c *fiber.Ctx) error
		Cancel(c *fiber.Ctx) error
		SelfPickup(c *fiber.Ctx) error
		RequestVolunteer(c *fiber.Ctx) error
		AcceptDelivery(c *fiber.Ctx) error
		MarkPickedUp(c *fiber.Ctx) error
		MarkDelivered(c *fiber.Ctx) error
		Confirm(c *fiber.Ctx) error
		UpdateStatus(c *fiber.Ctx) error

		GetMyRequests(c *fiber.Ctx) error
		GetIncomingRequests(c *fiber.Ctx) error
		GetMyDeliveries(c *fiber.Ctx) error
		GetOpenDeliveries(c *fiber.Ctx) error
		GetPendingRequests(c *fiber.Ctx) error
		GetAllRequests(c *fiber.Ctx) error
		GetImpactStats(c *fiber.Ctx) error
	}

	requestHandler struct {
		requestService request.RequestService
		validator      *validator.Validate
	}
)

func NewRequestHandler(requestService request.RequestService, validator *validator.Validate) RequestHandler {
	return &requestHandler{
		requestService: requestService,
		validator:      validator,
	}
}

func (h *requestHandler) CreateRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreatePickupRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRequest, err)
	}

	res, err := h.requestService.CreateRequest(c.Context(), *req, userID)
	if err != nil {
		if err == domain.ErrListingNotAvailable {
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCreateRequest, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRequest, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRequest)
}

func (h *requestHandler) GetRequestByID(c *fiber.Ctx) error {
	requestID := c.Params("id")

	res, err := h.requestService.GetRequestByID(c.Context(), requestID, actorFromCtx(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

// transition funnels every status-advancing endpoint through the same
// error mapping: losing the optimistic-concurrency race is a conflict,
// not a bad request.
func (h *requestHandler) transition(c *fiber.Ctx, apply func() (*domain.PickupRequestResponse, error)) error {
	res, err := apply()
	if err != nil {
		switch err {
		case domain.ErrStaleState:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedUpdateRequest, err)
		case domain.ErrUnauthorizedRequestAccess:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedUpdateRequest, err)
		case domain.ErrRequestNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateRequest, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRequest, err)
		}
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRequest)
}

func (h *requestHandler) Approve(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.DonorApprove(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) Reject(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.DonorReject(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) Cancel(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.Cancel(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) SelfPickup(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.ReceiverSelfPickup(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) RequestVolunteer(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.RequestVolunteer(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) AcceptDelivery(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.VolunteerAccept(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) MarkPickedUp(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.VolunteerPickedUp(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) MarkDelivered(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.VolunteerDelivered(c.Context(), requestID, actorFromCtx(c))
	})
}

func (h *requestHandler) Confirm(c *fiber.Ctx) error {
	requestID := c.Params("id")
	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return h.requestService.ReceiverConfirm(c.Context(), requestID, actorFromCtx(c))
	})
}

// UpdateStatus serves clients still on the coarse five-state API.
func (h *requestHandler) UpdateStatus(c *fiber.Ctx) error {
	requestID := c.Params("id")

	body := new(struct {
		Status string `json:"status" validate:"required"`
	})
	if err := c.BodyParser(body); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(body); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRequest, err)
	}

	return h.transition(c, func() (*domain.PickupRequestResponse, error) {
		return request.UpdateRequestStatus(c.Context(), h.requestService, requestID, domain.RequestStatus(body.Status), actorFromCtx(c))
	})
}

func (h *requestHandler) GetMyRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	requests, err := h.requestService.GetMyRequests(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *requestHandler) GetIncomingRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	requests, err := h.requestService.GetIncomingRequests(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *requestHandler) GetMyDeliveries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	requests, err := h.requestService.GetMyDeliveries(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *requestHandler) GetOpenDeliveries(c *fiber.Ctx) error {
	requests, err := h.requestService.GetOpenDeliveries(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *requestHandler) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := h.requestService.GetPendingRequests(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *requestHandler) GetAllRequests(c *fiber.Ctx) error {
	requests, err := h.requestService.GetAllRequests(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *requestHandler) GetImpactStats(c *fiber.Ctx) error {
	stats, err := h.requestService.GetImpactStats(c.Context(), actorFromCtx(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetImpact, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetImpact)
}
