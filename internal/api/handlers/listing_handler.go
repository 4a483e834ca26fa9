package handlers

import (
	"strconv"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/internal/api/presenters"
	"FoodBridge-Backend/pkg/listing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ListingHandler interface {
		CreateListing(c *fiber.Ctx) error
		GetListings(c *fiber.Ctx) error
		GetListingByID(c *fiber.Ctx) error
		UpdateListing(c *fiber.Ctx) error
		DeleteListing(c *fiber.Ctx) error
		GetMyListings(c *fiber.Ctx) error
		GetNearbyListings(c *fiber.Ctx) error
		UploadListingImage(c *fiber.Ctx) error
	}

	listingHandler struct {
		listingService listing.ListingService
		validator      *validator.Validate
	}
)

func NewListingHandler(listingService listing.ListingService, validator *validator.Validate) ListingHandler {
	return &listingHandler{
		listingService: listingService,
		validator:      validator,
	}
}

func (h *listingHandler) CreateListing(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateListingRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// Image is optional on create
	req.Image, _ = c.FormFile("image")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateListing, err)
	}

	res, err := h.listingService.CreateListing(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateListing, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateListing)
}

func (h *listingHandler) GetListings(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	status := c.Query("status", string(domain.ListingAvailable))
	category := c.Query("category", "all")

	listings, count, err := h.listingService.BrowseListings(c.Context(), status, category, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetListings, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"listings": listings,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetListings)
}

func (h *listingHandler) GetListingByID(c *fiber.Ctx) error {
	listingID := c.Params("id")
	if listingID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetListings, domain.ErrListingNotFound)
	}

	res, err := h.listingService.GetListingByID(c.Context(), listingID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetListings, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetListings)
}

func (h *listingHandler) UpdateListing(c *fiber.Ctx) error {
	listingID := c.Params("id")

	req := new(domain.UpdateListingRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateListing, err)
	}

	res, err := h.listingService.UpdateListing(c.Context(), listingID, *req, actorFromCtx(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateListing, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateListing)
}

func (h *listingHandler) DeleteListing(c *fiber.Ctx) error {
	listingID := c.Params("id")

	if err := h.listingService.DeleteListing(c.Context(), listingID, actorFromCtx(c)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteListing, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteListing)
}

func (h *listingHandler) GetMyListings(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	listings, err := h.listingService.GetMyListings(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetListings, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"listings": listings,
	}, fiber.StatusOK, domain.MessageSuccessGetListings)
}

func (h *listingHandler) GetNearbyListings(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidCoordinates)
	}

	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidCoordinates)
	}

	radius, err := strconv.ParseFloat(c.Query("radius", "5"), 64)
	if err != nil || radius <= 0 || radius > 50 {
		radius = 5
	}

	req := domain.NearbyListingsRequest{
		Latitude:  lat,
		Longitude: lng,
		Radius:    radius,
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNearbyListings, err)
	}

	listings, err := h.listingService.GetNearbyListings(c.Context(), req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNearbyListings, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"listings": listings,
	}, fiber.StatusOK, domain.MessageSuccessNearbyListings)
}

func (h *listingHandler) UploadListingImage(c *fiber.Ctx) error {
	req := new(domain.UploadListingImageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}
	req.Image = image

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	imageURL, err := h.listingService.UploadListingImage(c.Context(), *req, actorFromCtx(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"image_url": imageURL,
	}, fiber.StatusOK, domain.MessageSuccessUploadImage)
}
