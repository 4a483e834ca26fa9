package handlers

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/internal/api/presenters"
	"FoodBridge-Backend/pkg/message"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MessageHandler interface {
		SendMessage(c *fiber.Ctx) error
		GetThreads(c *fiber.Ctx) error
		GetConversation(c *fiber.Ctx) error
		GetUnreadCount(c *fiber.Ctx) error
	}

	messageHandler struct {
		messageService message.MessageService
		validator      *validator.Validate
	}
)

func NewMessageHandler(messageService message.MessageService, validator *validator.Validate) MessageHandler {
	return &messageHandler{
		messageService: messageService,
		validator:      validator,
	}
}

func (h *messageHandler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SendMessageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendMessage, err)
	}

	res, err := h.messageService.SendMessage(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendMessage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSendMessage)
}

func (h *messageHandler) GetThreads(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	threads, err := h.messageService.GetThreads(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetThreads, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"threads": threads,
	}, fiber.StatusOK, domain.MessageSuccessGetThreads)
}

func (h *messageHandler) GetConversation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	listingID := c.Params("listing_id")
	otherUserID := c.Params("user_id")

	messages, err := h.messageService.GetConversation(c.Context(), listingID, otherUserID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMessages, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"messages": messages,
	}, fiber.StatusOK, domain.MessageSuccessGetMessages)
}

func (h *messageHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	count, err := h.messageService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMessages, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"unread": count,
	}, fiber.StatusOK, domain.MessageSuccessGetMessages)
}
