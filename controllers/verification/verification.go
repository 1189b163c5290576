package verification

import (
	"errors"
	"time"

	"persian-pages/constants"
	"persian-pages/logger"
	"persian-pages/middleware"
	verificationService "persian-pages/services/verification"
	"persian-pages/types"
	verificationTypes "persian-pages/types/verification"

	"github.com/gofiber/fiber/v2"
)

// Controller handles phone verification requests
type Controller struct {
	Service *verificationService.Service
}

func NewVerificationController(service *verificationService.Service) *Controller {
	return &Controller{Service: service}
}

// SendCode issues a code by SMS or voice call
func (vc *Controller) SendCode(c *fiber.Ctx) error {
	var req verificationTypes.SendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: constants.MsgInvalidBody,
		})
	}

	expiresAt, err := vc.Service.Send(c.UserContext(), middleware.UserID(c), verificationService.SendInput{
		Phone:     req.Phone,
		Channel:   req.Channel,
		ListingID: req.ListingID,
	})
	if err != nil {
		return respondError(c, err, constants.MsgSendFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgCodeSent,
		Data: verificationTypes.SendCodeResponse{
			ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// ConfirmCode checks a code and returns a short-lived verification token
func (vc *Controller) ConfirmCode(c *fiber.Ctx) error {
	var req verificationTypes.ConfirmCodeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: constants.MsgInvalidBody,
		})
	}

	token, err := vc.Service.Confirm(c.UserContext(), middleware.UserID(c), verificationService.ConfirmInput{
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		return respondError(c, err, constants.MsgConfirmFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgCodeVerified,
		Data: verificationTypes.ConfirmCodeResponse{
			VerificationToken: token,
		},
	})
}

// PhoneHint shows the masked phone of a listing that can still be claimed
func (vc *Controller) PhoneHint(c *fiber.Ctx) error {
	masked, err := vc.Service.PhoneHint(c.UserContext(), c.Params("listingId"))
	if err != nil {
		return respondError(c, err, constants.MsgPhoneHintFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgPhoneHint,
		Data:    verificationTypes.PhoneHintResponse{MaskedPhone: masked},
	})
}

func respondError(c *fiber.Ctx, err error, fallback string) error {
	status, message := fiber.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, verificationService.ErrPhoneRequired):
		status, message = fiber.StatusBadRequest, constants.MsgPhoneRequired
	case errors.Is(err, verificationService.ErrInvalidPhone):
		status, message = fiber.StatusBadRequest, constants.MsgInvalidPhone
	case errors.Is(err, verificationService.ErrInvalidChannel):
		status, message = fiber.StatusBadRequest, constants.MsgInvalidChannel
	case errors.Is(err, verificationService.ErrCodeRequired):
		status, message = fiber.StatusBadRequest, constants.MsgCodeRequired
	case errors.Is(err, verificationService.ErrPhoneMismatch):
		status, message = fiber.StatusBadRequest, constants.MsgPhoneMismatch
	case errors.Is(err, verificationService.ErrListingHasNoPhone):
		status, message = fiber.StatusBadRequest, constants.MsgListingHasNoPhone
	case errors.Is(err, verificationService.ErrWrongCode):
		status, message = fiber.StatusBadRequest, constants.MsgWrongCode
	case errors.Is(err, verificationService.ErrListingNotFound):
		status, message = fiber.StatusNotFound, constants.MsgListingNotFound
	case errors.Is(err, verificationService.ErrAlreadyClaimed):
		status, message = fiber.StatusConflict, constants.MsgAlreadyClaimed
	case errors.Is(err, verificationService.ErrTooManyRequests):
		status, message = fiber.StatusTooManyRequests, constants.MsgTooManyRequests
	case errors.Is(err, verificationService.ErrTooManyAttempts):
		status, message = fiber.StatusTooManyRequests, constants.MsgTooManyAttempts
	case errors.Is(err, verificationService.ErrCodeExpired):
		status, message = fiber.StatusGone, constants.MsgCodeExpired
	default:
		logger.Error(fallback, err)
	}

	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: message,
	})
}
