package listing

import (
	"errors"

	"persian-pages/constants"
	"persian-pages/logger"
	"persian-pages/middleware"
	claimService "persian-pages/services/claim"
	"persian-pages/services/verification"
	"persian-pages/types"
	listingTypes "persian-pages/types/listing"
	"persian-pages/utils"

	"github.com/gofiber/fiber/v2"
)

// ListingController handles listing ownership and CRUD requests
type ListingController struct {
	Service *claimService.Service
}

func NewListingController(service *claimService.Service) *ListingController {
	return &ListingController{Service: service}
}

// Claim transfers a scraped listing to the caller after phone verification
func (lc *ListingController) Claim(c *fiber.Ctx) error {
	var req listingTypes.ClaimRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: constants.MsgInvalidBody,
		})
	}

	l, err := lc.Service.Claim(c.UserContext(), c.Params("id"), middleware.UserID(c), req.VerificationToken)
	if err != nil {
		return respondError(c, err, constants.MsgClaimFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgListingClaimed,
		Data:    l,
	})
}

// Update edits a listing owned by the caller
func (lc *ListingController) Update(c *fiber.Ctx) error {
	var req claimService.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: constants.MsgInvalidBody,
		})
	}

	l, err := lc.Service.Update(c.UserContext(), c.Params("id"), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err, constants.MsgUpdateFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgListingUpdated,
		Data:    l,
	})
}

// Store creates a listing owned by the caller
func (lc *ListingController) Store(c *fiber.Ctx) error {
	var req claimService.CreateInput
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: constants.MsgInvalidBody,
		})
	}

	l, err := lc.Service.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err, constants.MsgCreateFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: constants.MsgListingCreated,
		Data:    l,
	})
}

// Show returns a listing by id or slug
func (lc *ListingController) Show(c *fiber.Ctx) error {
	l, err := lc.Service.Get(c.UserContext(), c.Params("idOrSlug"))
	if err != nil {
		return respondError(c, err, constants.MsgListingFetchFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgListingsFetched,
		Data:    l,
	})
}

// Destroy deletes a listing owned by the caller
func (lc *ListingController) Destroy(c *fiber.Ctx) error {
	err := lc.Service.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if errors.Is(err, claimService.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: constants.MsgDeleteForbidden,
		})
	}
	if err != nil {
		return respondError(c, err, constants.MsgDeleteFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgListingDeleted,
	})
}

// Mine lists the caller's listings
func (lc *ListingController) Mine(c *fiber.Ctx) error {
	listings, err := lc.Service.ListMine(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, constants.MsgListingFetchFailed)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgListingsFetched,
		Data:    listings,
	})
}

func respondError(c *fiber.Ctx, err error, fallback string) error {
	status, message := fiber.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, claimService.ErrListingNotFound):
		status, message = fiber.StatusNotFound, constants.MsgListingNotFound
	case errors.Is(err, claimService.ErrAlreadyClaimed):
		status, message = fiber.StatusConflict, constants.MsgAlreadyClaimed
	case errors.Is(err, claimService.ErrListingHasNoPhone):
		status, message = fiber.StatusBadRequest, constants.MsgListingHasNoPhone
	case errors.Is(err, claimService.ErrTokenRequired):
		status, message = fiber.StatusBadRequest, constants.MsgTokenRequired
	case errors.Is(err, claimService.ErrForbidden):
		status, message = fiber.StatusForbidden, constants.MsgListingForbidden
	case errors.Is(err, claimService.ErrMissingFields):
		status, message = fiber.StatusBadRequest, constants.MsgListingRequired
	case errors.Is(err, claimService.ErrInvalidCategory):
		status, message = fiber.StatusBadRequest, constants.MsgInvalidCategory
	case errors.Is(err, verification.ErrTokenInvalid):
		status, message = fiber.StatusBadRequest, constants.MsgTokenInvalid
	case errors.Is(err, verification.ErrTokenForbidden):
		status, message = fiber.StatusForbidden, constants.MsgTokenForbidden
	case errors.Is(err, verification.ErrVerifiedPhoneDiffers):
		status, message = fiber.StatusBadRequest, constants.MsgVerifiedPhoneDiffer
	case errors.Is(err, verification.ErrNotVerified):
		status, message = fiber.StatusBadRequest, constants.MsgNotVerified
	case errors.Is(err, verification.ErrTokenListingMismatch):
		status, message = fiber.StatusBadRequest, constants.MsgTokenListing
	case errors.Is(err, verification.ErrTokenConsumed):
		status, message = fiber.StatusGone, constants.MsgTokenConsumed
	case errors.Is(err, utils.ErrSlugExhausted):
		status, message = fiber.StatusConflict, constants.MsgSlugConflict
	default:
		logger.Error(fallback, err)
	}

	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: message,
	})
}
