package handler

import (
	"net/http"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type VerificationHandler struct {
	verificationService service.VerificationServiceInterface
	validator           *validator.Validate
}

func NewVerificationHandler(verificationService service.VerificationServiceInterface) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		validator:           validator.New(),
	}
}

// Decide approves or rejects a partner and, through them, their property.
func (h *VerificationHandler) Decide(c *gin.Context) {
	var req entity.VerificationDecisionRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	result, err := h.verificationService.Decide(
		c.Request.Context(),
		c.Param("user_id"),
		entity.VerificationAction(req.Action),
		req.Remark,
	)
	if err != nil {
		respondError(c, err, "Failed to apply verification decision")
		return
	}

	c.JSON(http.StatusOK, result)
}
