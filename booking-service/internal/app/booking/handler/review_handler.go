package handler

import (
	"net/http"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, summary, err := h.reviewService.ListReviews(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, err, "Failed to get reviews")
		return
	}

	if reviews == nil {
		reviews = []entity.Review{}
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Summary: summary,
	})
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateReviewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	review, summary, err := h.reviewService.CreateReview(c.Request.Context(), c.Param("identifier"), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review":  review,
		"summary": summary,
	})
}

// EditReview is an admin moderation endpoint.
func (h *ReviewHandler) EditReview(c *gin.Context) {
	var req entity.EditReviewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	summary, err := h.reviewService.EditReview(
		c.Request.Context(),
		c.Param("identifier"),
		c.Param("review_id"),
		req.Text,
		req.Rating,
	)
	if err != nil {
		respondError(c, err, "Failed to update review")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Review updated successfully",
		Data:    summary,
	})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	summary, err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("identifier"), c.Param("review_id"))
	if err != nil {
		respondError(c, err, "Failed to delete review")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Review deleted successfully",
		Data:    summary,
	})
}

// RecomputeRating rebuilds the property's rating from its reviews. Useful
// after a delete whose recomputation failed.
func (h *ReviewHandler) RecomputeRating(c *gin.Context) {
	summary, err := h.reviewService.Recompute(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, err, "Failed to recompute rating")
		return
	}

	c.JSON(http.StatusOK, summary)
}
