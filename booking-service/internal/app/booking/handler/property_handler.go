package handler

import (
	"net/http"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/service"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyService service.PropertyServiceInterface
}

func NewPropertyHandler(propertyService service.PropertyServiceInterface) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
	}
}

// GetProperty accepts either the property id or its slug.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	property, err := h.propertyService.GetProperty(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, err, "Failed to get property")
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) ListRooms(c *gin.Context) {
	propertyID, rooms, err := h.propertyService.ListRooms(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, err, "Failed to list rooms")
		return
	}

	if rooms == nil {
		rooms = []entity.Room{}
	}

	c.JSON(http.StatusOK, entity.RoomListResponse{
		PropertyID: propertyID,
		Rooms:      rooms,
	})
}
