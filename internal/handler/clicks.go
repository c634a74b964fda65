package handler

import (
	"context"
	"net/http"

	"pelican/internal/model"

	"github.com/gin-gonic/gin"
)

// ClickPointsReader is the aggregator query surface used for display
type ClickPointsReader interface {
	Points(ctx context.Context, accountID string) ([]model.ClickPoint, error)
}

// ClickHandler exposes accumulated click points per account
type ClickHandler struct {
	points ClickPointsReader
}

// NewClickHandler creates a new ClickHandler
func NewClickHandler(points ClickPointsReader) *ClickHandler {
	return &ClickHandler{points: points}
}

// Points handles GET /api/v1/clicks/:accountId
// @Summary List click points for an account
// @Description Returns the geo points accumulated by the click aggregator
// @Tags clicks
// @Produce json
// @Param accountId path string true "Account id"
// @Success 200 {object} Response{data=[]model.ClickPoint}
// @Router /api/v1/clicks/:accountId [get]
func (h *ClickHandler) Points(c *gin.Context) {
	accountID := c.Param("accountId")

	points, err := h.points.Points(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load click points",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    points,
	})
}
