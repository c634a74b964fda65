package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pelican/internal/model"
	"pelican/internal/service"

	"github.com/gin-gonic/gin"
)

// LinkHandler handles link creation and the evaluation log read surface
type LinkHandler struct {
	links service.LinkServiceInterface
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(links service.LinkServiceInterface) *LinkHandler {
	return &LinkHandler{links: links}
}

// Create handles POST /api/v1/links
// @Summary Create a link
// @Description Creates a link with a per-country destinations map
// @Tags links
// @Accept json
// @Produce json
// @Param request body model.CreateLinkRequest true "Create request"
// @Success 200 {object} Response{data=model.CreateLinkResponse}
// @Router /api/v1/links [post]
func (h *LinkHandler) Create(c *gin.Context) {
	var req model.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	resp, err := h.links.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrMissingDefaultDestination) || errors.Is(err, model.ErrInvalidCountryCode) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create link",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    resp,
	})
}

// Evaluations handles GET /api/v1/links/:id/evaluations
// @Summary List destination evaluations
// @Description Returns the evaluation log for a link, newest first
// @Tags links
// @Produce json
// @Param id path string true "Link id"
// @Success 200 {object} Response{data=[]model.Evaluation}
// @Router /api/v1/links/:id/evaluations [get]
func (h *LinkHandler) Evaluations(c *gin.Context) {
	linkID := c.Param("id")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	evals, err := h.links.Evaluations(c.Request.Context(), linkID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to list evaluations",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    evals,
	})
}

// Response is the standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the error API response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
