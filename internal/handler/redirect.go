package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pelican/internal/model"
	"pelican/internal/mq"
	"pelican/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Geo hint headers set by the edge in front of the service
const (
	HeaderCountry   = "X-Geo-Country"
	HeaderLatitude  = "X-Geo-Latitude"
	HeaderLongitude = "X-Geo-Longitude"
)

// RedirectHandler handles link resolution and redirection
type RedirectHandler struct {
	resolver   service.ResolverInterface
	mqProducer mq.ProducerInterface
}

// NewRedirectHandler creates a new RedirectHandler
func NewRedirectHandler(resolver service.ResolverInterface, mqProducer mq.ProducerInterface) *RedirectHandler {
	return &RedirectHandler{
		resolver:   resolver,
		mqProducer: mqProducer,
	}
}

// Redirect handles GET /:id
// @Summary Redirect to the link's destination
// @Description Resolves the identifier and redirects to the destination selected for the caller's country
// @Tags links
// @Param id path string true "Link id"
// @Success 302
// @Failure 404
// @Router /:id [get]
func (h *RedirectHandler) Redirect(c *gin.Context) {
	id := c.Param("id")

	link, err := h.resolver.Resolve(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.String(http.StatusNotFound, "Destination not found")
			return
		}
		c.String(http.StatusInternalServerError, "Resolution failed")
		return
	}

	country := strings.ToUpper(c.GetHeader(HeaderCountry))
	destination := h.resolver.SelectDestination(link, country)

	// Telemetry is best-effort and runs after the redirect decision; a
	// queue failure never delays or fails the response.
	msg := &model.ClickMessage{
		LinkID:      id,
		AccountID:   link.AccountID,
		Destination: destination,
		Country:     country,
		Latitude:    parseGeoHeader(c.GetHeader(HeaderLatitude)),
		Longitude:   parseGeoHeader(c.GetHeader(HeaderLongitude)),
		Timestamp:   time.Now().UTC(),
	}
	go func() {
		if err := h.mqProducer.SendLinkClick(context.Background(), msg); err != nil {
			log.Error().Err(err).Str("link_id", id).Msg("Failed to send link click to MQ")
		}
	}()

	c.Redirect(http.StatusFound, destination)
}

// parseGeoHeader parses an optional coordinate header
func parseGeoHeader(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
