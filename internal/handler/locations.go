package handler

import (
	"net/http"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationsHandler struct{ svc service.LocationService }

func NewLocationsHandler(svc service.LocationService) *LocationsHandler {
	return &LocationsHandler{svc: svc}
}

// POST /v1/locations
func (h *LocationsHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLocation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /v1/locations
func (h *LocationsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
