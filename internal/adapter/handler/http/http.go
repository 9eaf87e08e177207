package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

const defaultPageLimit = 20

type BicycleHandler struct {
	bicycleService ports.BicycleService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

type BicycleRequest struct {
	ID    *int64 `json:"id,omitempty" example:"1"`
	Model string `json:"model" binding:"required" example:"Roadster"`
	Color string `json:"color" binding:"required" example:"Blue"`
}

type PatchBicycleRequest struct {
	Model *string `json:"model,omitempty" example:"Tourer"`
	Color *string `json:"color,omitempty" example:"Red"`
}

type BicycleResponse struct {
	ID    int64  `json:"id" example:"1"`
	Model string `json:"model" example:"Roadster"`
	Color string `json:"color" example:"Blue"`
}

type ListBicyclesResponse struct {
	Bicycles []BicycleResponse `json:"bicycles"`
	Page     int64             `json:"page"`
	Limit    int64             `json:"limit"`
	Count    int               `json:"count"`
}

func NewBicycleHandler(
	bicycleService ports.BicycleService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BicycleHandler {
	return &BicycleHandler{
		bicycleService: bicycleService,
		logger:         logger,
		metrics:        metrics,
	}
}

func toResponse(bike domain.Bicycle) BicycleResponse {
	return BicycleResponse{
		ID:    bike.ID,
		Model: bike.Model,
		Color: bike.Color.String(),
	}
}

// @Summary Index
// @Description Service greeting
// @Tags service
// @Produce plain
// @Success 200 {string} string "Bike Inventory!"
// @Router / [get]
func (h *BicycleHandler) Index(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	c.String(http.StatusOK, "Bike Inventory!")
}

// @Summary Create bicycle
// @Description Adds a bicycle to the inventory. Any id in the body is ignored.
// @Tags bicycles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BicycleRequest true "Bicycle"
// @Success 201 {object} BicycleResponse "Bicycle created"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 503 {object} errorResponse "Store unavailable"
// @Router /bike [post]
func (h *BicycleHandler) CreateBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()
	log := h.logger.WithContext(c.Request.Context())

	var req BicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Failed JSON parse in create bicycle", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike, err := domain.NewBicycle(0, req.Model, req.Color)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.bicycleService.CreateBicycle(c.Request.Context(), bike)
	if err != nil {
		handleServiceError(c, err, "Failed to create bicycle")
		return
	}

	log.Info("Bicycle created", withStaff(c, map[string]interface{}{
		"bike_id": created.ID,
	}))
	c.JSON(http.StatusCreated, toResponse(created))
}

// @Summary Get bicycle
// @Description Returns one bicycle by id
// @Tags bicycles
// @Produce json
// @Param id path int true "Bicycle id"
// @Success 200 {object} BicycleResponse "Bicycle found"
// @Failure 400 {object} errorResponse "Invalid id"
// @Failure 404 {object} errorResponse "Bicycle not found"
// @Router /bike/{id} [get]
func (h *BicycleHandler) GetBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, ok := parseID(c)
	if !ok {
		return
	}

	bike, err := h.bicycleService.GetBicycle(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, "Failed to get bicycle")
		return
	}

	c.JSON(http.StatusOK, toResponse(bike))
}

// @Summary Update bicycle
// @Description Replaces model and color of a bicycle. The path id wins over any id in the body.
// @Tags bicycles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Bicycle id"
// @Param request body BicycleRequest true "Bicycle"
// @Success 200 {object} BicycleResponse "Bicycle updated"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Bicycle not found"
// @Router /bike/{id} [put]
func (h *BicycleHandler) UpdateBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()
	log := h.logger.WithContext(c.Request.Context())

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req BicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Failed JSON parse in update bicycle", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": id,
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.ID != nil && *req.ID != id {
		log.Debug("Body id ignored in favour of path id", map[string]interface{}{
			"bike_id": id,
			"body_id": *req.ID,
		})
	}

	bike, err := domain.NewBicycle(id, req.Model, req.Color)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.bicycleService.UpdateBicycle(c.Request.Context(), bike)
	if err != nil {
		handleServiceError(c, err, "Failed to update bicycle")
		return
	}

	log.Info("Bicycle updated", withStaff(c, map[string]interface{}{
		"bike_id": updated.ID,
	}))
	c.JSON(http.StatusOK, toResponse(updated))
}

// @Summary Patch bicycle
// @Description Changes only the given fields. The merge runs under the row lock.
// @Tags bicycles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Bicycle id"
// @Param request body PatchBicycleRequest true "Fields to change"
// @Success 200 {object} BicycleResponse "Bicycle updated"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Bicycle not found"
// @Router /bike/{id} [patch]
func (h *BicycleHandler) PatchBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()
	log := h.logger.WithContext(c.Request.Context())

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PatchBicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Failed JSON parse in patch bicycle", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": id,
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	patch := domain.BicyclePatch{Model: req.Model}
	if req.Color != nil {
		color, err := domain.ParseColor(*req.Color)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		patch.Color = &color
	}

	patched, err := h.bicycleService.PatchBicycle(c.Request.Context(), id, patch)
	if err != nil {
		handleServiceError(c, err, "Failed to update bicycle")
		return
	}

	log.Info("Bicycle patched", withStaff(c, map[string]interface{}{
		"bike_id": patched.ID,
	}))
	c.JSON(http.StatusOK, toResponse(patched))
}

// @Summary List bicycles
// @Description Returns a page of bicycles ordered by id
// @Tags bicycles
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} ListBicyclesResponse "Bicycles"
// @Failure 400 {object} errorResponse "Invalid paging"
// @Router /bike [get]
func (h *BicycleHandler) ListBicycles(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	page, err := queryInt(c, "page", 0)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid page")
		return
	}
	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid limit")
		return
	}

	bikes, err := h.bicycleService.ListBicycles(c.Request.Context(), page, limit)
	if err != nil {
		handleServiceError(c, err, "Failed to list bicycles")
		return
	}

	items := make([]BicycleResponse, len(bikes))
	for i, bike := range bikes {
		items[i] = toResponse(bike)
	}

	c.JSON(http.StatusOK, ListBicyclesResponse{
		Bicycles: items,
		Page:     page,
		Limit:    limit,
		Count:    len(items),
	})
}

// withStaff adds the authenticated staff member, if any, to log fields.
func withStaff(c *gin.Context, fields map[string]interface{}) map[string]interface{} {
	if payload, ok := getAuthPayload(c, authorizationPayloadKey); ok {
		fields["staff_id"] = payload.StaffID.String()
		fields["role"] = string(payload.Role)
	}
	return fields
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bicycle id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int64) (int64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
