package handler

import (
	"errors"
	"net/http"

	"tariff-backend/internal/service"
	"tariff-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalculationHandler struct {
	calcService service.CalculationService
}

func NewCalculationHandler(calcService service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcService: calcService}
}

func (h *CalculationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/calculate", h.Calculate)
}

// Calculate computes the import duty for a single item
// @Summary      Calculate tariff duty (ad valorem / specific / compound)
// @Tags         calculation
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CalculationRequest  true  "Calculation input"
// @Success      200      {object}  response.Response{data=service.CalculationResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/calculate [post]
func (h *CalculationHandler) Calculate(c *gin.Context) {
	var req service.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.calcService.Calculate(c.Request.Context(), req)
	if err != nil {
		var noRule *service.NoApplicableRuleError
		if errors.As(err, &noRule) {
			c.JSON(http.StatusBadRequest, response.Error(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success("Calculation completed successfully", result))
}
