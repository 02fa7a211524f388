package handler

import (
	"net/http"
	"time"

	"tariff-backend/internal/middleware"
	"tariff-backend/internal/model"
	"tariff-backend/internal/service"
	"tariff-backend/pkg/pagination"
	"tariff-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TariffRuleHandler struct {
	ruleService service.TariffRuleService
}

func NewTariffRuleHandler(ruleService service.TariffRuleService) *TariffRuleHandler {
	return &TariffRuleHandler{ruleService: ruleService}
}

func (h *TariffRuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	rules := router.Group("/api/tariff-rules")
	{
		rules.GET("", h.FindApplicable)
		rules.GET("/all", h.ListRules)
		rules.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateRule)
	}
}

// CreateRule creates a tariff rule after type/unit coherence validation
// @Summary      Create a new tariff rule (ad valorem / specific / compound)
// @Tags         tariff-rules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateTariffRuleRequest  true  "Tariff rule"
// @Success      201      {object}  response.Response{data=service.TariffRuleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/tariff-rules [post]
func (h *TariffRuleHandler) CreateRule(c *gin.Context) {
	var req service.CreateTariffRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.ruleService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success("Tariff rule created", rule))
}

// FindApplicable queries rules valid on a given date, most recent first.
// All filters are optional; a missing "on" defaults to today.
// @Summary      Query tariff rules applicable on a date
// @Tags         tariff-rules
// @Produce      json
// @Param        origin  query  string  false  "Origin ISO2"  example(SG)
// @Param        dest    query  string  false  "Destination ISO2"  example(US)
// @Param        hs      query  string  false  "HS code"  example(8517.12)
// @Param        on      query  string  false  "Date YYYY-MM-DD"
// @Success      200  {object}  response.Response{data=[]service.TariffRuleResponse}
// @Router       /api/tariff-rules [get]
func (h *TariffRuleHandler) FindApplicable(c *gin.Context) {
	var onDate *time.Time
	if on := c.Query("on"); on != "" {
		t, err := time.Parse("2006-01-02", on)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error("Invalid 'on' date format (expected YYYY-MM-DD)"))
			return
		}
		onDate = &t
	}

	rules, err := h.ruleService.FindApplicable(c.Request.Context(),
		c.Query("origin"), c.Query("dest"), c.Query("hs"), onDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}

	resp := make([]service.TariffRuleResponse, 0, len(rules))
	for _, r := range rules {
		resp = append(resp, service.ToTariffRuleResponse(r))
	}

	c.JSON(http.StatusOK, response.Success("Tariff rules retrieved", resp))
}

// ListRules returns all rules, paginated, newest validity first
func (h *TariffRuleHandler) ListRules(c *gin.Context) {
	params := pagination.Parse(c)

	rules, total, err := h.ruleService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}

	resp := make([]service.TariffRuleResponse, 0, len(rules))
	for _, r := range rules {
		resp = append(resp, service.ToTariffRuleResponse(r))
	}

	c.JSON(http.StatusOK, response.Success("Tariff rules retrieved", pagination.NewPage(resp, total, params)))
}
