package handler

import (
	"net/http"
	"strconv"

	"tariff-backend/internal/middleware"
	"tariff-backend/internal/model"
	"tariff-backend/internal/service"
	"tariff-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CountryHandler struct {
	countryService service.CountryService
}

func NewCountryHandler(countryService service.CountryService) *CountryHandler {
	return &CountryHandler{countryService: countryService}
}

func (h *CountryHandler) RegisterRoutes(router *gin.RouterGroup) {
	countries := router.Group("/api/countries")
	{
		countries.GET("", h.ListCountries)
		countries.GET("/:id", h.GetCountry)
		countries.GET("/code/:iso2", h.GetCountryByISO2)
		countries.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateCountry)
		countries.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateCountry)
		countries.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteCountry)
	}
}

func (h *CountryHandler) ListCountries(c *gin.Context) {
	countries, err := h.countryService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success("Countries retrieved", countries))
}

func (h *CountryHandler) GetCountry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid country id"))
		return
	}

	country, err := h.countryService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success("Country retrieved", country))
}

func (h *CountryHandler) GetCountryByISO2(c *gin.Context) {
	country, err := h.countryService.GetByISO2(c.Request.Context(), c.Param("iso2"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success("Country retrieved", country))
}

func (h *CountryHandler) CreateCountry(c *gin.Context) {
	var req service.CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	country, err := h.countryService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success("Country created", country))
}

func (h *CountryHandler) UpdateCountry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid country id"))
		return
	}

	var req service.CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	country, err := h.countryService.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success("Country updated", country))
}

func (h *CountryHandler) DeleteCountry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid country id"))
		return
	}

	if err := h.countryService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success("Country deleted", nil))
}
