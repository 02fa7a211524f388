package handler

import (
	"errors"
	"net/http"

	"tariff-backend/internal/service"
	"tariff-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CsvHandler struct {
	csvService service.CsvService
}

func NewCsvHandler(csvService service.CsvService) *CsvHandler {
	return &CsvHandler{csvService: csvService}
}

func (h *CsvHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/csv/calculate", h.CalculateFromCsv)
}

// CalculateFromCsv runs a bulk duty calculation from an uploaded CSV file.
// Expected columns: productId,originCountry,destCountry,quantity,customsValue
// @Summary      Bulk calculate tariff duty from a CSV upload
// @Tags         calculation
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  response.Response{data=service.BatchResult}
// @Failure      400   {object}  response.Response
// @Router       /api/csv/calculate [post]
func (h *CsvHandler) CalculateFromCsv(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("File is missing or empty"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Failed to open uploaded file: "+err.Error()))
		return
	}
	defer file.Close()

	result, err := h.csvService.CalculateFromCsv(c.Request.Context(), file)
	if err != nil {
		var parseErr *service.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, response.Error(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error("Error processing file: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success("Bulk calculation completed", result))
}
