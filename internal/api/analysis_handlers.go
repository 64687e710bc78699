package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"leafscan-backend/internal/auth"
	"leafscan-backend/internal/inference"
	"leafscan-backend/internal/models"
)

// predictHandler handles POST /api/predict
func (h *Handlers) predictHandler(c echo.Context) error {
	user := auth.GetUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "image file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Logger().Error("open upload error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read upload",
		})
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		c.Logger().Error("read upload error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read upload",
		})
	}
	if len(image) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "empty file uploaded",
		})
	}

	pred, err := h.classifier.Classify(c.Request().Context(), image)
	if err != nil {
		if errors.Is(err, inference.ErrInvalidImage) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid image file",
			})
		}
		c.Logger().Error("classify error: ", err)
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "classification failed",
		})
	}

	analysis := &models.Analysis{
		UserID:         user.ID,
		PredictedClass: pred.Class,
		Confidence:     pred.Confidence,
	}
	if err := h.analyses.Create(c.Request().Context(), analysis); err != nil {
		c.Logger().Error("save analysis error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save analysis",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"class":      pred.Class,
		"confidence": pred.Confidence,
	})
}

// listAnalysesHandler handles GET /api/analyses
func (h *Handlers) listAnalysesHandler(c echo.Context) error {
	user := auth.GetUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid limit",
			})
		}
		limit = n
	}

	analyses, err := h.analyses.ListByUser(c.Request().Context(), user.ID, limit)
	if err != nil {
		c.Logger().Error("list analyses error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list analyses",
		})
	}
	if analyses == nil {
		analyses = []*models.Analysis{}
	}

	return c.JSON(http.StatusOK, analyses)
}
