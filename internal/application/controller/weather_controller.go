package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-api/internal/domain/usecase/weather"
)

type WeatherController struct {
	api     *echo.Group
	useCase weather.UseCase
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase) *WeatherController {
	return &WeatherController{api: api, useCase: useCase}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.GET("/weather/:city", controller.GetCurrentWeather)
}

// GetCurrentWeather godoc
// @Summary Get the current weather of a city
// @Description Served from cache when fresh. When the provider is unavailable a stale or placeholder value is returned instead of an error.
// @Tags weather
// @Produce json
// @Param city path string true "City name"
// @Success 200 {object} model.UnifiedCurrentWeather "Current weather"
// @Failure 404 {object} model.ErrorResponse "City not found upstream"
// @Router /weather/{city} [get]
func (controller *WeatherController) GetCurrentWeather(c echo.Context) error {
	current, err := controller.useCase.GetCurrentWeather(c.Request().Context(), c.Param("city"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, current)
}
