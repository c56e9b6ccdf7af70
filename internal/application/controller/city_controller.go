package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-api/internal/domain/model"
	"weather-api/internal/domain/usecase/city"
	"weather-api/pkg/apperror"
	"weather-api/pkg/util/numberutils"
)

type CityController struct {
	api     *echo.Group
	useCase city.UseCase
}

func NewCityController(api *echo.Group, useCase city.UseCase) *CityController {
	return &CityController{api: api, useCase: useCase}
}

// InitCityRoutes initializes city routes
func (controller *CityController) InitCityRoutes() {
	controller.api.POST("/cities", controller.Create)
	controller.api.GET("/cities", controller.FindAll)
	controller.api.GET("/cities/weather", controller.FindAllWithWeather)
	controller.api.GET("/cities/:name/weather", controller.FindLast7DaysWeather)
	controller.api.DELETE("/cities/:id", controller.Remove)
}

// Create godoc
// @Summary Add a city
// @Description Fetch the current weather of a city and store the city with its first snapshot
// @Tags cities
// @Accept json
// @Produce json
// @Param city body model.CreateCityDTO true "City name"
// @Success 201 {object} model.CityResponse "City with weather summary"
// @Failure 400 {object} model.ErrorResponse "Invalid request body"
// @Failure 404 {object} model.ErrorResponse "City not found upstream"
// @Failure 409 {object} model.ErrorResponse "City already exists"
// @Router /cities [post]
func (controller *CityController) Create(c echo.Context) error {
	var dto model.CreateCityDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Wrap(http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&dto); err != nil {
		return err
	}

	created, err := controller.useCase.Create(c.Request().Context(), dto.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// FindAll godoc
// @Summary List cities
// @Description List the stored cities with their temperature, feels like and humidity
// @Tags cities
// @Produce json
// @Success 200 {array} model.CityResponse "Cities with weather summary"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /cities [get]
func (controller *CityController) FindAll(c echo.Context) error {
	return controller.findAll(c, false)
}

// FindAllWithWeather godoc
// @Summary List cities with full weather data
// @Description List the stored cities with the timestamp and full payload of their snapshot
// @Tags cities
// @Produce json
// @Success 200 {array} model.CityResponse "Cities with weather detail"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /cities/weather [get]
func (controller *CityController) FindAllWithWeather(c echo.Context) error {
	return controller.findAll(c, true)
}

func (controller *CityController) findAll(c echo.Context, full bool) error {
	cities, err := controller.useCase.FindAll(c.Request().Context(), full)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cities)
}

// FindLast7DaysWeather godoc
// @Summary Get the last 7 days of weather
// @Description Daily summaries from today back six days, newest first. Days that could not be fetched are left out.
// @Tags cities
// @Produce json
// @Param name path string true "City name"
// @Success 200 {array} model.UnifiedDaySummary "Daily summaries"
// @Failure 404 {object} model.ErrorResponse "City not found upstream"
// @Failure 501 {object} model.ErrorResponse "Historical data not available for the configured provider"
// @Router /cities/{name}/weather [get]
func (controller *CityController) FindLast7DaysWeather(c echo.Context) error {
	days, err := controller.useCase.Last7Days(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, days)
}

// Remove godoc
// @Summary Remove a city
// @Description Delete a city and its weather snapshot
// @Tags cities
// @Produce json
// @Param id path int true "City ID"
// @Success 200 {object} entity.City "Removed city"
// @Failure 400 {object} model.ErrorResponse "Invalid id"
// @Failure 404 {object} model.ErrorResponse "City not found"
// @Router /cities/{id} [delete]
func (controller *CityController) Remove(c echo.Context) error {
	rawID := c.Param("id")
	if !numberutils.IsInt64(rawID) {
		return apperror.BadRequest("id must be an integer")
	}

	removed, err := controller.useCase.Remove(c.Request().Context(), numberutils.ToInt64(rawID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, removed)
}
