package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/a2tp3/library-api/internal/api/middleware"
)

// ctxUserID returns the caller id injected by the Auth middleware. A missing
// value means the route was registered without the middleware.
func ctxUserID(c echo.Context) (int64, error) {
	id, _ := c.Get(middleware.ContextUserID).(int64)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := bind(c, req); err != nil {
		return err
	}
	return c.Validate(req)
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

func created(c echo.Context, location string, body any) error {
	c.Response().Header().Set(echo.HeaderLocation, location)
	return c.JSON(http.StatusCreated, body)
}
