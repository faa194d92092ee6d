package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a non-empty `disease` HTTP query parameter was provided
*/
func MandateDiseaseAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		diseaseQP := strings.TrimSpace(c.QueryParam("disease"))
		if len(diseaseQP) == 0 {
			// if no disease name was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'disease' query parameter for querying!")
		}

		return next(c)
	}
}
