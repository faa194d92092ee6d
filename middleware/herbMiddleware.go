package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a non-empty `herb` HTTP query parameter was provided
*/
func MandateHerbAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		herbQP := strings.TrimSpace(c.QueryParam("herb"))
		if len(herbQP) == 0 {
			// if no herb name was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'herb' query parameter for querying!")
		}

		return next(c)
	}
}
