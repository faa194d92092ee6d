package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a non-empty `term` HTTP query parameter was provided
*/
func MandateSearchTermAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		termQP := strings.TrimSpace(c.QueryParam("term"))
		if len(termQP) == 0 {
			// if no search term was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'term' query parameter for querying!")
		}

		return next(c)
	}
}
