package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"healthreg/internal/repository"
)

// csvParam splits a comma-separated query value, dropping blanks.
func csvParam(c echo.Context, name string) []string {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intParam(c echo.Context, name string, def int) int {
	if raw := c.QueryParam(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

func dateParam(c echo.Context, name string) *time.Time {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	// endDate is inclusive: push it to the end of the day
	if name == "endDate" {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t
}

func uintsParam(c echo.Context, name string) []uint {
	var out []uint
	for _, v := range csvParam(c, name) {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			out = append(out, uint(id))
		}
	}
	return out
}

// residentFiltersFromQuery parses the shared list/export filter surface.
func residentFiltersFromQuery(c echo.Context) repository.ResidentFilters {
	return repository.ResidentFilters{
		PHC:            c.QueryParam("phc"),
		MobileStatus:   c.QueryParam("mobileStatus"),
		HealthIDStatus: c.QueryParam("healthIdStatus"),
		RuralUrban:     c.QueryParam("ruralUrban"),
		Search:         strings.TrimSpace(c.QueryParam("search")),
		OfficerIDs:     uintsParam(c, "officers"),
		StartDate:      dateParam(c, "startDate"),
		EndDate:        dateParam(c, "endDate"),
		Page:           intParam(c, "page", 1),
		Limit:          intParam(c, "limit", 50),
	}
}
