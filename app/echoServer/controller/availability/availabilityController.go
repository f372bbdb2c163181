package availability

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	availsvc "carrental/service/availability"
	"carrental/util/dates"
)

type Controller struct {
	Svc availsvc.Service
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// GET /v1/cars/:id/availability?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *Controller) Check(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	start, err := dates.Parse(c.QueryParam("start_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": "start_date must be YYYY-MM-DD"})
	}
	end, err := dates.Parse(c.QueryParam("end_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": "end_date must be YYYY-MM-DD"})
	}

	res, err := h.Svc.CheckRange(c.Request().Context(), id, start, end)
	if err != nil {
		switch {
		case errors.Is(err, availsvc.ErrBadRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "end_date must be after start_date"})
		case errors.Is(err, availsvc.ErrCarNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("availability check", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/availability/resync  (admin)
func (h *Controller) Resync(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	res, err := h.Svc.Resync(c.Request().Context())
	if err != nil {
		h.Log.Error("availability resync", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/availability/sweep  (admin)
// Manual trigger for the same pass the scheduler runs.
func (h *Controller) Sweep(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	n, err := h.Svc.Sweep(c.Request().Context())
	if err != nil {
		h.Log.Error("availability sweep", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"expired_count": n})
}
