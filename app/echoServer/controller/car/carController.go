package car

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"carrental/model"
	carsvc "carrental/service/car"
)

type Controller struct {
	Svc carsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// POST /v1/cars  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req CarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": err.Error()})
	}
	car := &model.Car{Model: req.Model, Brand: req.Brand, Type: req.Type, Year: req.Year, PricePerDay: req.PricePerDay}
	if err := h.Svc.Create(c.Request().Context(), car); err != nil {
		h.Log.Error("car create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, car)
}

// PUT /v1/cars/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": err.Error()})
	}
	car := &model.Car{ID: id, Model: req.Model, Brand: req.Brand, Type: req.Type, Year: req.Year, PricePerDay: req.PricePerDay}
	if err := h.Svc.Update(c.Request().Context(), car); err != nil {
		if errors.Is(err, carsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("car update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car updated"})
}

// DELETE /v1/cars/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, carsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("car delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car deleted"})
}

// GET /v1/cars
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("car list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/cars/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, carsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("car detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, row)
}

// PATCH /v1/cars/:id/availability  (admin)
func (h *Controller) SetAvailability(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields"})
	}
	if err := h.Svc.SetAvailability(c.Request().Context(), id, *req.Available); err != nil {
		if errors.Is(err, carsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("car set availability", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "availability updated"})
}
