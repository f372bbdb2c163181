package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"carrental/model"
	bs "carrental/service/booking"
	paymentsvc "carrental/service/payment"
	"carrental/util/dates"
)

type Controller struct {
	Svc      bs.Service
	Payments paymentsvc.Service
	V        *validator.Validate
	Log      *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": err.Error()})
	}
	start, _ := dates.Parse(req.StartDate)
	end, _ := dates.Parse(req.EndDate)
	uid, _ := c.Get("user_id").(int64)

	id, err := h.Svc.Create(c.Request().Context(), uid, req.CarID, start, end, req.TotalPrice)
	if err != nil {
		return h.bookingErr(c, "booking create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking_id": id})
}

// PUT /v1/bookings/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": err.Error()})
	}
	start, _ := dates.Parse(req.StartDate)
	end, _ := dates.Parse(req.EndDate)

	if err := h.Svc.UpdateDates(c.Request().Context(), id, start, end); err != nil {
		return h.bookingErr(c, "booking update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking updated"})
}

// DELETE /v1/bookings/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.bookingErr(c, "booking delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}

// GET /v1/bookings  (admin)
func (h *Controller) ListAll(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("booking list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/bookings/my
func (h *Controller) ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("booking list by user", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PATCH /v1/bookings/:id/status  (admin)
func (h *Controller) SetStatus(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": err.Error()})
	}
	if err := h.Svc.SetStatus(c.Request().Context(), id, model.BookingStatus(req.Status)); err != nil {
		return h.bookingErr(c, "booking set status", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated"})
}

// POST /v1/bookings/:id/payments
func (h *Controller) RecordPayment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RecordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields", "errors": err.Error()})
	}
	p, err := h.Payments.Record(c.Request().Context(), id, req.Amount, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, paymentsvc.ErrBadInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields"})
		case errors.Is(err, paymentsvc.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		}
		h.Log.Error("payment record", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /v1/bookings/:id/payments
func (h *Controller) ListPayments(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Payments.ListByBooking(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("payment list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Controller) bookingErr(c echo.Context, op string, err error) error {
	switch bs.Code(err) {
	case bs.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing or invalid fields"})
	case bs.ErrCarNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
	case bs.ErrCarUnavailable:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Car is not available"})
	case bs.ErrDateConflict:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Car is already booked for the selected dates"})
	case bs.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "DB error", "error": err.Error()})
}
