package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	authctrl "carrental/app/echoServer/controller/auth"
	availctrl "carrental/app/echoServer/controller/availability"
	bookingctrl "carrental/app/echoServer/controller/booking"
	carctrl "carrental/app/echoServer/controller/car"
)

type C struct {
	Auth         *authctrl.Controller
	Car          *carctrl.Controller
	Booking      *bookingctrl.Controller
	Availability *availctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id / role extraction
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", int64(sub))
			if role, ok := claims["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Cars
	auth.GET("/cars", c.Car.List)
	auth.GET("/cars/:id", c.Car.Detail)
	auth.GET("/cars/:id/availability", c.Availability.Check)
	// Admin inventory
	auth.POST("/cars", c.Car.Create)
	auth.PUT("/cars/:id", c.Car.Update)
	auth.DELETE("/cars/:id", c.Car.Delete)
	auth.PATCH("/cars/:id/availability", c.Car.SetAvailability)

	// Bookings
	auth.POST("/bookings", c.Booking.Create)
	auth.PUT("/bookings/:id", c.Booking.Update)
	auth.DELETE("/bookings/:id", c.Booking.Delete)
	auth.GET("/bookings", c.Booking.ListAll)
	auth.GET("/bookings/my", c.Booking.ListMine)
	auth.PATCH("/bookings/:id/status", c.Booking.SetStatus)

	// Payments
	auth.POST("/bookings/:id/payments", c.Booking.RecordPayment)
	auth.GET("/bookings/:id/payments", c.Booking.ListPayments)

	// Reconciler triggers (admin)
	auth.POST("/availability/resync", c.Availability.Resync)
	auth.POST("/availability/sweep", c.Availability.Sweep)
}
