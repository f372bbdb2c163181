// Package main car-rental booking API.
//
// @title           Car Rental API
// @version         1.0
// @description     car rental service (cars, bookings, availability, payments).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"carrental/app/echoServer"
	authctrl "carrental/app/echoServer/controller/auth"
	availctrl "carrental/app/echoServer/controller/availability"
	bookingctrl "carrental/app/echoServer/controller/booking"
	carctrl "carrental/app/echoServer/controller/car"
	"carrental/app/echoServer/validation"
	"carrental/config"
	bookingrepo "carrental/repository/booking"
	carrepo "carrental/repository/car"
	paymentrepo "carrental/repository/payment"
	userrepo "carrental/repository/user"
	authsvc "carrental/service/auth"
	availsvc "carrental/service/availability"
	bookingsvc "carrental/service/booking"
	carsvc "carrental/service/car"
	paymentsvc "carrental/service/payment"
	"carrental/util/database"
)

func main() {

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	go db.KeepAlive(ctx, time.Minute, log)

	// repos
	ur := userrepo.New(db.SQL())
	cr := carrepo.New(db.SQL())
	br := bookingrepo.New(db.SQL())
	pr := paymentrepo.New(db.SQL())

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	cs := carsvc.New(cr)
	bs := bookingsvc.New(br, cr)
	ps := paymentsvc.New(pr)
	avs := availsvc.New(br, cr)

	// background expiry sweep
	sched := availsvc.NewScheduler(avs, cfg.SweepInterval, log)
	sched.Start()
	defer sched.Stop()

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	carC := &carctrl.Controller{Svc: cs, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, Payments: ps, V: v, Log: log}
	availC := &availctrl.Controller{Svc: avs, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		Car:          carC,
		Booking:      bookingC,
		Availability: availC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		slog.Info("starting server", "port", port, "sweep_interval", cfg.SweepInterval.String())
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := e.Shutdown(shCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
