package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "loanguard-backend/internal/adapter/http"
	mw "loanguard-backend/internal/adapter/middleware"
	"loanguard-backend/internal/adapter/repository/mysql"
	"loanguard-backend/internal/authz"
	"loanguard-backend/internal/config"
	"loanguard-backend/internal/infrastructure/cache"
	"loanguard-backend/internal/infrastructure/db"
	activityuc "loanguard-backend/internal/usecase/activity"
	loanuc "loanguard-backend/internal/usecase/loan"
	paymentuc "loanguard-backend/internal/usecase/payment"
	profileuc "loanguard-backend/internal/usecase/profile"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	profileRepo := mysql.NewProfileRepository(gdb)
	loanRepo := mysql.NewLoanRepository(gdb)
	paymentRepo := mysql.NewPaymentRepository(gdb)
	activityRepo := mysql.NewActivityRepository(gdb)
	unit := mysql.NewGormUoW(gdb)

	// The resolver and the loan-owner lookup are the two privileged direct
	// reads; everything else goes through the evaluator.
	az := authz.NewEvaluator(authz.NewStoreResolver(gdb), loanRepo)

	profiles := profileuc.NewUsecase(profileRepo, az, cfg.DefaultLoanLimit)
	loans := loanuc.NewUsecase(loanRepo, unit, az, cfg.MaxLoanPrincipal)
	payments := paymentuc.NewUsecase(paymentRepo, unit, az)
	activities := activityuc.NewUsecase(activityRepo, az)

	h := httpadp.NewHandler()
	ph := httpadp.NewProfileHandler(profiles)
	lh := httpadp.NewLoanHandler(loans)
	pyh := httpadp.NewPaymentHandler(payments)
	ah := httpadp.NewActivityHandler(activities)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(mw.IdentityMiddleware())
	e.Use(mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/profiles/ensure", ph.EnsureProfile)
	e.GET("/profiles", ph.ListProfiles)
	e.GET("/profiles/:id", ph.GetProfile)
	e.PATCH("/profiles/:id", ph.UpdateProfile)

	e.POST("/loans", lh.ApplyLoan)
	e.GET("/loans", lh.ListLoans)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.POST("/loans/:loan_id/status", lh.TransitionLoan)
	e.GET("/loans/:loan_id/payments", pyh.ListLoanPayments)

	e.POST("/payments", pyh.RecordPayment)
	e.POST("/payments/:payment_id/status", pyh.UpdatePaymentStatus)

	e.POST("/activities", ah.LogActivity)
	e.GET("/activities", ah.ListActivities)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
