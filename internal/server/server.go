package server

import (
	"context"
	"net/http"

	"github.com/cashdeskhq/cashdesk/internal/bankstatement"
	bankstatementdomain "github.com/cashdeskhq/cashdesk/internal/bankstatement/domain"
	"github.com/cashdeskhq/cashdesk/internal/cashclosing"
	cashclosingdomain "github.com/cashdeskhq/cashdesk/internal/cashclosing/domain"
	"github.com/cashdeskhq/cashdesk/internal/config"
	"github.com/cashdeskhq/cashdesk/internal/idempotency"
	"github.com/cashdeskhq/cashdesk/internal/observability/metrics"
	"github.com/cashdeskhq/cashdesk/internal/payment"
	paymentdomain "github.com/cashdeskhq/cashdesk/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	metrics.Module,
	idempotency.Module,
	payment.Module,
	cashclosing.Module,
	bankstatement.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

type ServerParam struct {
	fx.In

	Engine           *gin.Engine
	Log              *zap.Logger
	PaymentSvc       paymentdomain.Service
	CashClosingSvc   cashclosingdomain.Service
	BankStatementSvc bankstatementdomain.Service
}

type Server struct {
	engine           *gin.Engine
	log              *zap.Logger
	paymentSvc       paymentdomain.Service
	cashClosingSvc   cashclosingdomain.Service
	bankStatementSvc bankstatementdomain.Service
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine:           p.Engine,
		log:              p.Log.Named("server"),
		paymentSvc:       p.PaymentSvc,
		cashClosingSvc:   p.CashClosingSvc,
		bankStatementSvc: p.BankStatementSvc,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1", TenantContext())

	v1.POST("/payments", s.PostPayment)
	v1.GET("/payments", s.ListPayments)
	v1.GET("/payments/:id", s.GetPayment)

	v1.POST("/cash-closings", s.PostCashClosing)
	v1.POST("/cash-closings/:id/approve", s.PostCashClosingApprove)
	v1.GET("/cash-closings/:id", s.GetCashClosing)

	v1.POST("/bank-statements/import", s.PostBankStatementImport)
}

func run(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
