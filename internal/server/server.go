package server

import (
	"github.com/gin-gonic/gin"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	ledgerdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger/domain"
	paymentdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	receiptdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	Redis      *redis.Client       `optional:"true"`
	Gatherer   prometheus.Gatherer `optional:"true"`
	StaySvc    staydomain.Service
	PaymentSvc paymentdomain.Service
	RateSvc    ratedomain.Service
	ReceiptSvc receiptdomain.Service
	LedgerSvc  ledgerdomain.Service
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	db         *gorm.DB
	redis      *redis.Client
	gatherer   prometheus.Gatherer
	staySvc    staydomain.Service
	paymentSvc paymentdomain.Service
	rateSvc    ratedomain.Service
	receiptSvc receiptdomain.Service
	ledgerSvc  ledgerdomain.Service
	engine     *gin.Engine
}

func New(p Params) *Server {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg:        p.Config,
		log:        p.Log.Named("http"),
		db:         p.DB,
		redis:      p.Redis,
		gatherer:   p.Gatherer,
		staySvc:    p.StaySvc,
		paymentSvc: p.PaymentSvc,
		rateSvc:    p.RateSvc,
		receiptSvc: p.ReceiptSvc,
		ledgerSvc:  p.LedgerSvc,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() *gin.Engine {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.RequestID(), s.RequestLogger())

	r.GET("/healthz", s.Health)
	r.GET("/readyz", s.Readiness)
	if s.cfg.Metrics.Enabled && s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1", s.OrgRequired())
	{
		v1.GET("/ledger", s.GetOrgLedger)
		v1.GET("/ledger/hosts/:host_key", s.GetHostLedger)

		v1.POST("/stays", s.CreateStay)
		v1.GET("/stays", s.ListStays)
		v1.GET("/stays/:id", s.GetStay)
		v1.PUT("/stays/:id/occupancy", s.UpdateStayOccupancy)
		v1.GET("/stays/:id/financials", s.GetStayFinancials)

		v1.POST("/payments", s.RecordPayment)
		v1.GET("/payments", s.ListPayments)
		v1.POST("/payments/:id/apply-credit", s.ApplyCredit)
		v1.POST("/splits", s.CreateSplit)

		v1.GET("/rates/config", s.GetRateConfig)
		v1.PUT("/rates/config", s.UpsertRateConfig)
		v1.POST("/rates/quote", s.QuoteStay)

		v1.POST("/receipts", s.CreateReceipt)
		v1.GET("/receipts", s.ListReceipts)
	}
	return r
}
