package inspect

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arborui/locator/config"
	"github.com/arborui/locator/events"
	"github.com/arborui/locator/logging"
	"github.com/arborui/locator/registry"
)

// Server serves the inspection routes over one registry.
type Server struct {
	cfg     config.InspectConfig
	router  *gin.Engine
	reg     *registry.Registry
	log     *logging.Logger
	metrics *Metrics
	hub     *Hub
}

// NewServer creates an inspection server. Wire its Sink into the registry
// and scope so metrics and the stream see locator activity.
func NewServer(cfg config.InspectConfig, reg *registry.Registry, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.AllowCORS {
		router.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET"},
			AllowHeaders:    []string{"Origin", "Content-Type"},
		}))
	}

	s := &Server{
		cfg:     cfg,
		router:  router,
		reg:     reg,
		log:     log,
		metrics: NewMetrics(),
		hub:     NewHub(log),
	}

	router.GET("/registry", s.handleRegistry)
	router.GET("/stats", s.handleStats)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	router.GET("/stream", s.hub.HandleStream)

	return s
}

// Sink returns the sink that feeds metrics and the event stream.
func (s *Server) Sink() events.Sink {
	return events.Sinks{s.metrics, s.hub}
}

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Router returns the gin engine, for embedding or tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run blocks serving the inspection routes on the configured address.
func (s *Server) Run() error {
	s.log.Info("inspection surface listening", zap.String("addr", s.cfg.Addr()))
	return s.router.Run(s.cfg.Addr())
}

func (s *Server) handleRegistry(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": s.reg.Snapshot(),
		"count":   s.reg.Len(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operations":     s.metrics.Stats(),
		"entries":        s.reg.Len(),
		"stream_clients": s.hub.ClientCount(),
	})
}
