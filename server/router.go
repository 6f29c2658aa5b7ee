// Package server exposes the crop service over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chaos-io/cropserver/config"
	"github.com/chaos-io/cropserver/crop"
	"github.com/chaos-io/cropserver/stats"
	nhttp "github.com/chaos-io/cropserver/util/http"
)

type Deps struct {
	Config    *config.Config
	Processor *crop.Processor
	Client    nhttp.IClient
	Counters  *stats.Counters
	Logger    *zap.Logger
}

type handler struct {
	cfg       *config.Config
	processor *crop.Processor
	cli       nhttp.IClient
	counters  *stats.Counters
	logger    *zap.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	h := &handler{
		cfg:       deps.Config,
		processor: deps.Processor,
		cli:       deps.Client,
		counters:  deps.Counters,
		logger:    deps.Logger,
	}

	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(deps.Logger),
		CORS(deps.Config.Server.AllowedOrigins),
		Recovery(deps.Logger),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, cropResponse{Success: false, Error: "not found"})
	})

	r.POST("/crop", h.crop)
	r.GET("/img/proxy", h.proxy)
	r.GET("/health", h.health)

	return r
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"stats":  h.counters.Snapshot(),
	})
}
