package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chaos-io/cropserver/logging"
	"github.com/chaos-io/cropserver/util"
)

const defaultProxyContentType = "image/jpeg"

// proxy GET /img/proxy?url=...，前端 canvas 读取跨域图片时使用
func (h *handler) proxy(c *gin.Context) {
	raw := c.Query("url")
	if strings.TrimSpace(raw) == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	requestID := requestIDFrom(c)
	url := util.NormalizeURL(h.cfg.Fetch.BaseURL, raw)

	dl, err := util.DownloadImage(c.Request.Context(), h.cli, url, h.cfg.Fetch.Timeout, h.cfg.Fetch.MaxBytes)
	if err != nil {
		h.counters.ProxyFailed()
		logging.ForRequest(h.logger, c.FullPath(), requestID).
			Warn("proxy fetch failed", zap.String("url", url), zap.Error(err))
		c.Status(http.StatusBadGateway)
		return
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = defaultProxyContentType
	}

	h.counters.Proxied()
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, dl.Data)
}
