package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chaos-io/cropserver/crop"
	"github.com/chaos-io/cropserver/logging"
	"github.com/chaos-io/cropserver/util"
)

/*
	请求：{"imageUrl": "https://....jpg", "trim": false, "square": false}
	响应：{"success": true, "pngBase64": "....."}
	     {"success": false, "error": "..."}
*/
type cropRequest struct {
	ImageURL string `json:"imageUrl"`
	Trim     bool   `json:"trim"`
	Square   bool   `json:"square"`
}

type cropResponse struct {
	Success   bool   `json:"success"`
	PNGBase64 string `json:"pngBase64,omitempty"`
	Error     string `json:"error,omitempty"`
}

const (
	errNoImageURL = "no imageUrl"
	errCropFailed = "crop failed"
)

func (h *handler) crop(c *gin.Context) {
	logger := logging.ForRequest(h.logger, c.FullPath(), requestIDFrom(c))

	var req cropRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		h.counters.CropRejected()
		c.JSON(http.StatusBadRequest, cropResponse{Success: false, Error: errNoImageURL})
		return
	}

	url := util.NormalizeURL(h.cfg.Fetch.BaseURL, req.ImageURL)
	opts := crop.Options{Trim: req.Trim, Square: req.Square}

	encoded, err := h.cropImage(c.Request.Context(), logger, url, opts)
	if err != nil {
		h.counters.CropFailed()
		logger.Error("crop failed", zap.String("url", url),
			zap.String("stage", string(logging.StageOf(err))), zap.Error(err))

		msg := err.Error()
		if !h.cfg.Server.ExposeErrors {
			msg = errCropFailed
		}
		c.JSON(http.StatusInternalServerError, cropResponse{Success: false, Error: msg})
		return
	}

	h.counters.CropSucceeded()
	c.JSON(http.StatusOK, cropResponse{Success: true, PNGBase64: encoded})
}

// cropImage 下载 -> 解码 -> 抠图 -> PNG -> base64
func (h *handler) cropImage(ctx context.Context, logger *zap.Logger, url string, opts crop.Options) (string, error) {
	defer util.Trace(logger, "crop pipeline")()

	dl, err := util.DownloadImage(ctx, h.cli, url, h.cfg.Fetch.Timeout, h.cfg.Fetch.MaxBytes)
	if err != nil {
		return "", logging.WrapStage(logging.StageFetch, err)
	}

	img, format, err := crop.Decode(dl.Data, h.cfg.Image.MaxPixels)
	if err != nil {
		return "", logging.WrapStage(logging.StageDecode, err)
	}
	logger.Debug("image decoded", zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))

	out, err := h.processor.Process(ctx, img, opts)
	if err != nil {
		return "", logging.WrapStage(logging.StageRemove, err)
	}

	encoded, err := crop.EncodePNGBase64(out)
	return encoded, logging.WrapStage(logging.StageEncode, err)
}
