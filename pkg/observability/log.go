package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event at debug level through a logger. It
// implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, prefixed "hooks".
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnNormalizeStart(_ context.Context, bags int) {
	h.logger.Debug("normalize start", "bags", bags)
}

func (h *LogHooks) OnNormalizeComplete(_ context.Context, nodes, width int, d time.Duration, err error) {
	h.logger.Debug("normalize done", "nodes", nodes, "width", width, "duration", d, "err", err)
}

func (h *LogHooks) OnEvaluateStart(_ context.Context, layers int) {
	h.logger.Debug("evaluate start", "layers", layers)
}

func (h *LogHooks) OnEvaluateComplete(_ context.Context, weight float64, d time.Duration, err error) {
	h.logger.Debug("evaluate done", "weight", weight, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
