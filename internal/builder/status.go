package builder

import (
	"time"

	"modelkit/internal/manifest"
	"modelkit/pkg/types"
)

func (b *Builder) recordRender(m *manifest.Manifest, n int) {
	b.mu.Lock()
	b.rendersTotal++
	b.mu.Unlock()
	manifestsTotal.WithLabelValues("rendered").Inc()
	src := sourceOf(m)
	b.log.Debug().Str("source", src).Int("directives", m.Len()).Int("bytes", n).Msg("manifest rendered")
	b.pub.Publish(Event{Name: EventRendered, Source: src, Fields: map[string]any{"bytes": n, "directives": m.Len()}})
}

func (b *Builder) recordWrite(m *manifest.Manifest, path string, n int) {
	b.mu.Lock()
	b.writesTotal++
	b.mu.Unlock()
	manifestsTotal.WithLabelValues("written").Inc()
	src := sourceOf(m)
	b.log.Info().Str("source", src).Str("path", path).Int("bytes", n).Msg("manifest written")
	b.pub.Publish(Event{Name: EventWritten, Source: src, Fields: map[string]any{"path": path, "bytes": n}})
}

func (b *Builder) recordFailure(req types.ManifestRequest, op string, err error) {
	b.mu.Lock()
	b.failuresTotal++
	b.lastErr = err.Error()
	b.mu.Unlock()
	manifestsTotal.WithLabelValues("failed").Inc()
	src := firstNonEmpty(req.ModelPath, req.Model)
	b.log.Warn().Err(err).Str("op", op).Str("source", src).Msg("manifest failed")
	b.pub.Publish(Event{Name: EventFailed, Source: src, Fields: map[string]any{"op": op, "error": err.Error()}})
}

// Status builds a status response for /status.
func (b *Builder) Status() types.StatusResponse {
	b.mu.RLock()
	defer b.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		Models:         len(b.registry),
		RendersTotal:   b.rendersTotal,
		WritesTotal:    b.writesTotal,
		FailuresTotal:  b.failuresTotal,
		LastError:      b.lastErr,
		UptimeSeconds:  int64(now.Sub(b.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}
