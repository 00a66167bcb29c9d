package builder

import (
	"fmt"
	"sort"

	"modelkit/internal/manifest"
	"modelkit/internal/presets"
	"modelkit/internal/registry"
	"modelkit/pkg/types"
)

// Build assembles a manifest for req. The source is req.ModelPath when set,
// otherwise the registry path of req.Model. The preset (request or default)
// supplies template, stops and system instruction; non-empty request fields
// replace them. Directives are emitted as FROM, ADAPTER, TEMPLATE, stop
// rules, parameters (sorted by name), SYSTEM, LICENSE.
func (b *Builder) Build(req types.ManifestRequest) (*manifest.Manifest, error) {
	source, err := b.resolveSource(req)
	if err != nil {
		return nil, err
	}
	var p presets.Preset
	name := req.Preset
	if name == "" {
		name = b.defaultPreset
	}
	if name != "" {
		var ok bool
		if p, ok = presets.Lookup(name); !ok {
			return nil, ErrInvalidRequest(fmt.Sprintf("unknown preset %q", name))
		}
	}
	template := firstNonEmpty(req.Template, p.Template)
	system := firstNonEmpty(req.System, p.System)
	stops := p.Stops
	if len(req.Stops) > 0 {
		stops = req.Stops
	}

	m := manifest.New()
	if err := m.Add(manifest.KindSource, source); err != nil {
		return nil, err
	}
	if req.Adapter != "" {
		if err := m.Add(manifest.KindAdapter, req.Adapter); err != nil {
			return nil, err
		}
	}
	if template != "" {
		if err := m.Add(manifest.KindTemplate, template); err != nil {
			return nil, err
		}
	}
	for _, s := range stops {
		if err := m.Add(manifest.KindStop, s); err != nil {
			return nil, err
		}
	}
	keys := make([]string, 0, len(req.Parameters))
	for k := range req.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.AddParameter(k, req.Parameters[k]); err != nil {
			return nil, err
		}
	}
	if system != "" {
		if err := m.Add(manifest.KindSystem, system); err != nil {
			return nil, err
		}
	}
	if req.License != "" {
		if err := m.Add(manifest.KindLicense, req.License); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (b *Builder) resolveSource(req types.ManifestRequest) (string, error) {
	if req.ModelPath != "" {
		return req.ModelPath, nil
	}
	if req.Model == "" {
		return "", ErrInvalidRequest("model or model_path is required")
	}
	b.mu.RLock()
	mdl, ok := registry.Find(b.registry, req.Model)
	b.mu.RUnlock()
	if !ok {
		return "", ErrModelNotFound(req.Model)
	}
	return mdl.Path, nil
}

// Render builds and renders the manifest for req.
func (b *Builder) Render(req types.ManifestRequest) (string, error) {
	m, err := b.Build(req)
	if err != nil {
		b.recordFailure(req, "render", err)
		return "", err
	}
	text, err := m.Render()
	if err != nil {
		b.recordFailure(req, "render", err)
		return "", err
	}
	b.recordRender(m, len(text))
	return text, nil
}

// Write builds the manifest for req and writes it to path, returning the
// rendered text that was written.
func (b *Builder) Write(req types.ManifestRequest, path string) (string, error) {
	m, err := b.Build(req)
	if err != nil {
		b.recordFailure(req, "write", err)
		return "", err
	}
	text, err := m.Render()
	if err != nil {
		b.recordFailure(req, "write", err)
		return "", err
	}
	if err := m.Write(path); err != nil {
		b.recordFailure(req, "write", err)
		return "", err
	}
	b.recordRender(m, len(text))
	b.recordWrite(m, path, len(text))
	return text, nil
}

func sourceOf(m *manifest.Manifest) string {
	for _, d := range m.Directives() {
		if d.Kind == manifest.KindSource {
			return d.Payload
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
