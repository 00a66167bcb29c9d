package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"modelkit/internal/manifest"
	"modelkit/pkg/types"
)

func testRegistry() []types.Model {
	return []types.Model{{ID: "m.gguf", Name: "m", Path: "/models/m.gguf"}}
}

func TestBuild_ExplicitPathWins(t *testing.T) {
	b := New(Config{Registry: testRegistry()})
	m, err := b.Build(types.ManifestRequest{Model: "m.gguf", ModelPath: "./out/unsloth.Q8_0.gguf"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := m.Directives()[0]; got.Kind != manifest.KindSource || got.Payload != "./out/unsloth.Q8_0.gguf" {
		t.Fatalf("unexpected source: %+v", got)
	}
}

func TestBuild_RegistryLookup(t *testing.T) {
	b := New(Config{Registry: testRegistry()})
	text, err := b.Render(types.ManifestRequest{Model: "m.gguf"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if text != "FROM /models/m.gguf\n" {
		t.Fatalf("got %q", text)
	}
}

func TestBuild_Errors(t *testing.T) {
	b := New(Config{Registry: testRegistry()})
	if _, err := b.Build(types.ManifestRequest{}); !IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if _, err := b.Build(types.ManifestRequest{Model: "nope.gguf"}); !IsModelNotFound(err) {
		t.Fatalf("expected model not found, got %v", err)
	}
	if _, err := b.Build(types.ManifestRequest{ModelPath: "x.gguf", Preset: "nope"}); !IsInvalidRequest(err) {
		t.Fatalf("expected invalid request for unknown preset, got %v", err)
	}
	if _, err := b.Build(types.ManifestRequest{ModelPath: "x.gguf", Stops: []string{`bad"stop`}}); !manifest.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestBuild_PresetAndOverrides(t *testing.T) {
	b := New(Config{DefaultPreset: "llama3"})
	m, err := b.Build(types.ManifestRequest{ModelPath: "m.gguf", System: "Be terse."})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var kinds []manifest.Kind
	for _, d := range m.Directives() {
		kinds = append(kinds, d.Kind)
	}
	want := []manifest.Kind{manifest.KindSource, manifest.KindTemplate, manifest.KindStop, manifest.KindStop, manifest.KindStop, manifest.KindSystem}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}

	// request stops replace preset stops, request template replaces preset template
	m, err = b.Build(types.ManifestRequest{ModelPath: "m.gguf", Preset: "chatml", Template: "{{ .Prompt }}", Stops: []string{"END"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ds := m.Directives()
	if len(ds) != 3 || ds[1].Payload != "{{ .Prompt }}" || ds[2].Payload != "END" {
		t.Fatalf("unexpected directives: %+v", ds)
	}
}

func TestBuild_FullOrder(t *testing.T) {
	b := New(Config{})
	text, err := b.Render(types.ManifestRequest{
		ModelPath:  "/m.gguf",
		Adapter:    "/lora",
		Template:   "T",
		Stops:      []string{"s1", "s2"},
		Parameters: map[string]string{"temperature": "0.7", "num_ctx": "4096"},
		System:     "S",
		License:    "L",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"FROM /m.gguf",
		"ADAPTER /lora",
		`TEMPLATE """T"""`,
		`PARAMETER stop "s1"`,
		`PARAMETER stop "s2"`,
		"PARAMETER num_ctx 4096",
		"PARAMETER temperature 0.7",
		`SYSTEM """S"""`,
		`LICENSE """L"""`,
	}, "\n") + "\n"
	if diff := cmp.Diff(want, text); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestWrite_PublishesAndCounts(t *testing.T) {
	pub := NewMemoryPublisher()
	b := New(Config{Registry: testRegistry(), Publisher: pub})
	p := filepath.Join(t.TempDir(), "Modelfile")
	text, err := b.Write(types.ManifestRequest{Model: "m.gguf", Stops: []string{"<|eot_id|>"}}, p)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	got, _ := os.ReadFile(p)
	if string(got) != text {
		t.Fatalf("file %q != returned %q", got, text)
	}
	if _, err := b.Write(types.ManifestRequest{Model: "m.gguf"}, filepath.Join(t.TempDir(), "missing", "Modelfile")); !manifest.IsIOError(err) {
		t.Fatalf("expected IOError, got %v", err)
	}

	st := b.Status()
	if st.Models != 1 || st.RendersTotal != 1 || st.WritesTotal != 1 || st.FailuresTotal != 1 || st.LastError == "" {
		t.Fatalf("unexpected status: %+v", st)
	}
	evs := pub.Events()
	if len(evs) != 3 {
		t.Fatalf("events=%+v", evs)
	}
	if evs[0].Name != EventRendered || evs[1].Name != EventWritten || evs[2].Name != EventFailed {
		t.Fatalf("unexpected event order: %+v", evs)
	}
	if evs[1].Source != "/models/m.gguf" || evs[1].Fields["path"] != p {
		t.Fatalf("unexpected written event: %+v", evs[1])
	}
}

func TestListModelsReturnsCopy(t *testing.T) {
	b := New(Config{Registry: testRegistry()})
	ms := b.ListModels()
	ms[0].ID = "changed"
	if b.ListModels()[0].ID != "m.gguf" {
		t.Fatalf("ListModels leaked registry")
	}
	b.SetRegistry(nil)
	if len(b.ListModels()) != 0 {
		t.Fatalf("SetRegistry did not replace registry")
	}
}
