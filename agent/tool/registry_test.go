package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/atende-ai/atende/agent/contract"
)

type staticTool struct {
	name string
}

func (t staticTool) Info() *schema.ToolInfo {
	return &schema.ToolInfo{Name: t.name}
}

func (t staticTool) Execute(context.Context, map[string]any) (contractx.ToolResult, error) {
	return contractx.ToolResult{Tool: t.name}, nil
}

func staticDefs(names ...string) []Definition {
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, Definition{Name: name, Namespace: "test", Instance: staticTool{name: name}})
	}
	return defs
}

func resolvedNames(t *testing.T, registry *Registry, names []string) []string {
	t.Helper()
	tools, err := registry.Resolve(context.Background(), names, "ortofaccia")
	if err != nil {
		t.Fatalf("Resolve(%v): %v", names, err)
	}
	out := make([]string, 0, len(tools))
	for _, tl := range tools {
		out = append(out, tl.Info().Name)
	}
	return out
}

func TestNewRegistryRejectsInstanceAndFactory(t *testing.T) {
	t.Parallel()

	defs := []Definition{{
		Name:     "broken",
		Instance: staticTool{name: "broken"},
		Factory: func(context.Context, string) (contractx.Tool, error) {
			return staticTool{name: "broken"}, nil
		},
	}}
	if _, err := NewRegistry(defs, nil, nil); !errors.Is(err, contractx.ErrMalformedTool) {
		t.Fatalf("err = %v, want ErrMalformedTool", err)
	}
}

func TestNewRegistryRejectsNeitherInstanceNorFactory(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry([]Definition{{Name: "hollow"}}, nil, nil); !errors.Is(err, contractx.ErrMalformedTool) {
		t.Fatalf("err = %v, want ErrMalformedTool", err)
	}
}

func TestNewRegistryRejectsBundleWithUnknownMember(t *testing.T) {
	t.Parallel()

	bundles := map[string][]string{"pack": {"a", "missing"}}
	if _, err := NewRegistry(staticDefs("a"), bundles, nil); !errors.Is(err, contractx.ErrMalformedTool) {
		t.Fatalf("err = %v, want ErrMalformedTool", err)
	}
}

func TestNewRegistryRejectsAliasToUnknownTool(t *testing.T) {
	t.Parallel()

	aliases := map[string]string{"short": "missing"}
	if _, err := NewRegistry(staticDefs("a"), nil, aliases); !errors.Is(err, contractx.ErrMalformedTool) {
		t.Fatalf("err = %v, want ErrMalformedTool", err)
	}
}

func TestResolveExpandsBundlesAndDeduplicates(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(
		staticDefs("x.one", "x.two", "x.three"),
		map[string][]string{"pack": {"x.one", "x.two"}},
		nil,
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	got := resolvedNames(t, registry, []string{"pack", "x.one", "x.three"})
	want := []string{"x.one", "x.two", "x.three"}
	if len(got) != len(want) {
		t.Fatalf("resolved = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("resolved = %v, want %v", got, want)
		}
	}
}

func TestResolveIsOrderInsensitiveAsASet(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(
		staticDefs("x.one", "x.two"),
		map[string][]string{"pack": {"x.one", "x.two"}},
		nil,
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	first := resolvedNames(t, registry, []string{"pack", "x.two"})
	second := resolvedNames(t, registry, []string{"x.two", "pack"})

	asSet := func(names []string) map[string]struct{} {
		set := make(map[string]struct{}, len(names))
		for _, name := range names {
			set[name] = struct{}{}
		}
		return set
	}
	a, b := asSet(first), asSet(second)
	if len(a) != len(b) {
		t.Fatalf("tool sets differ: %v vs %v", first, second)
	}
	for name := range a {
		if _, ok := b[name]; !ok {
			t.Fatalf("tool sets differ: %v vs %v", first, second)
		}
	}
}

func TestResolveSkipsUnknownNames(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(staticDefs("x.one"), nil, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	got := resolvedNames(t, registry, []string{"x.one", "x.ghost"})
	if len(got) != 1 || got[0] != "x.one" {
		t.Fatalf("resolved = %v, want [x.one]", got)
	}
}

func TestResolveAliasMatchesCanonicalName(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(
		staticDefs("x.one"),
		nil,
		map[string]string{"one": "x.one"},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	got := resolvedNames(t, registry, []string{"one", "x.one"})
	if len(got) != 1 || got[0] != "x.one" {
		t.Fatalf("resolved = %v, want [x.one]", got)
	}
}

func TestResolvePassesTenantToFactory(t *testing.T) {
	t.Parallel()

	var seen string
	defs := []Definition{{
		Name: "t.scoped",
		Factory: func(_ context.Context, tenantID string) (contractx.Tool, error) {
			seen = tenantID
			return staticTool{name: "t.scoped"}, nil
		},
	}}
	registry, err := NewRegistry(defs, nil, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, err := registry.Resolve(context.Background(), []string{"t.scoped"}, "silva-associados"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if seen != "silva-associados" {
		t.Fatalf("factory saw tenant %q", seen)
	}
}

func TestRegistryListing(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{Name: "a.one", Namespace: "a", Instance: staticTool{name: "a.one"}},
		{Name: "b.one", Namespace: "b", Instance: staticTool{name: "b.one"}},
		{Name: "a.two", Namespace: "a", Instance: staticTool{name: "a.two"}},
	}
	registry, err := NewRegistry(defs, map[string][]string{"pack": {"a.one"}}, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if !registry.HasBundle("pack") || registry.HasBundle("a.one") {
		t.Fatal("bundle lookup broken")
	}
	if got := registry.Bundles(); len(got) != 1 || got[0] != "pack" {
		t.Fatalf("Bundles = %v", got)
	}

	inA := registry.ByNamespace("a")
	if len(inA) != 2 || inA[0].Name != "a.one" || inA[1].Name != "a.two" {
		t.Fatalf("ByNamespace(a) = %+v", inA)
	}
}

func TestResolvePropagatesFactoryError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("no such tenant")
	defs := []Definition{{
		Name: "t.scoped",
		Factory: func(context.Context, string) (contractx.Tool, error) {
			return nil, wantErr
		},
	}}
	registry, err := NewRegistry(defs, nil, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, err := registry.Resolve(context.Background(), []string{"t.scoped"}, "ortofaccia"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped factory error", err)
	}
}
