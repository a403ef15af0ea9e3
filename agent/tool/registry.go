// Package tool maps logical tool names and named bundles onto concrete tool
// instances scoped to a tenant.
package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/atende-ai/atende/agent/contract"
)

// Definition declares one resolvable tool. Exactly one of Instance (shared,
// tenant-independent) or Factory (fresh instance per tenant) must be set.
type Definition struct {
	Name      string
	Namespace string
	Category  string
	Instance  contractx.Tool
	Factory   func(ctx context.Context, tenantID string) (contractx.Tool, error)
}

// Registry resolves tool and bundle names. Construction fails fast on a
// malformed table; resolution degrades gracefully on unknown names so an
// agent with a broken tool reference still starts.
type Registry struct {
	defs    map[string]Definition
	order   []string
	bundles map[string][]string
	aliases map[string]string
}

func NewRegistry(defs []Definition, bundles map[string][]string, aliases map[string]string) (*Registry, error) {
	registry := &Registry{
		defs:    make(map[string]Definition, len(defs)),
		bundles: make(map[string][]string, len(bundles)),
		aliases: make(map[string]string, len(aliases)),
	}

	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool name is empty", contractx.ErrMalformedTool)
		}
		if _, exists := registry.defs[name]; exists {
			return nil, fmt.Errorf("%w: duplicate tool %q", contractx.ErrMalformedTool, name)
		}
		if (def.Instance == nil) == (def.Factory == nil) {
			return nil, fmt.Errorf("%w: tool %q must set exactly one of instance or factory", contractx.ErrMalformedTool, name)
		}
		registry.defs[name] = def
		registry.order = append(registry.order, name)
	}

	// Bundles may only reference concrete tool names; nesting would allow
	// cycles.
	for bundle, names := range bundles {
		if _, clash := registry.defs[bundle]; clash {
			return nil, fmt.Errorf("%w: bundle %q collides with a tool name", contractx.ErrMalformedTool, bundle)
		}
		for _, name := range names {
			if _, ok := registry.defs[name]; !ok {
				return nil, fmt.Errorf("%w: bundle %q references unknown tool %q", contractx.ErrMalformedTool, bundle, name)
			}
		}
		registry.bundles[bundle] = names
	}

	for alias, target := range aliases {
		if _, ok := registry.defs[target]; !ok {
			return nil, fmt.Errorf("%w: alias %q targets unknown tool %q", contractx.ErrMalformedTool, alias, target)
		}
		registry.aliases[alias] = target
	}

	return registry, nil
}

// Resolve expands bundles (one level), deduplicates preserving first-seen
// order, and instantiates each tool for the tenant. Unknown names are logged
// and skipped. Factory construction is not free; callers should cache the
// result per agent rather than resolve on every turn.
func (r *Registry) Resolve(ctx context.Context, namesOrBundles []string, tenantID string) ([]contractx.Tool, error) {
	names := r.expand(namesOrBundles)

	out := make([]contractx.Tool, 0, len(names))
	for _, name := range names {
		def, ok := r.defs[name]
		if !ok {
			log.Warn().Str("tool", name).Str("tenant_id", tenantID).Msg("tool not found in registry")
			continue
		}

		if def.Factory != nil {
			instance, err := def.Factory(ctx, tenantID)
			if err != nil {
				return nil, fmt.Errorf("construct tool %q for tenant %q: %w", name, tenantID, err)
			}
			out = append(out, instance)
			continue
		}
		out = append(out, def.Instance)
	}

	return out, nil
}

// expand splices bundle members in place of bundle names and canonicalizes
// legacy aliases, deduplicating by canonical name in first-seen order. The
// bundle table is consulted before the tool table: a name is a bundle iff it
// exists there.
func (r *Registry) expand(namesOrBundles []string) []string {
	var expanded []string
	for _, entry := range namesOrBundles {
		if members, isBundle := r.bundles[entry]; isBundle {
			expanded = append(expanded, members...)
			continue
		}
		expanded = append(expanded, entry)
	}

	seen := make(map[string]struct{}, len(expanded))
	out := make([]string, 0, len(expanded))
	for _, name := range expanded {
		if canonical, ok := r.aliases[name]; ok {
			name = canonical
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Bundles lists the registered bundle names.
func (r *Registry) Bundles() []string {
	out := make([]string, 0, len(r.bundles))
	for name := range r.bundles {
		out = append(out, name)
	}
	return out
}

// HasBundle reports whether name is a registered bundle.
func (r *Registry) HasBundle(name string) bool {
	_, ok := r.bundles[name]
	return ok
}

// ByNamespace lists definitions in a namespace, in registration order.
func (r *Registry) ByNamespace(namespace string) []Definition {
	var out []Definition
	for _, name := range r.order {
		if def := r.defs[name]; def.Namespace == namespace {
			out = append(out, def)
		}
	}
	return out
}

// funcTool adapts a closure into a contract.Tool.
type funcTool struct {
	info *schema.ToolInfo
	run  func(ctx context.Context, args map[string]any) (contractx.ToolResult, error)
}

func (t *funcTool) Info() *schema.ToolInfo { return t.info }

func (t *funcTool) Execute(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	return t.run(ctx, args)
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	return value, nil
}

func intArg(args map[string]any, key string, fallback int) int {
	raw, ok := args[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
