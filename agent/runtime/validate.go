package runtime

import (
	"fmt"

	"github.com/atende-ai/atende/agent/catalog"
	contractx "github.com/atende-ai/atende/agent/contract"
	"github.com/atende-ai/atende/agent/tool"
	"github.com/atende-ai/atende/pkg/timeutil"
)

// ValidateCatalog cross-checks the loaded configuration against the tool
// registry before serving: every tenant timezone must resolve and every
// industry bundle must exist. Run at startup; any error aborts.
func ValidateCatalog(tenants *catalog.TenantStore, agents *catalog.AgentStore, registry *tool.Registry) error {
	for _, tenant := range tenants.All() {
		if _, err := timeutil.LoadLocation(tenant.Business.Timezone); err != nil {
			return fmt.Errorf("%w: tenant %q timezone %q: %v", contractx.ErrValidation, tenant.ID, tenant.Business.Timezone, err)
		}
		for _, bundle := range tenant.Industry.ToolBundles {
			if !registry.HasBundle(bundle) {
				return fmt.Errorf("%w: tenant %q references unknown tool bundle %q", contractx.ErrValidation, tenant.ID, bundle)
			}
		}
	}

	for _, tenant := range tenants.All() {
		if len(agents.ByTenant(tenant.ID)) == 0 {
			return fmt.Errorf("%w: tenant %q has no agents configured", contractx.ErrValidation, tenant.ID)
		}
	}

	return nil
}
