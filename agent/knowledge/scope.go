// Package knowledge organizes the vector-searchable knowledge base in a
// two-tier hierarchy: industry-wide collections shared by every tenant of an
// industry, and tenant-specific collections.
package knowledge

import "github.com/atende-ai/atende/agent/catalog"

// IndustryCollection names the shared collection for an industry type.
func IndustryCollection(industryType string) string {
	return "industry_" + industryType
}

// TenantCollection names a tenant's own collection.
func TenantCollection(tenantID string) string {
	return "tenant_" + tenantID
}

// Collections resolves which collections a tenant searches, industry first,
// in a deterministic order. Both flags off yields an empty slice: the caller
// must treat that as "no knowledge available", not an error.
func Collections(tenant *catalog.Tenant) []string {
	var out []string
	if tenant.Industry.KnowledgeSources.IndustryKnowledge {
		out = append(out, IndustryCollection(tenant.Industry.Type))
	}
	if tenant.Industry.KnowledgeSources.TenantKnowledge {
		out = append(out, TenantCollection(tenant.ID))
	}
	return out
}
