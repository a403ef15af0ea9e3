package knowledge

import (
	"context"
	"strings"
	"testing"
)

func TestCollectionsOrdering(t *testing.T) {
	t.Parallel()

	tenant := dentalTenant(true, true)
	got := Collections(tenant)
	want := []string{"industry_dental", "tenant_ortofaccia"}
	if len(got) != len(want) {
		t.Fatalf("Collections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Collections = %v, want %v", got, want)
		}
	}
}

func TestCollectionsFlags(t *testing.T) {
	t.Parallel()

	if got := Collections(dentalTenant(true, false)); len(got) != 1 || got[0] != "industry_dental" {
		t.Fatalf("industry-only = %v", got)
	}
	if got := Collections(dentalTenant(false, true)); len(got) != 1 || got[0] != "tenant_ortofaccia" {
		t.Fatalf("tenant-only = %v", got)
	}
	if got := Collections(dentalTenant(false, false)); len(got) != 0 {
		t.Fatalf("no-knowledge = %v", got)
	}
}

func TestSplitTextPacksParagraphs(t *testing.T) {
	t.Parallel()

	text := "Primeiro parágrafo.\n\nSegundo parágrafo.\n\nTerceiro parágrafo."
	chunks := SplitText(text, 45)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2: %q", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "Primeiro") || !strings.Contains(chunks[0], "Segundo") {
		t.Fatalf("chunks[0] = %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "Terceiro") {
		t.Fatalf("chunks[1] = %q", chunks[1])
	}
}

func TestSplitTextOversizedParagraph(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("palavra ", 50)
	chunks := SplitText(long, 40)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
}

func TestSplitTextEmpty(t *testing.T) {
	t.Parallel()

	if chunks := SplitText("   \n\n  ", 100); len(chunks) != 0 {
		t.Fatalf("chunks = %q, want none", chunks)
	}
}

func TestSeedCountsChunks(t *testing.T) {
	t.Parallel()

	store := NewStore(hashEmbedder{})
	docs := []Document{
		{Source: "faq", Filename: "faq.md", Category: "geral", Text: "Primeiro.\n\nSegundo."},
		{Source: "precos", Filename: "precos.md", Category: "preços", Text: "Tabela de preços."},
	}

	n, err := Seed(context.Background(), store, "tenant_ortofaccia", docs)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
}
