package fetch_test

import (
	"testing"

	"ytfetch/internal/fetch"
)

func TestPlanStrategiesOrdering(t *testing.T) {
	strategies := fetch.PlanStrategies("/tmp/jar.txt", []string{"firefox", "edge"})

	if len(strategies) != 4 {
		t.Fatalf("expected 4 strategies, got %d", len(strategies))
	}
	if strategies[0].Credential.Kind != fetch.CredentialFile || strategies[0].Credential.Path != "/tmp/jar.txt" {
		t.Fatalf("cookie jar must come first: %+v", strategies[0])
	}
	if strategies[1].Credential.Browser != "firefox" || strategies[2].Credential.Browser != "edge" {
		t.Fatalf("browsers must keep probe order: %+v", strategies[1:3])
	}
	if strategies[3].Credential.Kind != fetch.CredentialNone {
		t.Fatalf("unauthenticated fallback must be last: %+v", strategies[3])
	}
}

func TestPlanStrategiesWithoutJarOrBrowsers(t *testing.T) {
	strategies := fetch.PlanStrategies("", nil)
	if len(strategies) != 1 {
		t.Fatalf("expected the lone unauthenticated strategy, got %d", len(strategies))
	}
	if strategies[0].Credential.Kind != fetch.CredentialNone {
		t.Fatalf("unexpected strategy: %+v", strategies[0])
	}
}

func TestPlanStrategiesDeduplicates(t *testing.T) {
	strategies := fetch.PlanStrategies("", []string{"chrome", "chrome", "firefox"})

	count := 0
	for _, strategy := range strategies {
		if strategy.Credential.Kind == fetch.CredentialBrowser && strategy.Credential.Browser == "chrome" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("duplicate browser entries must collapse, got %d chrome strategies", count)
	}
	if len(strategies) != 3 {
		t.Fatalf("expected chrome, firefox, none; got %d strategies", len(strategies))
	}
}
