package fetch

import "fmt"

// CredentialKind discriminates authentication credential variants.
type CredentialKind string

const (
	CredentialFile    CredentialKind = "file"
	CredentialBrowser CredentialKind = "browser"
	CredentialNone    CredentialKind = "none"
)

// Credential identifies one authentication source: a cookie jar on disk, a
// browser cookie store, or nothing.
type Credential struct {
	Kind    CredentialKind
	Path    string
	Browser string
}

func (c Credential) key() string {
	switch c.Kind {
	case CredentialFile:
		return "file:" + c.Path
	case CredentialBrowser:
		return "browser:" + c.Browser
	default:
		return "none"
	}
}

// Strategy pairs a credential with a human-readable description. List order
// is priority order.
type Strategy struct {
	Credential  Credential
	Description string
}

// PlanStrategies builds the ordered strategy list: the validated cookie jar
// first when present, one entry per available browser in probe order, and the
// unauthenticated fallback, always last. Duplicate credentials are dropped,
// first occurrence wins.
func PlanStrategies(jarPath string, browsers []string) []Strategy {
	var planned []Strategy
	if jarPath != "" {
		planned = append(planned, Strategy{
			Credential:  Credential{Kind: CredentialFile, Path: jarPath},
			Description: "cookie jar " + jarPath,
		})
	}
	for _, browser := range browsers {
		planned = append(planned, Strategy{
			Credential:  Credential{Kind: CredentialBrowser, Browser: browser},
			Description: fmt.Sprintf("%s browser cookies", browser),
		})
	}
	planned = append(planned, Strategy{
		Credential:  Credential{Kind: CredentialNone},
		Description: "no authentication",
	})

	return dedupeStrategies(planned)
}

func dedupeStrategies(strategies []Strategy) []Strategy {
	seen := make(map[string]struct{}, len(strategies))
	result := strategies[:0]
	for _, strategy := range strategies {
		key := strategy.Credential.key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, strategy)
	}
	return result
}
