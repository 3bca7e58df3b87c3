package migrate

import (
	"encoding/json"

	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/pkg/types"
)

// Defaults for the well-known setting keys, matching what earlier
// releases shipped.
var (
	defaultProviderSettings = json.RawMessage(`{}`)
	defaultTabConfiguration = json.RawMessage(`{"userTabs":[],"developerTabs":[]}`)
	defaultPromptID         = json.RawMessage(`"default"`)
	jsonTrue                = json.RawMessage(`true`)
	jsonFalse               = json.RawMessage(`false`)
)

// Catalog builds the migration chains for every well-known setting key.
// All keys consult the key/value tier; tabConfiguration additionally
// consults the cookie tier, where a very old release kept it.
func Catalog(cfg types.Config) []Chain {
	var kv []Tier
	if cfg.LegacyKVPath != "" {
		kv = append(kv, NewKVFileTier(cfg.LegacyKVPath))
	}
	withCookie := kv
	if cfg.LegacyCookiePath != "" {
		withCookie = append(append([]Tier{}, kv...), NewCookieFileTier(cfg.LegacyCookiePath))
	}

	return []Chain{
		{Key: types.KeyProviderSettings, Default: defaultProviderSettings, Tiers: kv},
		{Key: types.KeyTabConfiguration, Default: defaultTabConfiguration, Tiers: withCookie},
		{Key: types.KeyLatestBranch, Default: jsonFalse, Tiers: kv},
		{Key: types.KeyAutoSelectTemplate, Default: jsonTrue, Tiers: kv},
		{Key: types.KeyContextOptimization, Default: jsonTrue, Tiers: kv},
		{Key: types.KeyEventLogs, Default: jsonTrue, Tiers: kv},
		{Key: types.KeyPromptID, Default: defaultPromptID, Tiers: kv},
		{Key: types.KeyDeveloperMode, Default: jsonFalse, Tiers: kv},
	}
}

// Loader resolves settings through the migration chain transparently:
// Load(key, default) is what UI-facing code calls instead of touching
// the store or tiers directly.
type Loader struct {
	settings *store.SettingStore
	chains   []Chain
	byKey    map[string]Chain
	tiers    []Tier
}

// NewLoader builds a Loader for cfg's legacy tiers over the canonical
// settings store.
func NewLoader(settings *store.SettingStore, cfg types.Config) *Loader {
	chains := Catalog(cfg)
	byKey := make(map[string]Chain, len(chains))
	for _, c := range chains {
		byKey[c.Key] = c
	}

	var tiers []Tier
	if cfg.LegacyKVPath != "" {
		tiers = append(tiers, NewKVFileTier(cfg.LegacyKVPath))
	}
	if cfg.LegacyCookiePath != "" {
		tiers = append(tiers, NewCookieFileTier(cfg.LegacyCookiePath))
	}

	return &Loader{settings: settings, chains: chains, byKey: byKey, tiers: tiers}
}

// Load resolves key through its chain, migrating legacy copies on first
// use. Keys outside the catalog get an ad-hoc chain over all tiers with
// the caller's default.
func (l *Loader) Load(key string, def json.RawMessage) (json.RawMessage, error) {
	return l.chainFor(key, def).Load(l.settings)
}

// LoadProvisional resolves key from the legacy tiers only, without
// migrating. Use it to avoid a flash of default state before Load runs;
// the result is always superseded by Load's outcome.
func (l *Loader) LoadProvisional(key string, def json.RawMessage) json.RawMessage {
	return l.chainFor(key, def).LoadProvisional()
}

// MigrateAll runs every cataloged chain once, typically at startup.
func (l *Loader) MigrateAll() error {
	for _, chain := range l.chains {
		if _, err := chain.Load(l.settings); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) chainFor(key string, def json.RawMessage) Chain {
	if c, ok := l.byKey[key]; ok {
		return c
	}
	return Chain{Key: key, Default: def, Tiers: l.tiers}
}
