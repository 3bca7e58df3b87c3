// Package migrate promotes settings left behind by earlier releases in
// lower-durability tiers (cookie file, key/value file) into the
// canonical settings store, exactly once. After a key is migrated the
// legacy copies are removed, so the chain is O(1) on subsequent boots.
package migrate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/pkg/types"
)

// ErrParse marks a legacy value that failed to deserialize. The chain
// treats it as absent and still removes the corrupt copy so the failure
// does not repeat on every boot.
var ErrParse = errors.New("legacy value failed to parse")

// Tier reads one legacy durability tier. A missing key reports ok=false
// with no error; errors are genuine storage failures.
type Tier interface {
	// Name identifies the tier in diagnostics.
	Name() string

	// Read returns the raw legacy value for key.
	Read(key string) (raw string, ok bool, err error)

	// Clear removes the legacy copy of key. Clearing an absent key is
	// success.
	Clear(key string) error
}

// Chain migrates one setting key through an ordered list of legacy
// tiers into the canonical store.
type Chain struct {
	// Key is the setting key, shared across all tiers.
	Key string

	// Default is written to the canonical store when no tier has a
	// usable value.
	Default json.RawMessage

	// Tiers are consulted in order, innermost (most durable) first.
	Tiers []Tier
}

// Load resolves the value for the chain's key:
//
//  1. The canonical store wins if it has the key.
//  2. Otherwise the first tier holding a parseable value is promoted:
//     written to the canonical store, cleared from the tier, returned.
//     A malformed value is cleared too, then treated as absent.
//  3. Otherwise Default is written to the canonical store and returned.
//
// After Load returns, exactly one durable copy remains and it equals
// the returned value. Concurrent callers converge because the canonical
// put uses the setting's natural key.
func (c Chain) Load(settings *store.SettingStore) (json.RawMessage, error) {
	value, err := settings.Get(c.Key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	for _, tier := range c.Tiers {
		raw, ok, err := tier.Read(c.Key)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s tier: %w", c.Key, tier.Name(), err)
		}
		if !ok {
			continue
		}

		parsed, perr := c.normalize(raw)
		// The legacy copy goes away either way; a corrupt value left
		// in place would fail again on every boot.
		if err := tier.Clear(c.Key); err != nil {
			return nil, fmt.Errorf("clearing %s from %s tier: %w", c.Key, tier.Name(), err)
		}
		if perr != nil {
			continue
		}

		if err := settings.Put(c.Key, parsed); err != nil {
			return nil, err
		}
		return parsed, nil
	}

	// Write the default only if the key is still absent: a concurrent
	// caller may have promoted a legacy value (and cleared its tier)
	// after our canonical read, and the default must not clobber it.
	// A chain without a default resolves to nil without writing.
	result := c.Default
	err = settings.Update(c.Key, func(cur json.RawMessage, ok bool) (json.RawMessage, bool, error) {
		if ok {
			result = cur
			return nil, false, nil
		}
		return c.Default, c.Default != nil, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LoadProvisional reads only the legacy tiers, without writing
// anywhere. It exists so callers can show a best-effort value before
// the canonical migration completes; its result is provisional and is
// always superseded by Load's outcome.
func (c Chain) LoadProvisional() json.RawMessage {
	for _, tier := range c.Tiers {
		raw, ok, err := tier.Read(c.Key)
		if err != nil || !ok {
			continue
		}
		if parsed, perr := c.normalize(raw); perr == nil {
			return parsed
		}
	}
	return c.Default
}

// normalize converts a raw legacy value into canonical JSON. Legacy
// tiers stored strings: JSON-encoded for structured settings, bare for
// string-valued ones (the chain tells them apart by the shape of its
// Default).
func (c Chain) normalize(raw string) (json.RawMessage, error) {
	if len(c.Default) > 0 && c.Default[0] == '"' {
		// String-valued settings were stored bare; re-quoting a value
		// that already is a JSON string would double-encode it.
		if json.Valid([]byte(raw)) && raw != "" && raw[0] == '"' {
			return json.RawMessage(raw), nil
		}
		quoted, _ := json.Marshal(raw)
		return json.RawMessage(quoted), nil
	}
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrParse, raw)
}
