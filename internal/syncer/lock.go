package syncer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/pkg/types"
)

// LockKey is the well-known settings key holding the drain lock.
const LockKey = "sync.drainLock"

// lockState is the serialized advisory lock: an owner token and a
// short lease. An expired lease counts as free, so a context that died
// mid-drain cannot wedge the queue forever.
type lockState struct {
	Owner   string    `json:"owner"`
	Expires time.Time `json:"expires"`
}

// acquireDrainLock takes the advisory drain lock, returning the owner
// token on success. The read-check-write runs inside the setting
// store's transactional Update, so two contexts cannot both win.
func acquireDrainLock(settings *store.SettingStore, ttl time.Duration, now time.Time) (string, error) {
	owner := uuid.NewString()
	err := settings.Update(LockKey, func(cur json.RawMessage, ok bool) (json.RawMessage, bool, error) {
		if ok {
			var state lockState
			// A corrupt lock value is treated as free.
			if err := json.Unmarshal(cur, &state); err == nil {
				if state.Owner != "" && now.Before(state.Expires) {
					return nil, false, types.ErrDrainLocked
				}
			}
		}
		next, err := json.Marshal(lockState{Owner: owner, Expires: now.Add(ttl)})
		if err != nil {
			return nil, false, err
		}
		return next, true, nil
	})
	if err != nil {
		return "", err
	}
	return owner, nil
}

// releaseDrainLock frees the lock if owner still holds it. A lock that
// expired and was re-acquired by another context is left alone.
func releaseDrainLock(settings *store.SettingStore, owner string) error {
	return settings.Update(LockKey, func(cur json.RawMessage, ok bool) (json.RawMessage, bool, error) {
		if !ok {
			return nil, false, nil
		}
		var state lockState
		if err := json.Unmarshal(cur, &state); err != nil {
			return nil, false, nil
		}
		if state.Owner != owner {
			return nil, false, types.ErrNotLockHolder
		}
		next, err := json.Marshal(lockState{})
		if err != nil {
			return nil, false, err
		}
		return next, true, nil
	})
}
