package tokencache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("credential not found")

// ErrRedisUnavailable wraps Redis transport failures.
var ErrRedisUnavailable = errors.New("token cache redis unavailable")

// Store persists credential records in Redis. It holds no in-process
// credential state; every operation is a Redis round trip, which is what
// makes rebinding across Client instances and process restarts safe.
type Store struct {
	redis  *redis.Client
	prefix string
}

// NewStore binds a store to a Redis client under the given key prefix.
func NewStore(redisClient *redis.Client, prefix string) *Store {
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) credentialKey(homeID, policy string) string {
	return s.prefix + ":cred:" + homeID + ":" + strings.ToLower(policy)
}

func (s *Store) accountsKey() string {
	return s.prefix + ":accounts"
}

// Put writes the credential and its account-index entry. A second Put for
// the same (account, policy) pair overwrites the previous record, keeping
// at most one live credential per pair.
func (s *Store) Put(ctx context.Context, c *Credential) error {
	encoded, err := EncodeCredential(c)
	if err != nil {
		return err
	}
	account, err := encodeAccount(c.Account)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.credentialKey(c.Account.HomeID, c.Policy), encoded, 0)
		pipe.HSet(ctx, s.accountsKey(), c.Account.HomeID, account)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get reads the credential for (homeID, policy). Expired records are
// returned so the caller can redeem refresh material; serving policy is the
// orchestrator's responsibility.
func (s *Store) Get(ctx context.Context, homeID, policy string) (*Credential, error) {
	data, err := s.redis.Get(ctx, s.credentialKey(homeID, policy)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return DecodeCredential(data)
}

// Remove deletes the account-index entry and every credential recorded for
// the account. Removing an unknown account is a no-op.
func (s *Store) Remove(ctx context.Context, homeID string) error {
	raw, err := s.redis.HGet(ctx, s.accountsKey(), homeID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	account, err := decodeAccount(raw)
	if err != nil {
		// Index entry is unreadable; still evict it so sign-out converges.
		account = Account{HomeID: homeID}
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if account.Policy != "" {
			pipe.Del(ctx, s.credentialKey(homeID, account.Policy))
		} else {
			// Legacy record without a policy attribute: fall back to the
			// policy suffix embedded in the local id.
			if suffix := legacyPolicySuffix(account); suffix != "" {
				pipe.Del(ctx, s.credentialKey(homeID, suffix))
			}
		}
		pipe.HDel(ctx, s.accountsKey(), homeID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Clear removes every account and credential under the store's prefix.
func (s *Store) Clear(ctx context.Context) error {
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, account := range accounts {
		if err := s.Remove(ctx, account.HomeID); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.redis.Del(ctx, s.accountsKey()).Err(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrRedisUnavailable, err))
	}
	return errors.Join(errs...)
}

// Accounts returns a point-in-time snapshot of the account index. The
// snapshot is copy-on-read: a concurrent Remove affects later snapshots,
// never a slice already returned. Enumeration order is not deterministic.
func (s *Store) Accounts(ctx context.Context) ([]Account, error) {
	raw, err := s.redis.HGetAll(ctx, s.accountsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	accounts := make([]Account, 0, len(raw))
	for _, encoded := range raw {
		account, err := decodeAccount([]byte(encoded))
		if err != nil {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// legacyPolicySuffix extracts a policy name from the local-id suffix of
// records that predate the first-class policy attribute. Local ids follow
// "<oid>-<policy>" with the policy lower-cased by the issuer.
func legacyPolicySuffix(a Account) string {
	local := a.LocalID()
	idx := strings.LastIndex(local, "-b2c_")
	if idx < 0 {
		return ""
	}
	return local[idx+1:]
}
