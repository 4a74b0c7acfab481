package token

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	remoteKeyTTL   = 5 * time.Minute
	remoteKeyLimit = 64

	// remoteMinRefresh bounds how often an unknown kid can trigger a fetch.
	remoteMinRefresh = 30 * time.Second
	maxJWKSBytes     = 1 << 20
)

// KeySet holds RSA verification keys indexed by key id.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
	path string

	uri        string
	client     *http.Client
	remote     *expirable.LRU[string, *rsa.PublicKey]
	minRefresh time.Duration

	fetchMu   sync.Mutex
	lastFetch time.Time
}

// NewKeySet returns an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]*rsa.PublicKey)}
}

// LoadInline adds the keys of an inline JWKS document. Both
// {"type":"jwks","value":{"keys":[...]}} and a bare {"keys":[...]} are accepted.
func (k *KeySet) LoadInline(doc string) error {
	keys, err := parsePublicKeys([]byte(doc))
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	for kid, key := range keys {
		k.keys[kid] = key
	}
	return nil
}

// LoadFile replaces the file backed keys with the content of path.
func (k *KeySet) LoadFile(path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read public keys file: %w", err)
	}
	keys, err := parsePublicKeys(body)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = keys
	k.path = path
	return nil
}

// SetRemote configures a JWKS URI. Fetched keys are cached for five minutes.
func (k *KeySet) SetRemote(uri string, client *http.Client) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.uri = uri
	k.client = client
	k.remote = expirable.NewLRU[string, *rsa.PublicKey](remoteKeyLimit, nil, remoteKeyTTL)
	k.minRefresh = remoteMinRefresh
}

// Len returns the number of keys currently usable without a remote fetch.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	n := len(k.keys)
	if k.remote != nil {
		n += k.remote.Len()
	}
	return n
}

// Key returns the key for kid, fetching the remote JWKS on a miss. Misses
// within 30 seconds of the previous fetch do not fetch again.
// An empty kid matches when the set holds exactly one local key.
func (k *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := k.lookup(kid); ok {
		return key, nil
	}

	k.mu.RLock()
	uri := k.uri
	k.mu.RUnlock()
	if uri == "" {
		return nil, fmt.Errorf("key %q not found", kid)
	}

	if err := k.refreshStale(ctx); err != nil {
		return nil, err
	}
	if key, ok := k.lookup(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("key %q not found", kid)
}

func (k *KeySet) lookup(kid string) (*rsa.PublicKey, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if key, ok := k.keys[kid]; ok {
		return key, true
	}
	if k.remote != nil {
		if key, ok := k.remote.Get(kid); ok {
			return key, true
		}
	}
	if kid == "" && len(k.keys) == 1 {
		for _, key := range k.keys {
			return key, true
		}
	}
	return nil, false
}

// Refresh fetches the remote JWKS, or reloads the keys file when no URI is set.
func (k *KeySet) Refresh(ctx context.Context) error {
	k.mu.RLock()
	uri, client, remote, path := k.uri, k.client, k.remote, k.path
	k.mu.RUnlock()

	if uri == "" {
		if path != "" {
			return k.LoadFile(path)
		}
		return nil
	}

	k.fetchMu.Lock()
	defer k.fetchMu.Unlock()
	return k.fetchLocked(ctx, uri, client, remote)
}

func (k *KeySet) refreshStale(ctx context.Context) error {
	k.mu.RLock()
	uri, client, remote, minRefresh := k.uri, k.client, k.remote, k.minRefresh
	k.mu.RUnlock()

	k.fetchMu.Lock()
	defer k.fetchMu.Unlock()
	if !k.lastFetch.IsZero() && time.Since(k.lastFetch) < minRefresh {
		return nil
	}
	return k.fetchLocked(ctx, uri, client, remote)
}

// fetchLocked must be called with fetchMu held.
func (k *KeySet) fetchLocked(ctx context.Context, uri string, client *http.Client, remote *expirable.LRU[string, *rsa.PublicKey]) error {
	k.lastFetch = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch JWKS: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read JWKS: %w", err)
	}
	if len(body) > maxJWKSBytes {
		return fmt.Errorf("JWKS response exceeds %d bytes", maxJWKSBytes)
	}

	keys, err := parseJWKSBody(body)
	if err != nil {
		return err
	}
	for kid, key := range keys {
		remote.Add(kid, key)
	}
	return nil
}

// Watch reloads the keys file whenever it is written or recreated. It blocks
// until ctx is done.
func (k *KeySet) Watch(ctx context.Context) error {
	k.mu.RLock()
	path := k.path
	k.mu.RUnlock()
	if path == "" {
		return fmt.Errorf("no public keys file loaded")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if err := k.LoadFile(path); err != nil {
					log.Printf("Failed to reload public keys from %s: %v", path, err)
					continue
				}
				log.Printf("Reloaded public keys from %s", path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Public keys watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

// parsePublicKeys accepts {"type":"jwks","value":{...}} or a bare JWKS document.
func parsePublicKeys(doc []byte) (map[string]*rsa.PublicKey, error) {
	var publicKeys struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(doc, &publicKeys); err != nil {
		return nil, fmt.Errorf("failed to parse public-keys: %w", err)
	}

	if publicKeys.Type == "" {
		return parseJWKSBody(doc)
	}
	if publicKeys.Type != "jwks" {
		return nil, fmt.Errorf("unsupported public-keys type: %s", publicKeys.Type)
	}
	return parseJWKSBody(publicKeys.Value)
}

// parseJWKSBody extracts the RSA keys of a JWKS document. Other key types and
// keys that fail to decode are skipped.
func parseJWKSBody(body []byte) (map[string]*rsa.PublicKey, error) {
	var jwks struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(body, &jwks); err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for _, keyData := range jwks.Keys {
		var keyInfo struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			N   string `json:"n"`
			E   string `json:"e"`
		}
		if err := json.Unmarshal(keyData, &keyInfo); err != nil {
			continue
		}
		if keyInfo.Kty != "RSA" {
			continue
		}

		pubKey, err := parseRSAPublicKey(keyInfo.N, keyInfo.E)
		if err != nil {
			continue
		}
		keys[keyInfo.Kid] = pubKey
	}
	return keys, nil
}

// parseRSAPublicKey parses an RSA public key from JWK components
func parseRSAPublicKey(nBase64, eBase64 string) (*rsa.PublicKey, error) {
	nBytes, err := jwt.NewParser().DecodeSegment(nBase64)
	if err != nil {
		return nil, err
	}

	eBytes, err := jwt.NewParser().DecodeSegment(eBase64)
	if err != nil {
		return nil, err
	}

	if len(eBytes) > 4 {
		return nil, fmt.Errorf("RSA exponent too large")
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 + int(b)
	}
	if e == 0 || len(nBytes) == 0 {
		return nil, fmt.Errorf("invalid RSA key components")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
