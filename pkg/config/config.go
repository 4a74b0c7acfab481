package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/authn/config"
	ConfigFileName    = "authn.yml"
)

// ValidAuthenticators is the list of valid authenticator types
var ValidAuthenticators = []string{"authn", "authn-jwt"}

// AuthnConfig holds all authentication service settings
type AuthnConfig struct {
	// Authenticators is a list of enabled authenticators
	Authenticators []string `yaml:"authenticators" json:"authenticators"`

	// CheckExpiry validates exp, nbf and iat on bearer tokens
	CheckExpiry bool `yaml:"check_expiry" json:"check_expiry"`

	// JWTIssuer is the expected iss claim
	JWTIssuer string `yaml:"jwt_issuer" json:"jwt_issuer"`

	// JWTAudience is the expected aud claim
	JWTAudience string `yaml:"jwt_audience" json:"jwt_audience"`

	// JWTAlgorithms restricts the accepted signing methods
	JWTAlgorithms []string `yaml:"jwt_algorithms" json:"jwt_algorithms"`

	// JWTHMACSecret verifies HS tokens. Read from the environment only.
	JWTHMACSecret string `yaml:"-" json:"-"`

	// JWTPublicKeys is an inline JWKS document
	JWTPublicKeys string `yaml:"jwt_public_keys" json:"jwt_public_keys"`

	// JWTPublicKeysFile is a JWKS file, reloaded when it changes
	JWTPublicKeysFile string `yaml:"jwt_public_keys_file" json:"jwt_public_keys_file"`

	// JWTJWKSURI is a remote JWKS endpoint
	JWTJWKSURI string `yaml:"jwt_jwks_uri" json:"jwt_jwks_uri"`

	// JWTLeewaySeconds is the tolerated clock skew
	JWTLeewaySeconds int `yaml:"jwt_leeway_seconds" json:"jwt_leeway_seconds"`

	// ClaimMapping renames issuer claims before decoding, e.g. groups: roles
	ClaimMapping map[string]string `yaml:"claim_mapping" json:"claim_mapping"`

	// TokenStatusFromStore checks token holders against the user store
	TokenStatusFromStore bool `yaml:"token_status_from_store" json:"token_status_from_store"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors AuthnConfig with pointers for values whose zero value is meaningful
type fileConfig struct {
	Authenticators       []string          `yaml:"authenticators"`
	CheckExpiry          *bool             `yaml:"check_expiry"`
	JWTIssuer            string            `yaml:"jwt_issuer"`
	JWTAudience          string            `yaml:"jwt_audience"`
	JWTAlgorithms        []string          `yaml:"jwt_algorithms"`
	JWTPublicKeys        string            `yaml:"jwt_public_keys"`
	JWTPublicKeysFile    string            `yaml:"jwt_public_keys_file"`
	JWTJWKSURI           string            `yaml:"jwt_jwks_uri"`
	JWTLeewaySeconds     *int              `yaml:"jwt_leeway_seconds"`
	ClaimMapping         map[string]string `yaml:"claim_mapping"`
	TokenStatusFromStore *bool             `yaml:"token_status_from_store"`
	TrustedProxies       []string          `yaml:"trusted_proxies"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *AuthnConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *AuthnConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *AuthnConfig {
	return &AuthnConfig{
		Authenticators: []string{"authn"},
		CheckExpiry:    true,
		JWTAlgorithms:  []string{},
		ClaimMapping:   map[string]string{},
		TrustedProxies: []string{},
		sources:        make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*AuthnConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("AUTHN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"authenticators", "check_expiry", "jwt_issuer", "jwt_audience",
		"jwt_algorithms", "jwt_hmac_secret", "jwt_public_keys",
		"jwt_public_keys_file", "jwt_jwks_uri", "jwt_leeway_seconds",
		"claim_mapping", "token_status_from_store", "trusted_proxies",
	}
}

func (c *AuthnConfig) applyFileConfig(file *fileConfig) {
	if len(file.Authenticators) > 0 {
		c.Authenticators = file.Authenticators
		c.sources["authenticators"] = "file"
	}
	if file.CheckExpiry != nil {
		c.CheckExpiry = *file.CheckExpiry
		c.sources["check_expiry"] = "file"
	}
	if file.JWTIssuer != "" {
		c.JWTIssuer = file.JWTIssuer
		c.sources["jwt_issuer"] = "file"
	}
	if file.JWTAudience != "" {
		c.JWTAudience = file.JWTAudience
		c.sources["jwt_audience"] = "file"
	}
	if len(file.JWTAlgorithms) > 0 {
		c.JWTAlgorithms = file.JWTAlgorithms
		c.sources["jwt_algorithms"] = "file"
	}
	if file.JWTPublicKeys != "" {
		c.JWTPublicKeys = file.JWTPublicKeys
		c.sources["jwt_public_keys"] = "file"
	}
	if file.JWTPublicKeysFile != "" {
		c.JWTPublicKeysFile = file.JWTPublicKeysFile
		c.sources["jwt_public_keys_file"] = "file"
	}
	if file.JWTJWKSURI != "" {
		c.JWTJWKSURI = file.JWTJWKSURI
		c.sources["jwt_jwks_uri"] = "file"
	}
	if file.JWTLeewaySeconds != nil {
		c.JWTLeewaySeconds = *file.JWTLeewaySeconds
		c.sources["jwt_leeway_seconds"] = "file"
	}
	if len(file.ClaimMapping) > 0 {
		c.ClaimMapping = file.ClaimMapping
		c.sources["claim_mapping"] = "file"
	}
	if file.TokenStatusFromStore != nil {
		c.TokenStatusFromStore = *file.TokenStatusFromStore
		c.sources["token_status_from_store"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *AuthnConfig) applyEnvConfig() error {
	if val := os.Getenv("AUTHN_AUTHENTICATORS"); val != "" {
		c.Authenticators = splitAndTrim(val)
		c.sources["authenticators"] = "environment"
	}
	if val := os.Getenv("AUTHN_CHECK_EXPIRY"); val != "" {
		c.CheckExpiry = val == "true" || val == "1"
		c.sources["check_expiry"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_ISSUER"); val != "" {
		c.JWTIssuer = val
		c.sources["jwt_issuer"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_AUDIENCE"); val != "" {
		c.JWTAudience = val
		c.sources["jwt_audience"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_ALGORITHMS"); val != "" {
		c.JWTAlgorithms = splitAndTrim(val)
		c.sources["jwt_algorithms"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_HMAC_SECRET"); val != "" {
		c.JWTHMACSecret = val
		c.sources["jwt_hmac_secret"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_PUBLIC_KEYS"); val != "" {
		c.JWTPublicKeys = val
		c.sources["jwt_public_keys"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_PUBLIC_KEYS_FILE"); val != "" {
		c.JWTPublicKeysFile = val
		c.sources["jwt_public_keys_file"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_JWKS_URI"); val != "" {
		c.JWTJWKSURI = val
		c.sources["jwt_jwks_uri"] = "environment"
	}
	if val := os.Getenv("AUTHN_JWT_LEEWAY_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.JWTLeewaySeconds = i
			c.sources["jwt_leeway_seconds"] = "environment"
		}
	}
	if val := os.Getenv("AUTHN_CLAIM_MAPPING"); val != "" {
		mapping, err := parseMapping(val)
		if err != nil {
			return err
		}
		c.ClaimMapping = mapping
		c.sources["claim_mapping"] = "environment"
	}
	if val := os.Getenv("AUTHN_TOKEN_STATUS_FROM_STORE"); val != "" {
		c.TokenStatusFromStore = val == "true" || val == "1"
		c.sources["token_status_from_store"] = "environment"
	}
	if val := os.Getenv("AUTHN_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *AuthnConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *AuthnConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Leeway returns the tolerated clock skew as a duration
func (c *AuthnConfig) Leeway() time.Duration {
	return time.Duration(c.JWTLeewaySeconds) * time.Second
}

// IsAuthenticatorEnabled checks if an authenticator is enabled
func (c *AuthnConfig) IsAuthenticatorEnabled(authenticator string) bool {
	for _, a := range c.Authenticators {
		if a == authenticator {
			return true
		}
	}
	return false
}

// HasTokenKeys reports whether any bearer token verification key is configured
func (c *AuthnConfig) HasTokenKeys() bool {
	return c.JWTHMACSecret != "" || c.JWTPublicKeys != "" || c.JWTPublicKeysFile != "" || c.JWTJWKSURI != ""
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *AuthnConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *AuthnConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	validAuthenticators := make(map[string]bool)
	for _, a := range ValidAuthenticators {
		validAuthenticators[a] = true
	}
	for _, auth := range c.Authenticators {
		if !validAuthenticators[auth] {
			return fmt.Errorf("invalid authenticator type: %s", auth)
		}
	}

	if c.IsAuthenticatorEnabled("authn-jwt") && !c.HasTokenKeys() {
		return fmt.Errorf("authn-jwt is enabled but no token verification key is configured")
	}

	if c.JWTPublicKeys != "" && c.JWTPublicKeysFile != "" {
		return fmt.Errorf("jwt_public_keys and jwt_public_keys_file are mutually exclusive")
	}

	if c.JWTLeewaySeconds < 0 {
		return fmt.Errorf("invalid jwt_leeway_seconds value: %d", c.JWTLeewaySeconds)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *AuthnConfig) Attributes() []Attribute {
	secret := ""
	if c.JWTHMACSecret != "" {
		secret = "(set)"
	}
	return []Attribute{
		{Name: "authenticators", Value: strings.Join(c.Authenticators, ","), Source: c.Source("authenticators")},
		{Name: "check_expiry", Value: strconv.FormatBool(c.CheckExpiry), Source: c.Source("check_expiry")},
		{Name: "jwt_issuer", Value: c.JWTIssuer, Source: c.Source("jwt_issuer")},
		{Name: "jwt_audience", Value: c.JWTAudience, Source: c.Source("jwt_audience")},
		{Name: "jwt_algorithms", Value: strings.Join(c.JWTAlgorithms, ","), Source: c.Source("jwt_algorithms")},
		{Name: "jwt_hmac_secret", Value: secret, Source: c.Source("jwt_hmac_secret")},
		{Name: "jwt_public_keys", Value: c.JWTPublicKeys, Source: c.Source("jwt_public_keys")},
		{Name: "jwt_public_keys_file", Value: c.JWTPublicKeysFile, Source: c.Source("jwt_public_keys_file")},
		{Name: "jwt_jwks_uri", Value: c.JWTJWKSURI, Source: c.Source("jwt_jwks_uri")},
		{Name: "jwt_leeway_seconds", Value: strconv.Itoa(c.JWTLeewaySeconds), Source: c.Source("jwt_leeway_seconds")},
		{Name: "claim_mapping", Value: formatMapping(c.ClaimMapping), Source: c.Source("claim_mapping")},
		{Name: "token_status_from_store", Value: strconv.FormatBool(c.TokenStatusFromStore), Source: c.Source("token_status_from_store")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
	}
}

// FormatText returns a text representation of the configuration
func (c *AuthnConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *AuthnConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// parseMapping parses "from=to,from2=to2"
func parseMapping(s string) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, pair := range splitAndTrim(s) {
		from, to, ok := strings.Cut(pair, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid claim_mapping entry: %q", pair)
		}
		mapping[from] = to
	}
	return mapping, nil
}

func formatMapping(m map[string]string) string {
	pairs := make([]string, 0, len(m))
	for from, to := range m {
		pairs = append(pairs, from+"="+to)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
