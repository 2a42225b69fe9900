package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"DumaVault/config"
	"DumaVault/model"
)

// Provider identifies one supported storage backend.
type Provider string

const (
	ProviderS3     Provider = "s3"
	ProviderWasabi Provider = "wasabi"
	ProviderOracle Provider = "oracle"
)

// Providers lists every supported provider in fan-out order.
var Providers = []Provider{ProviderS3, ProviderWasabi, ProviderOracle}

// ParseProvider normalizes a provider name.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderS3:
		return ProviderS3, nil
	case ProviderWasabi:
		return ProviderWasabi, nil
	case ProviderOracle:
		return ProviderOracle, nil
	}
	return "", fmt.Errorf("unsupported storage provider: %s", name)
}

// Client couples a Store with the bucket it should operate on.
type Client struct {
	Store  Store
	Bucket string
}

// defaultClients caches one client per provider for pod-default credentials.
// Insert is idempotent: concurrent construction builds equivalent clients, so
// whichever lands first wins.
var defaultClients sync.Map // Provider -> *Client

func providerConfig(provider Provider) (config.ProviderConfig, error) {
	cfg := config.ProvidersConfigInstance
	if cfg == nil {
		return config.ProviderConfig{}, fmt.Errorf("provider config not initialized")
	}
	switch provider {
	case ProviderS3:
		return cfg.S3, nil
	case ProviderWasabi:
		return cfg.Wasabi, nil
	case ProviderOracle:
		return cfg.Oracle, nil
	}
	return config.ProviderConfig{}, fmt.Errorf("unsupported storage provider: %s", provider)
}

// DefaultClient resolves the cached client for a provider's default
// credentials, constructing it lazily.
func DefaultClient(provider Provider) (*Client, error) {
	if cached, ok := defaultClients.Load(provider); ok {
		return cached.(*Client), nil
	}
	cfg, err := providerConfig(provider)
	if err != nil {
		return nil, err
	}
	if cfg.AccessKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("provider %s: default credentials not configured", provider)
	}
	store, err := NewMinioStore(trimEndpoint(cfg.Endpoint), cfg.AccessKey, cfg.SecretKey, cfg.Region, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	client := &Client{Store: store, Bucket: cfg.Bucket}
	actual, _ := defaultClients.LoadOrStore(provider, client)
	return actual.(*Client), nil
}

// CustomClient builds a transient, uncached client from a pod's stored
// credential.
func CustomClient(provider Provider, cred *model.ProviderCredential) (*Client, error) {
	if cred == nil {
		return nil, fmt.Errorf("provider %s: custom credentials missing", provider)
	}
	endpoint := cred.Endpoint
	if endpoint == "" && provider == ProviderOracle && cred.Namespace != "" {
		endpoint = config.OracleCompatEndpoint(cred.Namespace, cred.Region)
	}
	if endpoint == "" {
		cfg, err := providerConfig(provider)
		if err != nil {
			return nil, err
		}
		endpoint = cfg.Endpoint
	}
	store, err := NewMinioStore(trimEndpoint(endpoint), cred.AccessKey, cred.SecretKey, cred.Region, true)
	if err != nil {
		return nil, err
	}
	return &Client{Store: store, Bucket: cred.BucketName}, nil
}

// Probe performs a minimal bucket-reachability check.
func Probe(ctx context.Context, client *Client) bool {
	if client == nil {
		return false
	}
	ok, err := client.Store.BucketExists(ctx, client.Bucket)
	return err == nil && ok
}

// trimEndpoint strips a URL scheme; minio clients take bare host[:port].
func trimEndpoint(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimSuffix(endpoint, "/")
}
