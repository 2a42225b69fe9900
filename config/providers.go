package config

import (
	"fmt"
	"sync"
)

// ProviderConfig holds the default credentials for one storage provider.
// Pods that do not carry their own credentials fall back to these.
type ProviderConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Endpoint  string
	Region    string
	UseSSL    bool
}

// ProvidersConfig holds the default credentials for every supported provider.
type ProvidersConfig struct {
	S3     ProviderConfig
	Wasabi ProviderConfig
	Oracle ProviderConfig
}

var ProvidersConfigInstance *ProvidersConfig
var providerConfigOnce sync.Once

// OracleCompatEndpoint builds the S3-compatibility endpoint for an Oracle
// Object Storage namespace.
func OracleCompatEndpoint(namespace, region string) string {
	return fmt.Sprintf("%s.compat.objectstorage.%s.oraclecloud.com", namespace, region)
}

// InitProviderConfig initializes default provider credentials from the environment.
func InitProviderConfig() {
	providerConfigOnce.Do(func() {
		region := getEnv("AWS_REGION", "us-east-1")
		ProvidersConfigInstance = &ProvidersConfig{
			S3: ProviderConfig{
				AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				Bucket:    getEnv("S3_BUCKET_NAME", ""),
				Endpoint:  getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
				Region:    region,
				UseSSL:    true,
			},
			Wasabi: ProviderConfig{
				AccessKey: getEnv("WASABI_ACCESS_KEY", ""),
				SecretKey: getEnv("WASABI_SECRET_KEY", ""),
				Bucket:    getEnv("WASABI_BUCKET_NAME", ""),
				Endpoint:  getEnv("WASABI_ENDPOINT", "s3.wasabisys.com"),
				Region:    region,
				UseSSL:    true,
			},
			Oracle: ProviderConfig{
				AccessKey: getEnv("ORACLE_ACCESS_KEY", ""),
				SecretKey: getEnv("ORACLE_SECRET_KEY", ""),
				Bucket:    getEnv("ORACLE_BUCKET_NAME", ""),
				Endpoint:  OracleCompatEndpoint(getEnv("ORACLE_NAMESPACE", ""), region),
				Region:    region,
				UseSSL:    true,
			},
		}
	})
}
