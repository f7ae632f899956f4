package remotestore

import "net/http"

// clientConfig collects construction settings for an S3Store.
type clientConfig struct {
	region         string
	endpoint       string
	forcePathStyle bool
	httpClient     *http.Client
}

// Option configures S3Store construction.
type Option func(*clientConfig)

// WithRegion sets the AWS region. If not specified, the region from
// the default credential chain is used.
func WithRegion(region string) Option {
	return func(c *clientConfig) {
		c.region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL, for S3-compatible
// services or local testing.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) {
		c.endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted
// style, required by most S3-compatible services.
func WithForcePathStyle(force bool) Option {
	return func(c *clientConfig) {
		c.forcePathStyle = force
	}
}

// WithHTTPClient sets a custom HTTP client for the underlying SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}
