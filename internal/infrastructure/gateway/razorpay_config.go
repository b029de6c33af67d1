// Package gateway implements the outbound payment-gateway adapter for the
// Razorpay Orders API.
package gateway

import (
	"errors"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// RazorpayConfig contains credentials and transport settings for the
// Razorpay Orders API
type RazorpayConfig struct {
	// KeyID is the API key identifier, sent as the basic-auth username
	KeyID string
	// KeySecret is the API key secret; also the HMAC secret of the
	// client verification flow
	KeySecret string
	// BaseURL overrides the API endpoint (tests point this at a stub)
	BaseURL string
	// Timeout bounds each outbound API call
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrMissingKeyID     = errors.New("razorpay: missing key ID")
	ErrMissingKeySecret = errors.New("razorpay: missing key secret")
)

// Validate validates the configuration and applies defaults
func (c *RazorpayConfig) Validate() error {
	if c.KeyID == "" {
		return ErrMissingKeyID
	}
	if c.KeySecret == "" {
		return ErrMissingKeySecret
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
