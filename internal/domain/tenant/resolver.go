package tenant

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Resolver errors
var (
	ErrMalformedHost = shared.NewDomainError("MALFORMED_HOST", "Request host has no subdomain segment")
)

// Resolver maps an inbound request's host identity to a tenant context.
//
// A recognized platform host (the admin subdomain or a local development
// host) yields an elevated context with no tenant binding. Any other host is
// parsed into its first label and looked up against the tenant registry.
type Resolver struct {
	repo Repository

	// adminSubdomain is the label reserved for platform operators
	adminSubdomain string
	// platformHosts are exact hosts treated as elevated (e.g. "localhost")
	platformHosts map[string]struct{}
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithAdminSubdomain overrides the operator subdomain label (default "admin")
func WithAdminSubdomain(label string) ResolverOption {
	return func(r *Resolver) {
		r.adminSubdomain = strings.ToLower(label)
	}
}

// WithPlatformHosts sets exact hosts resolved as elevated
func WithPlatformHosts(hosts ...string) ResolverOption {
	return func(r *Resolver) {
		r.platformHosts = make(map[string]struct{}, len(hosts))
		for _, h := range hosts {
			r.platformHosts[strings.ToLower(h)] = struct{}{}
		}
	}
}

// NewResolver creates a Resolver backed by the given tenant registry
func NewResolver(repo Repository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		repo:           repo,
		adminSubdomain: "admin",
		platformHosts:  map[string]struct{}{"localhost": {}, "127.0.0.1": {}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a host identifier to a tenant context.
//
// Failure modes: ErrMalformedHost when no subdomain segment is present,
// shared.ErrNotFound when no tenant matches, shared.ErrTenantInactive when the
// tenant is deactivated. The lookup is the only side effect.
func (r *Resolver) Resolve(ctx context.Context, host string) (Context, error) {
	host = normalizeHost(host)
	if host == "" {
		return Context{}, ErrMalformedHost
	}

	if _, ok := r.platformHosts[host]; ok {
		return Context{Elevated: true}, nil
	}

	labels := strings.Split(host, ".")
	subdomain := labels[0]
	if subdomain == "" {
		return Context{}, ErrMalformedHost
	}
	if subdomain == r.adminSubdomain {
		return Context{Elevated: true}, nil
	}
	// A bare domain such as "example.com" carries no tenant key.
	if len(labels) < 3 {
		return Context{}, ErrMalformedHost
	}

	t, err := r.repo.FindBySubdomain(ctx, subdomain)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Context{}, shared.ErrNotFound
		}
		return Context{}, err
	}
	if !t.Active {
		return Context{}, shared.ErrTenantInactive
	}

	return Context{TenantID: t.ID}, nil
}

// normalizeHost lowercases the host and strips any port suffix
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
