// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify resolves hierarchical compound classifications from
// remote taxonomy services with caching and provider fallback.
package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

const (
	defaultTimeout         = 12 * time.Second
	defaultClassifyTimeout = 20 * time.Second
	defaultUserAgent       = "stebantolib/0.1"
)

// Resolver looks up compound classifications. The fallback chain is
// ClassyFire entity lookup by InChIKey (primary host, then mirror),
// ClassyFire classification by SMILES, then NPClassifier by SMILES. Each
// resolver instance carries its own per-run provider-disable state, so
// tests and callers can construct independent resolvers.
type Resolver struct {
	client *http.Client
	cache  *Cache
	cfg    types.ClassifyConfig
	out    io.Writer

	// primaryDisabled is set for the remainder of the run when a
	// name-resolution failure is observed for the primary host. Never
	// cleared; a fresh run re-attempts the provider.
	primaryDisabled bool
}

// NewResolver builds a resolver around client and cache. Zero config
// fields get defaults; warnings and verbose progress go to w.
func NewResolver(client *http.Client, cache *Cache, cfg types.ClassifyConfig, w io.Writer) *Resolver {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ClassifyTimeout == 0 {
		cfg.ClassifyTimeout = defaultClassifyTimeout
	}
	if cfg.ClassifyTimeout < cfg.Timeout {
		cfg.ClassifyTimeout = cfg.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if w == nil {
		w = io.Discard
	}
	return &Resolver{
		client:          client,
		cache:           cache,
		cfg:             cfg,
		out:             w,
		primaryDisabled: cfg.DisablePrimary,
	}
}

// PrimaryDisabled reports whether the primary provider has been disabled
// for this run.
func (r *Resolver) PrimaryDisabled() bool { return r.primaryDisabled }

// Resolve returns the classification for the compound identified by
// inchikey and/or smiles, or nil when every provider step misses. Provider
// misses are not errors; callers supply their own placeholder text.
func (r *Resolver) Resolve(ctx context.Context, inchikey, smiles string) *types.Classification {
	inchikey = strings.TrimSpace(inchikey)
	smiles = strings.TrimSpace(smiles)

	if inchikey != "" {
		if cls, ok := r.byInChIKey(ctx, inchikey); ok {
			return &cls
		}
	}
	if smiles != "" {
		if cls, ok := r.bySMILES(ctx, smiles); ok {
			return &cls
		}
	}
	return nil
}

// byInChIKey resolves through the cache, then the ChemOnt entity endpoints.
func (r *Resolver) byInChIKey(ctx context.Context, inchikey string) (types.Classification, bool) {
	key := "ik:" + inchikey
	if cls, ok := r.cache.Get(key); ok && cls.IsValid() {
		r.logf("cache hit (InChIKey): %s", inchikey)
		return cls, true
	}

	cls, ok := r.queryEntity(ctx, inchikey)
	if !ok {
		r.logf("no ChemOnt via InChIKey %s", inchikey)
		return types.Classification{}, false
	}
	r.putCache(key, cls)
	return cls, true
}

// bySMILES resolves through the cache, the ClassyFire classification
// endpoint, then NPClassifier. NPClassifier results are not cached.
func (r *Resolver) bySMILES(ctx context.Context, smiles string) (types.Classification, bool) {
	key := "smiles:" + smiles
	if cls, ok := r.cache.Get(key); ok && cls.IsValid() {
		r.logf("cache hit (SMILES)")
		return cls, true
	}

	if !r.primaryDisabled {
		if cls, ok := r.classifyBySMILES(ctx, smiles); ok {
			r.putCache(key, cls)
			return cls, true
		}
	}

	return r.queryNPClassifier(ctx, smiles)
}

func (r *Resolver) putCache(key string, cls types.Classification) {
	if err := r.cache.Put(key, cls); err != nil {
		fmt.Fprintf(r.out, "warning: %v\n", err)
	}
}

// noteTransportFailure classifies a network-level error. A name-resolution
// failure on a primary-host request disables that provider for the rest of
// the run; everything else is a provider miss for this call only.
func (r *Resolver) noteTransportFailure(err error, primary bool) {
	var dnsErr *net.DNSError
	if primary && errors.As(err, &dnsErr) {
		if !r.primaryDisabled {
			r.primaryDisabled = true
			fmt.Fprintf(r.out, "warning: primary classification host disabled for this run (%v)\n", dnsErr)
		}
		return
	}
	r.logf("request error: %v", err)
}

func (r *Resolver) logf(format string, args ...any) {
	if r.cfg.Verbose {
		fmt.Fprintf(r.out, "[classify] "+format+"\n", args...)
	}
}
