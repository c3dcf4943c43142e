// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeinab-rezaei/stebantolib/internal/httputil"
	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

func init() {
	httputil.RetryDelay = 1 * time.Millisecond
}

const aspirinEntityJSON = `{
  "kingdom": {"name": "Organic compounds", "chemont_id": "CHEMONTID:0000000"},
  "superclass": {"name": "Benzenoids", "chemont_id": "CHEMONTID:0002448"},
  "class": {"name": "Benzene and substituted derivatives", "chemont_id": "CHEMONTID:0002279"},
  "subclass": {"name": "Benzoic acids and derivatives", "chemont_id": "CHEMONTID:0002341"},
  "direct_parent": {"name": "Salicylic acids", "chemont_id": "CHEMONTID:0002088"}
}`

// setEndpoints redirects all provider base URLs for the test and restores
// them on cleanup.
func setEndpoints(t *testing.T, primaryEntity, classifyURL, mirrorEntity, npBase string) {
	t.Helper()
	oldEntity, oldClassify := classyFireEntityBase, classyFireClassifyURL
	oldMirror, oldNP := fiehnlabEntityBase, npClassifierBase
	t.Cleanup(func() {
		classyFireEntityBase, classyFireClassifyURL = oldEntity, oldClassify
		fiehnlabEntityBase, npClassifierBase = oldMirror, oldNP
	})
	if primaryEntity != "" {
		classyFireEntityBase = primaryEntity
	}
	if classifyURL != "" {
		classyFireClassifyURL = classifyURL
	}
	if mirrorEntity != "" {
		fiehnlabEntityBase = mirrorEntity
	}
	if npBase != "" {
		npClassifierBase = npBase
	}
}

func newTestResolver(t *testing.T, cfg types.ClassifyConfig) *Resolver {
	t.Helper()
	cache := OpenCache(filepath.Join(t.TempDir(), "cache.yaml"))
	return NewResolver(&http.Client{}, cache, cfg, io.Discard)
}

func TestResolve_CacheIdempotence(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		io.WriteString(w, aspirinEntityJSON)
	}))
	defer ts.Close()
	setEndpoints(t, ts.URL+"/entities/", "", ts.URL+"/mirror/", "")

	r := newTestResolver(t, types.ClassifyConfig{})

	first := r.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", "")
	require.NotNil(t, first)
	assert.Equal(t, "Salicylic acids", first.DirectParent)
	assert.Equal(t, "CHEMONTID:0002088", first.OntologyID)

	second := r.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", "")
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)

	// Second resolve is a cache hit: exactly one remote call in total.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResolve_CacheSurvivesRestart(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		io.WriteString(w, aspirinEntityJSON)
	}))
	defer ts.Close()
	setEndpoints(t, ts.URL+"/entities/", "", ts.URL+"/mirror/", "")

	cachePath := filepath.Join(t.TempDir(), "cache.yaml")

	r1 := NewResolver(&http.Client{}, OpenCache(cachePath), types.ClassifyConfig{}, io.Discard)
	first := r1.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", "")
	require.NotNil(t, first)

	// Fresh resolver over a reloaded cache: no remote call at all.
	r2 := NewResolver(&http.Client{}, OpenCache(cachePath), types.ClassifyConfig{}, io.Discard)
	second := r2.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", "")
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResolve_MirrorFallback(t *testing.T) {
	var primaryCalls, mirrorCalls int32
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&primaryCalls, 1)
		io.WriteString(w, `{}`) // Success without a classification.
	}))
	defer primary.Close()
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&mirrorCalls, 1)
		io.WriteString(w, aspirinEntityJSON)
	}))
	defer mirror.Close()
	setEndpoints(t, primary.URL+"/entities/", "", mirror.URL+"/entities/", "")

	r := newTestResolver(t, types.ClassifyConfig{})

	cls := r.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", "")
	require.NotNil(t, cls)
	assert.Equal(t, "Salicylic acids", cls.DirectParent)
	assert.Equal(t, int32(1), atomic.LoadInt32(&primaryCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&mirrorCalls))

	// The mirror's answer was cached: a second resolve hits neither host.
	_ = r.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", "")
	assert.Equal(t, int32(1), atomic.LoadInt32(&primaryCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&mirrorCalls))
}

func TestResolve_ThrottledThenOK(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, aspirinEntityJSON)
	}))
	defer ts.Close()
	setEndpoints(t, ts.URL+"/entities/", "", ts.URL+"/mirror/", "")

	r := newTestResolver(t, types.ClassifyConfig{})

	cls := r.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", "")
	require.NotNil(t, cls)
	assert.Equal(t, "Salicylic acids", cls.DirectParent)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResolve_PrimaryDisabledSkipsToNPClassifier(t *testing.T) {
	// The primary must never be contacted when disabled for the run.
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("primary provider contacted while disabled")
	}))
	defer primary.Close()
	np := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "CCO", req.URL.Query().Get("smiles"))
		io.WriteString(w, `{"superclass": ["Alcohol"], "pathway": ["Amino acids"]}`)
	}))
	defer np.Close()
	setEndpoints(t, primary.URL+"/entities/", primary.URL+"/classification.json", "", np.URL)

	r := newTestResolver(t, types.ClassifyConfig{DisablePrimary: true})

	cls := r.Resolve(context.Background(), "", "CCO")
	require.NotNil(t, cls)
	assert.Equal(t, "Alcohol", cls.Superclass)
	assert.Equal(t, "Amino acids", cls.DirectParent)
	assert.Equal(t, "NPClassifier", cls.Source)
	assert.Equal(t, types.OntologyNPClassifier, cls.Ontology)

	// NPClassifier results are not cached.
	assert.Equal(t, 0, r.cache.Len())
}

func TestResolve_SMILESClassificationCached(t *testing.T) {
	var posts int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, http.MethodPost, req.Method)
		atomic.AddInt32(&posts, 1)
		io.WriteString(w, aspirinEntityJSON)
	}))
	defer ts.Close()
	setEndpoints(t, "", ts.URL+"/classification.json", "", "")

	r := newTestResolver(t, types.ClassifyConfig{})

	cls := r.Resolve(context.Background(), "", "CC(=O)OC1=CC=CC=C1C(=O)O")
	require.NotNil(t, cls)
	assert.Equal(t, "ClassyFire", cls.Source)

	_ = r.Resolve(context.Background(), "", "CC(=O)OC1=CC=CC=C1C(=O)O")
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
}

func TestResolve_AllStepsMissReturnsNil(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer empty.Close()
	setEndpoints(t, empty.URL+"/entities/", empty.URL+"/classification.json", empty.URL+"/mirror/", empty.URL+"/np")

	r := newTestResolver(t, types.ClassifyConfig{})

	assert.Nil(t, r.Resolve(context.Background(), "NOSUCHKEY-UHFFFAOYSA-N", "CCO"))
	assert.Equal(t, 0, r.cache.Len())
}

func TestResolve_NoIdentifiersReturnsNil(t *testing.T) {
	r := newTestResolver(t, types.ClassifyConfig{})
	assert.Nil(t, r.Resolve(context.Background(), "", "   "))
}

func TestNoteTransportFailure_DNSDisablesPrimary(t *testing.T) {
	r := newTestResolver(t, types.ClassifyConfig{})
	require.False(t, r.PrimaryDisabled())

	dnsErr := &url.Error{
		Op:  "Get",
		URL: "https://classyfire.wishartlab.ca/entities/X.json",
		Err: &net.DNSError{Err: "no such host", Name: "classyfire.wishartlab.ca", IsNotFound: true},
	}
	r.noteTransportFailure(dnsErr, true)
	assert.True(t, r.PrimaryDisabled())
}

func TestNoteTransportFailure_MirrorDNSDoesNotDisable(t *testing.T) {
	r := newTestResolver(t, types.ClassifyConfig{})
	dnsErr := &url.Error{
		Op:  "Get",
		URL: "https://cfb.fiehnlab.ucdavis.edu/entities/X.json",
		Err: &net.DNSError{Err: "no such host", Name: "cfb.fiehnlab.ucdavis.edu"},
	}
	r.noteTransportFailure(dnsErr, false)
	assert.False(t, r.PrimaryDisabled())
}

func TestNoteTransportFailure_NonDNSDoesNotDisable(t *testing.T) {
	r := newTestResolver(t, types.ClassifyConfig{})
	r.noteTransportFailure(&url.Error{Op: "Get", URL: "x", Err: io.ErrUnexpectedEOF}, true)
	assert.False(t, r.PrimaryDisabled())
}

func TestResolve_InChIKeyEscapedInPath(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		io.WriteString(w, aspirinEntityJSON)
	}))
	defer ts.Close()
	setEndpoints(t, ts.URL+"/entities/", "", ts.URL+"/mirror/", "")

	r := newTestResolver(t, types.ClassifyConfig{})
	require.NotNil(t, r.Resolve(context.Background(), "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", ""))
	assert.True(t, strings.HasSuffix(gotPath, "/entities/BSYNRYMUTXBXSQ-UHFFFAOYSA-N.json"))
}
