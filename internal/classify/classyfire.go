// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/zeinab-rezaei/stebantolib/internal/httputil"
	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

// ClassyFire endpoints. Declared as vars so tests can substitute httptest
// servers. The wishartlab host is the primary provider; the Fiehnlab host
// mirrors the entity endpoint only.
var (
	classyFireEntityBase  = "https://classyfire.wishartlab.ca/entities/"
	classyFireClassifyURL = "https://classyfire.wishartlab.ca/classification.json"
	fiehnlabEntityBase    = "https://cfb.fiehnlab.ucdavis.edu/entities/"
)

// ClassyFire entity JSON structures. Each taxonomy rank is a nested node;
// ranks the service could not assign come back null.
type chemOntNode struct {
	Name      string `json:"name"`
	ChemOntID string `json:"chemont_id"`
}

type chemOntEntity struct {
	Kingdom      *chemOntNode `json:"kingdom"`
	Superclass   *chemOntNode `json:"superclass"`
	Class        *chemOntNode `json:"class"`
	Subclass     *chemOntNode `json:"subclass"`
	DirectParent *chemOntNode `json:"direct_parent"`
}

func nodeName(n *chemOntNode) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func nodeID(n *chemOntNode) string {
	if n == nil {
		return ""
	}
	return n.ChemOntID
}

// normalizeChemOnt maps a ClassyFire entity into the common classification
// shape. The ontology identifier prefers the most specific available
// level: direct parent, then class, then superclass.
func normalizeChemOnt(e chemOntEntity) (types.Classification, bool) {
	cls := types.Classification{
		Ontology:     types.OntologyChemOnt,
		Kingdom:      nodeName(e.Kingdom),
		Superclass:   nodeName(e.Superclass),
		Class:        nodeName(e.Class),
		Subclass:     nodeName(e.Subclass),
		DirectParent: nodeName(e.DirectParent),
		Source:       "ClassyFire",
	}
	for _, id := range []string{nodeID(e.DirectParent), nodeID(e.Class), nodeID(e.Superclass)} {
		if id != "" {
			cls.OntologyID = id
			break
		}
	}
	return cls, cls.IsValid()
}

// queryEntity fetches the ChemOnt entity for an InChIKey, trying the
// primary host first (unless disabled for this run) and then the mirror.
func (r *Resolver) queryEntity(ctx context.Context, inchikey string) (types.Classification, bool) {
	type candidate struct {
		url     string
		primary bool
	}
	escaped := url.PathEscape(inchikey) + ".json"

	var candidates []candidate
	if !r.primaryDisabled {
		candidates = append(candidates, candidate{classyFireEntityBase + escaped, true})
	}
	candidates = append(candidates, candidate{fiehnlabEntityBase + escaped, false})

	for _, c := range candidates {
		r.logf("GET %s", c.url)
		if cls, ok := r.getEntity(ctx, c.url, c.primary); ok {
			return cls, true
		}
	}
	return types.Classification{}, false
}

func (r *Resolver) getEntity(ctx context.Context, reqURL string, primary bool) (types.Classification, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Classification{}, false
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.client, req)
	if err != nil {
		r.noteTransportFailure(err, primary)
		return types.Classification{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logf("HTTP %d from %s", resp.StatusCode, reqURL)
		return types.Classification{}, false
	}

	var entity chemOntEntity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		r.logf("parsing entity response: %v", err)
		return types.Classification{}, false
	}
	return normalizeChemOnt(entity)
}

// classifyBySMILES posts a SMILES string to the ClassyFire classification
// endpoint. This call is slower than entity lookups and uses the longer
// classification timeout.
func (r *Resolver) classifyBySMILES(ctx context.Context, smiles string) (types.Classification, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ClassifyTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"smiles": smiles})
	if err != nil {
		return types.Classification{}, false
	}

	r.logf("POST %s", classyFireClassifyURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, classyFireClassifyURL, bytes.NewReader(body))
	if err != nil {
		return types.Classification{}, false
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, r.client, req)
	if err != nil {
		r.noteTransportFailure(err, true)
		return types.Classification{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logf("HTTP %d from classification endpoint", resp.StatusCode)
		return types.Classification{}, false
	}

	var entity chemOntEntity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		r.logf("parsing classification response: %v", err)
		return types.Classification{}, false
	}
	return normalizeChemOnt(entity)
}
