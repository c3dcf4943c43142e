// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/zeinab-rezaei/stebantolib/internal/httputil"
	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

// npClassifierBase is the NPClassifier classify endpoint. Declared as a
// var so tests can substitute an httptest server.
var npClassifierBase = "https://npclassifier.ucsd.edu/classify"

// NPClassifier returns array-valued taxonomy fields.
type npResponse struct {
	Superclass []string `json:"superclass"`
	Class      []string `json:"class"`
	Pathway    []string `json:"pathway"`
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// normalizeNPClassifier maps the NPClassifier response into the common
// classification shape: pathway becomes the direct parent, and the
// array-valued superclass/class fields collapse to their first element.
// Sparse results (e.g. superclass only) are accepted.
func normalizeNPClassifier(np npResponse) (types.Classification, bool) {
	cls := types.Classification{
		Ontology:     types.OntologyNPClassifier,
		Superclass:   firstOrEmpty(np.Superclass),
		Class:        firstOrEmpty(np.Class),
		DirectParent: firstOrEmpty(np.Pathway),
		Source:       "NPClassifier",
	}
	return cls, cls.IsValid()
}

// queryNPClassifier asks the secondary classifier service by SMILES.
// Failures here never disable anything; this is the last fallback step.
func (r *Resolver) queryNPClassifier(ctx context.Context, smiles string) (types.Classification, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ClassifyTimeout)
	defer cancel()

	reqURL := npClassifierBase + "?smiles=" + url.QueryEscape(smiles)
	r.logf("GET %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Classification{}, false
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.client, req)
	if err != nil {
		r.noteTransportFailure(err, false)
		return types.Classification{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logf("HTTP %d from NPClassifier", resp.StatusCode)
		return types.Classification{}, false
	}

	var np npResponse
	if err := json.NewDecoder(resp.Body).Decode(&np); err != nil {
		r.logf("parsing NPClassifier response: %v", err)
		return types.Classification{}, false
	}
	return normalizeNPClassifier(np)
}
