// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Ontology names used in Classification.Ontology.
const (
	OntologyChemOnt      = "ChemOnt"
	OntologyNPClassifier = "NPClassifier"
)

// Classification is the normalized result of a compound classification
// lookup. Both providers (ClassyFire/ChemOnt and NPClassifier) are mapped
// into this one shape; Source records which provider answered.
type Classification struct {
	Ontology     string `yaml:"ontology" json:"ontology"`
	Kingdom      string `yaml:"kingdom" json:"kingdom"`
	Superclass   string `yaml:"superclass" json:"superclass"`
	Class        string `yaml:"class" json:"class"`
	Subclass     string `yaml:"subclass" json:"subclass"`
	DirectParent string `yaml:"direct_parent" json:"direct_parent"`
	OntologyID   string `yaml:"ontology_id" json:"ontology_id"`
	Source       string `yaml:"source" json:"source"`
}

// IsValid reports whether the classification carries at least one taxonomy
// rank. Invalid results are never cached or returned to callers.
func (c Classification) IsValid() bool {
	return c.Kingdom != "" || c.Superclass != "" || c.Class != "" ||
		c.Subclass != "" || c.DirectParent != ""
}
