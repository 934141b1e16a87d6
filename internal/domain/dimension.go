package domain

// Commune is a curated administrative location. The pipeline only reads it.
type Commune struct {
	ID   int64  `json:"id_commune"`
	Name string `json:"nom_commune"`
}

// Promoter is identified by the pair of its own name and its entity name.
// Sex and legal status are recorded as first seen.
type Promoter struct {
	ID          int64  `json:"id_promoteur"`
	Name        string `json:"nom_promoteur"`
	EntityName  string `json:"nom_entite"`
	Sex         string `json:"sexe_promoteur,omitempty"`
	LegalStatus string `json:"statut_juridique,omitempty"`
}

// Key returns the folded natural key of the promoter.
func (p Promoter) Key() PromoterKey {
	return PromoterKey{Name: NaturalKey(p.Name), EntityName: NaturalKey(p.EntityName)}
}

// IsBlank reports whether the row carried no promoter identity at all.
func (p Promoter) IsBlank() bool {
	return NaturalKey(p.Name) == "" && NaturalKey(p.EntityName) == ""
}

// PromoterKey is the folded (name, entity name) pair.
type PromoterKey struct {
	Name       string
	EntityName string
}

// Intermediary is a financial institution (PSF) relaying the credit.
type Intermediary struct {
	ID   int64  `json:"id_psf"`
	Name string `json:"nom_psf"`
}

// ValueChainSector is a filière; Segment is the credit-segment tag (maillon).
type ValueChainSector struct {
	ID      int64  `json:"id_filiere"`
	Name    string `json:"nom_filiere"`
	Segment string `json:"maillon,omitempty"`
}

// DimensionCounts tallies dimension records created by one batch.
type DimensionCounts struct {
	Promoters      int `json:"promoters"`
	Intermediaries int `json:"intermediaries"`
	Sectors        int `json:"sectors"`
}
