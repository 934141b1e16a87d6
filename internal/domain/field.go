package domain

import "strings"

// FieldKind is the semantic type a canonical field is coerced to.
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindDate    FieldKind = "date"
	FieldKindDecimal FieldKind = "decimal"
	FieldKindInteger FieldKind = "integer"
)

// Canonical field names. They match the staging table columns.
const (
	FieldCommitteeDate   = "date_comite_validation"
	FieldFileNumber      = "numero"
	FieldPDA             = "pda"
	FieldIntermediary    = "psf"
	FieldDepartment      = "departement"
	FieldCommune         = "commune"
	FieldProjectTitle    = "intitule_projet"
	FieldEntityName      = "denomination_entite"
	FieldPromoterName    = "nom_promoteur"
	FieldPromoterSex     = "sexe_promoteur"
	FieldLegalStatus     = "statut_juridique"
	FieldContactAddress  = "adresse_contact"
	FieldSector          = "filiere"
	FieldCreditSegment   = "maillon_type_credit"
	FieldTotalCost       = "cout_total_projet"
	FieldCreditRequested = "credit_solicite"
	FieldCreditGranted   = "credit_accorde"
	FieldRefinancing     = "refinancement_accorde"
	FieldCreditStatus    = "credit_accorde_statut"
	FieldTotalFinancing  = "total_financement"
	FieldFileStatus      = "statut_dossier"
	FieldJobsCreated     = "nombre_emplois"
)

// CanonicalField describes one column of the destination schema.
type CanonicalField struct {
	Name string
	Kind FieldKind
}

// Catalog lists every canonical field in staging column order.
var Catalog = []CanonicalField{
	{FieldCommitteeDate, FieldKindDate},
	{FieldFileNumber, FieldKindText},
	{FieldPDA, FieldKindText},
	{FieldIntermediary, FieldKindText},
	{FieldDepartment, FieldKindText},
	{FieldCommune, FieldKindText},
	{FieldProjectTitle, FieldKindText},
	{FieldEntityName, FieldKindText},
	{FieldPromoterName, FieldKindText},
	{FieldPromoterSex, FieldKindText},
	{FieldLegalStatus, FieldKindText},
	{FieldContactAddress, FieldKindText},
	{FieldSector, FieldKindText},
	{FieldCreditSegment, FieldKindText},
	{FieldTotalCost, FieldKindDecimal},
	{FieldCreditRequested, FieldKindDecimal},
	{FieldCreditGranted, FieldKindDecimal},
	{FieldRefinancing, FieldKindDecimal},
	{FieldCreditStatus, FieldKindText},
	{FieldTotalFinancing, FieldKindDecimal},
	{FieldFileStatus, FieldKindText},
	{FieldJobsCreated, FieldKindInteger},
}

var catalogIndex = func() map[string]CanonicalField {
	index := make(map[string]CanonicalField, len(Catalog))
	for _, field := range Catalog {
		index[field.Name] = field
	}
	return index
}()

// LookupField returns the canonical definition for a field name.
func LookupField(name string) (CanonicalField, bool) {
	field, ok := catalogIndex[name]
	return field, ok
}

// NaturalKey folds a dimension name the way the store compares it:
// surrounding whitespace removed, lower case.
func NaturalKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeLabel folds a spreadsheet header label for layout matching.
// Inner whitespace runs collapse to a single space.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
