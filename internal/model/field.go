package model

// Field is a logical attribute of a registry payload together with the JSON
// keys it may appear under. The registry mixes capitalized and lower-camel
// naming between response shapes, so every attribute lists its aliases in
// precedence order: capitalized first, then lower-camel.
type Field struct {
	// Name is the logical attribute name, used in logs and tests.
	Name string

	// Aliases are the candidate JSON keys in lookup order.
	Aliases []string
}

// Known fields of a shareholder entry.
var (
	FieldName = Field{
		Name: "name",
		Aliases: []string{
			"Name", "name",
			"NameFromShareholder", "nameFromShareholder",
			"NameFromRole", "nameFromRole",
		},
	}
	FieldBirthYear = Field{
		Name:    "birth_year",
		Aliases: []string{"BirthYear", "birthYear"},
	}
	FieldDirectOwnership = Field{
		Name:    "direct_ownership",
		Aliases: []string{"DirectOwnership", "directOwnership"},
	}
	FieldIndirectOwnership = Field{
		Name:    "indirect_ownership",
		Aliases: []string{"IndirectOwnership", "indirectOwnership"},
	}
	FieldOwnershipPercentage = Field{
		Name: "ownership_percentage",
		Aliases: []string{
			"OwnershipPercentage", "ownershipPercentage",
			"SharePercentage", "sharePercentage",
		},
	}
	FieldCountry = Field{
		Name:    "country",
		Aliases: []string{"CountryCode", "countryCode", "Country", "country"},
	}
	FieldEntityType = Field{
		Name:    "entity_type",
		Aliases: []string{"EntityType", "entityType"},
	}
)

// FieldCompanyName is looked up on the top-level response, not on entries.
var FieldCompanyName = Field{
	Name:    "company_name",
	Aliases: []string{"CompanyName", "companyName", "Name", "name"},
}

// Lookup returns the value stored under the first alias of field that is
// present in entry with a non-null value. The second return value is false
// when none of the aliases resolve.
func Lookup(entry map[string]any, field Field) (any, bool) {
	for _, key := range field.Aliases {
		v, ok := entry[key]
		if !ok || v == nil {
			continue
		}
		return v, true
	}
	return nil, false
}

// LookupString is Lookup restricted to string values. Non-string values and
// empty strings are treated as absent.
func LookupString(entry map[string]any, field Field) string {
	for _, key := range field.Aliases {
		if s, ok := entry[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Known shareholder collections. The owner endpoint lists "shareholders";
// the eniropro endpoint lists "relations".
var (
	CollectionShareholders = Field{
		Name:    "shareholders",
		Aliases: []string{"Shareholders", "shareholders"},
	}
	CollectionRelations = Field{
		Name:    "relations",
		Aliases: []string{"Relations", "relations"},
	}
)
