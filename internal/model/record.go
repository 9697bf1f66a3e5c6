package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OwnershipRecord is one output row: a single owner's stake in one company,
// after field normalization. Only CompanyID and CompanyName are always set;
// every other field depends on what the registry returned.
//
// The field order is the column order of every report format.
type OwnershipRecord struct {
	CompanyID           string   `json:"company_id"`
	CompanyName         string   `json:"company_name"`
	ShareholderName     string   `json:"shareholder_name,omitempty"`
	BirthYear           *int     `json:"birth_year,omitempty"`
	Age                 *int     `json:"age,omitempty"`
	DirectOwnership     *float64 `json:"direct_ownership,omitempty"`
	IndirectOwnership   *float64 `json:"indirect_ownership,omitempty"`
	OwnershipPercentage *float64 `json:"ownership_percentage,omitempty"`
	Country             string   `json:"country,omitempty"`
	EntityType          string   `json:"entity_type,omitempty"`
}

// Header returns the column names in OwnershipRecord field order.
func Header() []string {
	return []string{
		"company_id",
		"company_name",
		"shareholder_name",
		"birth_year",
		"age",
		"direct_ownership",
		"indirect_ownership",
		"ownership_percentage",
		"country",
		"entity_type",
	}
}

// Values returns the record as typed cell values in Header order.
// Absent optional fields are nil so spreadsheet writers can leave the cell empty.
func (r OwnershipRecord) Values() []any {
	return []any{
		r.CompanyID,
		r.CompanyName,
		r.ShareholderName,
		intValue(r.BirthYear),
		intValue(r.Age),
		floatValue(r.DirectOwnership),
		floatValue(r.IndirectOwnership),
		floatValue(r.OwnershipPercentage),
		r.Country,
		r.EntityType,
	}
}

// Strings returns the record as text cells in Header order.
// Absent optional fields are empty strings.
func (r OwnershipRecord) Strings() []string {
	return []string{
		r.CompanyID,
		r.CompanyName,
		r.ShareholderName,
		FormatInt(r.BirthYear),
		FormatInt(r.Age),
		FormatFloat(r.DirectOwnership),
		FormatFloat(r.IndirectOwnership),
		FormatFloat(r.OwnershipPercentage),
		r.Country,
		r.EntityType,
	}
}

// FormatInt renders an optional integer, or "" when absent.
func FormatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// FormatFloat renders an optional float with the shortest exact
// representation, or "" when absent.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// ParsePercentage interprets a registry value as a percentage.
// Numbers are taken as is; strings may use a decimal comma and a trailing
// percent sign ("12,5 %"). Anything else reports false.
func ParsePercentage(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "%"))
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ValueString renders a scalar registry value as text.
// It is used for attributes such as country codes that are sometimes numeric.
func ValueString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}
