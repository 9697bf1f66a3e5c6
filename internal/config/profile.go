package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/shareholders/internal/model"
	"github.com/nao1215/shareholders/internal/registry"
)

// Built-in profile names.
const (
	// ProfileOwners queries the company owner endpoint. It is the default.
	ProfileOwners = "owners"

	// ProfileEniroPro queries the EniroPro shareholder endpoint.
	ProfileEniroPro = "eniropro"

	// DefaultProfile is used when no profile is selected.
	DefaultProfile = ProfileOwners
)

// Profile describes one registry endpoint variant: where to send the
// request, which payload key holds the shareholder list and which input
// file is read by default.
type Profile struct {
	// Name identifies the profile on the command line.
	Name string `yaml:"-"`

	// Path is the endpoint path with {country} and {org_id} placeholders.
	Path string `yaml:"path"`

	// Collection lists the payload keys that may hold the shareholder
	// list, in lookup order.
	Collection []string `yaml:"collection"`

	// InputFile is the default input for this profile.
	InputFile string `yaml:"input,omitempty"`
}

// OwnersProfile returns the default profile.
func OwnersProfile() Profile {
	return Profile{
		Name:       ProfileOwners,
		Path:       registry.DefaultPathTemplate,
		Collection: append([]string(nil), model.CollectionShareholders.Aliases...),
		InputFile:  "companies.md",
	}
}

// EniroProProfile returns the EniroPro shareholder profile.
func EniroProProfile() Profile {
	return Profile{
		Name:       ProfileEniroPro,
		Path:       "/api/shareholders/eniropro/{country}/owners/{org_id}",
		Collection: append([]string(nil), model.CollectionRelations.Aliases...),
		InputFile:  "companies.xlsx",
	}
}

// BuiltinProfiles returns the profiles available without a configuration file.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		ProfileOwners:   OwnersProfile(),
		ProfileEniroPro: EniroProProfile(),
	}
}

// CollectionField returns the payload field holding the shareholder list.
func (p Profile) CollectionField() model.Field {
	return model.Field{Name: "collection", Aliases: p.Collection}
}

// Validate checks that the profile can address a company and find its owners.
func (p Profile) Validate() error {
	if !strings.Contains(p.Path, "{org_id}") || len(p.Collection) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, p.Name)
	}
	return nil
}

// ResolveProfile looks up name among the profiles defined in file and the
// built-in ones. Profiles from the file take precedence. An empty name
// selects DefaultProfile; file may be nil.
func ResolveProfile(name string, file *File) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	name = strings.ToLower(name)

	if file != nil {
		if p, ok := file.Profiles[name]; ok {
			p.Name = name
			base, builtin := BuiltinProfiles()[name]
			if builtin {
				p = mergeProfile(base, p)
			}
			if err := p.Validate(); err != nil {
				return Profile{}, err
			}
			return p, nil
		}
	}

	if p, ok := BuiltinProfiles()[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(ProfileNames(file), ", "))
}

// ProfileNames returns every selectable profile name in sorted order.
func ProfileNames(file *File) []string {
	seen := make(map[string]bool)
	for name := range BuiltinProfiles() {
		seen[name] = true
	}
	if file != nil {
		for name := range file.Profiles {
			seen[strings.ToLower(name)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mergeProfile overrides the non-empty fields of base with override.
func mergeProfile(base, override Profile) Profile {
	result := base
	if override.Path != "" {
		result.Path = override.Path
	}
	if len(override.Collection) > 0 {
		result.Collection = override.Collection
	}
	if override.InputFile != "" {
		result.InputFile = override.InputFile
	}
	return result
}
