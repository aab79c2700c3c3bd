package reputation

import (
	"strings"

	"landlord_rep/internal/domain"
)

type Mode string

const (
	ModeSingle Mode = "single"
	ModeList   Mode = "list"
)

// Resolution is what navigation acts on: a single landlord to open
// directly, or a list to browse.
type Resolution struct {
	Mode      Mode              `json:"mode"`
	Landlords []domain.Landlord `json:"landlords"`
}

// Single returns the resolved landlord when Mode is ModeSingle.
func (r Resolution) Single() (domain.Landlord, bool) {
	if r.Mode != ModeSingle || len(r.Landlords) != 1 {
		return domain.Landlord{}, false
	}
	return r.Landlords[0], true
}

// Resolve matches query against directory. An empty region means no
// region filter.
//
// Exact identity matches (strict-normalized name or entity) win over
// substring matches. One exact match resolves to that landlord even when
// substring search would also find others; several exact matches are
// returned as a list without falling back to substring search. Only when
// nothing matches exactly is the loose substring search used.
func Resolve(query, region string, directory []domain.Landlord) Resolution {
	region = strings.TrimSpace(region)

	if key := NormalizeStrict(query); key != "" {
		var exact []domain.Landlord
		for _, l := range directory {
			if region != "" && !strings.EqualFold(deref(l.Region), region) {
				continue
			}
			if NormalizeStrict(l.Name) == key || (l.Entity != nil && NormalizeStrict(*l.Entity) == key) {
				exact = append(exact, l)
			}
		}
		switch len(exact) {
		case 0:
		case 1:
			return Resolution{Mode: ModeSingle, Landlords: exact}
		default:
			return Resolution{Mode: ModeList, Landlords: exact}
		}
	}

	needle := NormalizeLoose(query)
	matches := make([]domain.Landlord, 0)
	for _, l := range directory {
		if region != "" && deref(l.Region) != region {
			continue
		}
		if strings.Contains(haystack(l), needle) {
			matches = append(matches, l)
		}
	}
	return Resolution{Mode: ModeList, Landlords: matches}
}

func haystack(l domain.Landlord) string {
	return NormalizeLoose(strings.Join([]string{
		l.Name,
		deref(l.Entity),
		l.Address.Street,
		l.Address.City,
		deref(l.Region),
	}, " "))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
