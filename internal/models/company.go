package models

// Company selects a partition of the user base.
type Company string

const (
	CompanyLotus Company = "lotus"
	CompanyMakro Company = "makro"
	CompanyAll   Company = "all"
)

// ParseCompany maps anything unrecognised, including "", to lotus.
func ParseCompany(s string) Company {
	switch Company(s) {
	case CompanyMakro:
		return CompanyMakro
	case CompanyAll:
		return CompanyAll
	}
	return CompanyLotus
}

func (c Company) Label() string {
	switch c {
	case CompanyMakro:
		return "Makro"
	case CompanyAll:
		return "All"
	}
	return "Lotus's"
}

var Companies = []Company{CompanyLotus, CompanyMakro, CompanyAll}
