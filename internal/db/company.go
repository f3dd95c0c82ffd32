package db

import "github.com/lotuss-academy/lms-admin/internal/models"

// CompanyCondition returns the SQL predicate selecting company's users through
// alias, or "" for all. Users with no company belong to lotus.
func CompanyCondition(alias string, company models.Company) string {
	col := "company"
	if alias != "" {
		col = alias + ".company"
	}
	switch company {
	case models.CompanyAll:
		return ""
	case models.CompanyMakro:
		return col + " = 'makro'"
	}
	return "(" + col + " IS NULL OR " + col + " = '' OR " + col + " <> 'makro')"
}
