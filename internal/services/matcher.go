package services

import (
	"strings"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// MatchKind tags how confident a department match is, so callers and tests
// can tell an exact hit from a heuristic one.
type MatchKind string

const (
	MatchNone           MatchKind = "none"
	MatchExactID        MatchKind = "exact_id"
	MatchCodeFragment   MatchKind = "code_fragment"
	MatchFragmentPrefix MatchKind = "fragment_prefix"
	MatchIDSubstring    MatchKind = "id_substring"
)

// DepartmentMatch pairs the resolved department with the rule that matched.
type DepartmentMatch struct {
	Department *models.Department
	Kind       MatchKind
}

// MatchDepartment resolves a response's raw department tag against the
// assessment's departments. Tags are messy in practice: full slugs, truncated
// code fragments, or legacy free text. Rules are tried in confidence order
// per department; the first department that matches wins. Ambiguous tags can
// match more than one department, in which case iteration order decides.
func MatchDepartment(rawTag string, departments []models.Department) DepartmentMatch {
	tag := strings.TrimSpace(rawTag)
	if tag == "" {
		return DepartmentMatch{Kind: MatchNone}
	}
	upper := strings.ToUpper(tag)
	lower := strings.ToLower(tag)

	for i := range departments {
		dept := &departments[i]
		if tag == dept.ID {
			return DepartmentMatch{Department: dept, Kind: MatchExactID}
		}
		for _, code := range []string{dept.ManagementCode, dept.EmployeeCode} {
			fragment := DepartmentCodeFragment(code)
			if fragment == "" {
				continue
			}
			if upper == fragment {
				return DepartmentMatch{Department: dept, Kind: MatchCodeFragment}
			}
			// Tolerates tags truncated below the three-char fragment.
			if strings.HasPrefix(fragment, upper) {
				return DepartmentMatch{Department: dept, Kind: MatchFragmentPrefix}
			}
		}
		if strings.Contains(dept.ID, lower) {
			return DepartmentMatch{Department: dept, Kind: MatchIDSubstring}
		}
	}
	return DepartmentMatch{Kind: MatchNone}
}
