package services

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// Access code formats, uppercase-normalized:
//
//	legacy:     ORGPREFIX-YYYY-WORD        (org-wide, pre-department era)
//	department: ORGPREFIX-MGMT-SAL0423     (role + department scoped)
//
// The org prefix is lossy by construction, so parsed codes are matched against
// stored code strings, never against a reconstructed organization name.
var (
	departmentCodeRe = regexp.MustCompile(`^[A-Z0-9]+-(MGMT|EMP)-([A-Z0-9]+)(\d{4})$`)
	legacyCodeRe     = regexp.MustCompile(`^[A-Z0-9]+-(\d{4})-([A-Z]+)$`)
	nonAlnumRe       = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// codeWords is the fixed vocabulary for legacy code suffixes.
var codeWords = []string{
	"STRATEGY", "VISION", "ALIGN", "FOCUS", "GROWTH", "MISSION",
	"VALUES", "GOALS", "INSIGHT", "CLARITY", "PURPOSE", "IMPACT",
}

const (
	roleTokenManagement = "MGMT"
	roleTokenEmployee   = "EMP"
)

// ParsedCode is the outcome of parsing a typed access code. Format problems
// are reported through Valid/Errors, never as a Go error.
type ParsedCode struct {
	Valid bool `json:"valid"`
	// Role and Department are only populated for department-format codes.
	Role       models.ParticipantRole `json:"role,omitempty"`
	Department string                 `json:"department,omitempty"`
	// OrgGuess is a best-effort display reconstruction of the org prefix.
	// Sanitization is lossy; never use it as a lookup key.
	OrgGuess string   `json:"org_guess,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// CodeGenerator produces access codes. The clock and word picker are
// injectable so tests get deterministic output.
type CodeGenerator struct {
	now      func() time.Time
	pickWord func() string
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		now:      func() time.Time { return time.Now().UTC() },
		pickWord: func() string { return codeWords[rand.Intn(len(codeWords))] },
	}
}

// LegacyCode builds the organization-wide code: PREFIX-YYYY-WORD. Uniqueness
// rests on (prefix, word) combinatorics only; collisions are astronomically
// unlikely, not impossible.
func (g *CodeGenerator) LegacyCode(orgName string) string {
	return fmt.Sprintf("%s-%d-%s", orgPrefix(orgName), g.now().Year(), g.pickWord())
}

// DepartmentCode builds a role-scoped code: PREFIX-MGMT-SAL0423. The numeric
// suffix is the last four digits of the Unix-millisecond clock.
func (g *CodeGenerator) DepartmentCode(orgName string, role models.ParticipantRole, deptID string) string {
	token := nonAlnumRe.ReplaceAllString(deptID, "")
	if len(token) > 3 {
		token = token[:3]
	}
	ms := g.now().UnixMilli()
	return fmt.Sprintf("%s-%s-%s%04d", orgPrefix(orgName), roleToken(role), strings.ToUpper(token), ms%10000)
}

// ParseAccessCode normalizes and classifies a typed code. The department
// pattern is tried first, then the legacy fallback.
func ParseAccessCode(code string) ParsedCode {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if m := departmentCodeRe.FindStringSubmatch(normalized); m != nil {
		return ParsedCode{
			Valid:      true,
			Role:       roleFromToken(m[1]),
			Department: m[2],
			OrgGuess:   normalized[:strings.Index(normalized, "-")],
		}
	}
	if legacyCodeRe.MatchString(normalized) {
		return ParsedCode{
			Valid:    true,
			OrgGuess: normalized[:strings.Index(normalized, "-")],
		}
	}
	return ParsedCode{Valid: false, Errors: []string{"Invalid access code format"}}
}

// DepartmentCodeFragment extracts the short department token from a stored
// department code, or "" when the code is not department-format.
func DepartmentCodeFragment(code string) string {
	if m := departmentCodeRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(code))); m != nil {
		return m[2]
	}
	return ""
}

// orgPrefix sanitizes an organization name into the code prefix: per word,
// non-alphanumerics stripped and at most four characters kept, concatenated,
// truncated to eight, uppercased.
func orgPrefix(orgName string) string {
	var b strings.Builder
	for _, word := range strings.Fields(orgName) {
		clean := nonAlnumRe.ReplaceAllString(word, "")
		if len(clean) > 4 {
			clean = clean[:4]
		}
		b.WriteString(clean)
	}
	prefix := b.String()
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	if prefix == "" {
		// Names with no alphanumeric content still need a parseable prefix.
		prefix = "ORG"
	}
	return strings.ToUpper(prefix)
}

func roleToken(role models.ParticipantRole) string {
	if role == models.RoleEmployee {
		return roleTokenEmployee
	}
	return roleTokenManagement
}

func roleFromToken(token string) models.ParticipantRole {
	if token == roleTokenEmployee {
		return models.RoleEmployee
	}
	return models.RoleManagement
}

// Slugify derives a department id from its display name: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, no leading or trailing
// hyphens.
func Slugify(name string) string {
	slug := nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
