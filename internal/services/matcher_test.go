package services

import (
	"testing"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

func testDepartments() []models.Department {
	return []models.Department{
		{ID: "sales", Name: "Sales", ManagementCode: "ACMECORP-MGMT-SAL0423", EmployeeCode: "ACMECORP-EMP-SAL0424"},
		{ID: "customer-success", Name: "Customer Success", ManagementCode: "ACMECORP-MGMT-CUS0425", EmployeeCode: "ACMECORP-EMP-CUS0426"},
	}
}

func TestMatchDepartmentExactID(t *testing.T) {
	m := MatchDepartment("sales", testDepartments())
	if m.Kind != MatchExactID || m.Department == nil || m.Department.ID != "sales" {
		t.Fatalf("match = %+v, want exact_id sales", m)
	}
}

func TestMatchDepartmentCodeFragment(t *testing.T) {
	m := MatchDepartment("CUS", testDepartments())
	if m.Kind != MatchCodeFragment || m.Department.ID != "customer-success" {
		t.Fatalf("match = %+v, want code_fragment customer-success", m)
	}
	// Lowercase fragments match too.
	m = MatchDepartment("cus", testDepartments())
	if m.Kind != MatchCodeFragment || m.Department.ID != "customer-success" {
		t.Fatalf("lowercase match = %+v, want code_fragment customer-success", m)
	}
}

func TestMatchDepartmentFragmentPrefix(t *testing.T) {
	// Tag truncated below the three-char fragment.
	m := MatchDepartment("SA", testDepartments())
	if m.Kind != MatchFragmentPrefix || m.Department.ID != "sales" {
		t.Fatalf("match = %+v, want fragment_prefix sales", m)
	}
}

func TestMatchDepartmentIDSubstring(t *testing.T) {
	m := MatchDepartment("success", testDepartments())
	if m.Kind != MatchIDSubstring || m.Department.ID != "customer-success" {
		t.Fatalf("match = %+v, want id_substring customer-success", m)
	}
}

func TestMatchDepartmentNone(t *testing.T) {
	if m := MatchDepartment("warehouse", testDepartments()); m.Kind != MatchNone || m.Department != nil {
		t.Fatalf("match = %+v, want none", m)
	}
	if m := MatchDepartment("  ", testDepartments()); m.Kind != MatchNone {
		t.Fatalf("blank tag matched: %+v", m)
	}
}

func TestMatchDepartmentFirstWinsOnAmbiguity(t *testing.T) {
	// Both fragments start with "S" in this setup; iteration order decides.
	depts := []models.Department{
		{ID: "sales", ManagementCode: "ORG-MGMT-SAL0001", EmployeeCode: "ORG-EMP-SAL0002"},
		{ID: "support", ManagementCode: "ORG-MGMT-SUP0003", EmployeeCode: "ORG-EMP-SUP0004"},
	}
	m := MatchDepartment("S", depts)
	if m.Kind != MatchFragmentPrefix || m.Department.ID != "sales" {
		t.Fatalf("ambiguous match = %+v, want first department (sales)", m)
	}
}

func TestMatchDepartmentRoundTripFromGeneratedCode(t *testing.T) {
	g := fixedCodeGenerator()
	dept := models.Department{
		ID:             "operations",
		Name:           "Operations",
		ManagementCode: g.DepartmentCode("Acme Corp", models.RoleManagement, "operations"),
		EmployeeCode:   g.DepartmentCode("Acme Corp", models.RoleEmployee, "operations"),
	}
	parsed := ParseAccessCode(dept.ManagementCode)
	if !parsed.Valid {
		t.Fatalf("generated code failed to parse: %+v", parsed)
	}
	m := MatchDepartment(parsed.Department, []models.Department{dept})
	if m.Department == nil || m.Department.ID != "operations" {
		t.Fatalf("round-trip match = %+v, want operations", m)
	}
}
