//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("ALIGN_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

// TestConsultantJourneyIntegration drives the full flow against a running
// server: register, create an assessment with a department, validate the
// generated code, submit responses from both sides, then read the gap back
// out of the summary.
func TestConsultantJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	email := fmt.Sprintf("integration_%d@example.com", time.Now().UnixNano())
	password := "Secret123!"
	orgName := fmt.Sprintf("Integration Org %d", time.Now().UnixNano())

	var registerResp struct {
		Token        string `json:"token"`
		ConsultantID string `json:"consultant_id"`
	}
	doPost(t, client, base+"/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Integration Consultant",
	}, &registerResp)
	if registerResp.Token == "" || registerResp.ConsultantID == "" {
		t.Fatalf("unexpected register response: %+v", registerResp)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &loginResp)
	token := loginResp.Token
	if token == "" {
		t.Fatalf("login did not return token")
	}

	var assessment struct {
		ID         string `json:"id"`
		AccessCode string `json:"access_code"`
	}
	doPost(t, client, base+"/api/assessments", token, map[string]any{
		"organization_name": orgName,
	}, &assessment)
	if assessment.ID == "" || assessment.AccessCode == "" {
		t.Fatalf("unexpected assessment response: %+v", assessment)
	}

	var dept struct {
		ID             string `json:"id"`
		ManagementCode string `json:"management_code"`
		EmployeeCode   string `json:"employee_code"`
	}
	doPost(t, client, base+"/api/assessments/"+assessment.ID+"/departments", token, map[string]string{
		"name": "Sales",
	}, &dept)
	if dept.ManagementCode == "" || dept.EmployeeCode == "" {
		t.Fatalf("department has no codes: %+v", dept)
	}

	var validation struct {
		Valid        bool   `json:"valid"`
		AssessmentID string `json:"assessment_id"`
		Role         string `json:"role"`
	}
	doPost(t, client, base+"/api/codes/validate", "", map[string]string{
		"code": dept.ManagementCode,
	}, &validation)
	if !validation.Valid || validation.AssessmentID != assessment.ID || validation.Role != "management" {
		t.Fatalf("unexpected validation: %+v", validation)
	}

	submit := func(code string, score int) {
		var submitResp struct {
			OK            bool   `json:"ok"`
			ParticipantID string `json:"participant_id"`
		}
		doPost(t, client, base+"/api/responses", "", map[string]any{
			"code":      code,
			"answers":   []map[string]any{{"question_id": "vision-clarity", "score": score}},
			"completed": true,
		}, &submitResp)
		if !submitResp.OK {
			t.Fatalf("submit failed: %+v", submitResp)
		}
	}
	submit(dept.ManagementCode, 8)
	submit(dept.ManagementCode, 9)
	submit(dept.EmployeeCode, 5)

	var summary struct {
		AssessmentID   string `json:"assessment_id"`
		TotalResponses int    `json:"total_responses"`
		Rankings       []struct {
			DepartmentID   string  `json:"department_id"`
			AverageAbsGap  float64 `json:"average_abs_gap"`
			TotalResponses int     `json:"total_responses"`
		} `json:"rankings"`
	}
	doGet(t, client, base+"/api/assessments/"+assessment.ID+"/summary", token, &summary)
	if summary.TotalResponses != 3 || len(summary.Rankings) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if r := summary.Rankings[0]; r.DepartmentID != dept.ID || r.AverageAbsGap != 3.5 || r.TotalResponses != 3 {
		t.Fatalf("unexpected ranking: %+v", summary.Rankings[0])
	}

	exportURL := base + "/api/assessments/" + assessment.ID + "/export?format=gaps"
	req, err := http.NewRequest(http.MethodGet, exportURL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("export status %d body %s", resp.StatusCode, string(body))
	}
	csvData, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export data: %v", err)
	}
	if !strings.Contains(string(csvData), dept.ID) {
		t.Fatalf("export csv missing department; csv=%s", string(csvData))
	}

	// Locking expires every code immediately.
	doPost(t, client, base+"/api/assessments/"+assessment.ID+"/status", token, map[string]string{
		"status": "locked",
	}, nil)
	doPost(t, client, base+"/api/codes/validate", "", map[string]string{
		"code": assessment.AccessCode,
	}, &validation)
	if validation.Valid {
		t.Fatalf("legacy code still valid after lock")
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http post %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}

func doGet(t *testing.T, client *http.Client, url, token string, out any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http get %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		t.Fatalf("decode response from %s: %v", url, err)
	}
}
