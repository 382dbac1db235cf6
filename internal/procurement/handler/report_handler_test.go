package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/exenity/portal/internal/procurement/entity"
	"github.com/exenity/portal/internal/testutil"
	"github.com/xuri/excelize/v2"
)

func seedReportData(t *testing.T, env *prTestEnv) {
	t.Helper()

	bom := laptopRequest()
	bom["purchaseType"] = "Missing in BOM"
	bom["estimatedCost"] = 80
	createPR(t, env, bom)             // PR-001, Pending
	createPR(t, env, bom)             // PR-002
	createPR(t, env, laptopRequest()) // PR-003, Regular

	ops := laptopRequest()
	ops["department"] = "Ops"
	createPR(t, env, ops) // PR-004

	steps := []struct {
		path string
		body map[string]interface{}
	}{
		{"/api/prs/PR-002/status", map[string]interface{}{"status": "In Process"}},
		{"/api/prs/PR-002/actual-cost", map[string]interface{}{"actualCost": 75.5}},
		{"/api/prs/PR-003/actual-cost", map[string]interface{}{"actualCost": 900}},
		{"/api/prs/PR-004/status", map[string]interface{}{"status": "Approved"}},
		{"/api/prs/PR-004/actual-cost", map[string]interface{}{"actualCost": "24.5"}},
	}
	for _, s := range steps {
		if w := testutil.DoRequest(env.Router, http.MethodPatch, s.path, s.body, ""); w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", s.path, w.Code, w.Body.String())
		}
	}
}

func TestBOMMissingReport(t *testing.T) {
	env := setupPRTest(t, false)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/reports/bom-missing", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if items := resp["items"].([]interface{}); len(items) != 0 {
		t.Fatalf("expected no items, got %v", items)
	}

	seedReportData(t, env)

	resp = testutil.ParseResponse(testutil.DoRequest(env.Router, http.MethodGet, "/api/reports/bom-missing", nil, ""))
	items := resp["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 BOM items, got %d", len(items))
	}
	for _, item := range items {
		if item.(map[string]interface{})["purchaseType"] != entity.PurchaseTypeMissingInBOM {
			t.Fatalf("unexpected item %v", item)
		}
	}

	summary := resp["summary"].(map[string]interface{})
	if summary["totalItems"].(float64) != 2 {
		t.Fatalf("expected totalItems 2, got %v", summary["totalItems"])
	}
	if summary["totalCost"].(float64) != 75.5 {
		t.Fatalf("expected totalCost 75.5, got %v", summary["totalCost"])
	}
	if summary["pendingCount"].(float64) != 1 || summary["approvedCount"].(float64) != 1 {
		t.Fatalf("unexpected counts %v", summary)
	}
}

func TestExpenditureReport(t *testing.T) {
	env := setupPRTest(t, false)

	resp := testutil.ParseResponse(testutil.DoRequest(env.Router, http.MethodGet, "/api/reports/expenditure", nil, ""))
	if resp["totalExpenditure"].(float64) != 0 || len(resp["byType"].(map[string]interface{})) != 0 {
		t.Fatalf("expected empty report, got %v", resp)
	}

	seedReportData(t, env)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/reports/expenditure", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	if resp["totalExpenditure"].(float64) != 1000 {
		t.Fatalf("expected totalExpenditure 1000, got %v", resp["totalExpenditure"])
	}

	byType := resp["byType"].(map[string]interface{})
	if byType["Regular Purchase"].(float64) != 924.5 || byType["Missing in BOM"].(float64) != 75.5 {
		t.Fatalf("unexpected byType %v", byType)
	}
	byDepartment := resp["byDepartment"].(map[string]interface{})
	if byDepartment["Eng"].(float64) != 975.5 || byDepartment["Ops"].(float64) != 24.5 {
		t.Fatalf("unexpected byDepartment %v", byDepartment)
	}
	byStatus := resp["byStatus"].(map[string]interface{})
	if len(byStatus) != 3 {
		t.Fatalf("expected 3 statuses, got %v", byStatus)
	}
	if byStatus["Pending"].(float64) != 900 || byStatus["In Process"].(float64) != 75.5 || byStatus["Approved"].(float64) != 24.5 {
		t.Fatalf("unexpected byStatus %v", byStatus)
	}
}

func TestExportWorkbook(t *testing.T) {
	env := setupPRTest(t, false)
	seedReportData(t, env)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/reports/export", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "purchase_requests_") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("export is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Purchase Requests")
	if err != nil {
		t.Fatalf("missing sheet: %v", err)
	}
	// header, four requests, total
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[1][0] != "PR-004" || rows[5][0] != "Total" {
		t.Fatalf("unexpected first column: %q / %q", rows[1][0], rows[5][0])
	}
	if total, _ := f.GetCellValue("Expenditure", "B1"); total != "1000" {
		t.Fatalf("expected expenditure total 1000, got %q", total)
	}
}

func TestLogin(t *testing.T) {
	env := setupPRTest(t, false)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"password": testutil.Password}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["success"] != true || resp["message"] != "Login successful" {
		t.Fatalf("unexpected body %v", resp)
	}
	if token, _ := resp["token"].(string); token == "" {
		t.Fatalf("expected a token")
	}

	for _, body := range []interface{}{
		map[string]interface{}{"password": "wrong"},
		map[string]interface{}{"password": ""},
		map[string]interface{}{},
	} {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/login", body, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %d", body, w.Code)
		}
		resp := testutil.ParseResponse(w)
		if resp["success"] != false || resp["message"] != "Invalid password" {
			t.Fatalf("%v: unexpected body %v", body, resp)
		}
	}
}

func TestEventStreamDeliversPRUpdates(t *testing.T) {
	env := setupPRTest(t, false)

	req, _ := http.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		env.Router.ServeHTTP(w, req)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for env.Hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	createPR(t, env, laptopRequest())
	env.Hub.CloseAll()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not end after hub closed")
	}

	body := w.Body.String()
	if !strings.Contains(body, "event: connected") {
		t.Fatalf("missing connected event: %s", body)
	}
	if !strings.Contains(body, "event: pr_update") || !strings.Contains(body, `"id":"PR-001"`) || !strings.Contains(body, `"action":"created"`) {
		t.Fatalf("missing pr_update event: %s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
}
