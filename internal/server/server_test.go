package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/devbyharshit/collab-khata/internal/config"
	"github.com/devbyharshit/collab-khata/internal/db"
	"github.com/devbyharshit/collab-khata/internal/engine"
	"github.com/devbyharshit/collab-khata/internal/migrate"
	"github.com/devbyharshit/collab-khata/internal/server"
)

type testServer struct {
	BaseURL string
	Client  *http.Client
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Default()
	cfg.Uploads.MaxSizeMB = 1
	eng := engine.New(conn, cfg)
	eng.Now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	handler, err := server.New(server.Config{
		Engine:    eng,
		BasePath:  "/api",
		Auth:      server.AuthConfig{JWTSecret: "test-secret"},
		UploadDir: dir,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	return testServer{
		BaseURL: "http://" + ln.Addr().String() + "/api",
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func doJSON(t *testing.T, ts testServer, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func registerAndLogin(t *testing.T, ts testServer) map[string]string {
	t.Helper()
	resp, raw := doJSON(t, ts, http.MethodPost, "/auth/register", map[string]string{
		"email":    "creator@example.com",
		"password": "hunter2hunter2",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d: %s", resp.StatusCode, raw)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if out.Token == "" {
		t.Fatal("empty token")
	}
	return map[string]string{"Authorization": "Bearer " + out.Token}
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, raw)
	}
	return out.Error.Code
}

func createBrand(t *testing.T, ts testServer, auth map[string]string, name string) string {
	t.Helper()
	resp, raw := doJSON(t, ts, http.MethodPost, "/brands", map[string]string{"name": name}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create brand: status %d: %s", resp.StatusCode, raw)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out.ID
}

func createCollab(t *testing.T, ts testServer, auth map[string]string, brandID, title string) string {
	t.Helper()
	resp, raw := doJSON(t, ts, http.MethodPost, "/collaborations", map[string]string{
		"brand_id": brandID,
		"title":    title,
		"platform": "Instagram",
	}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create collaboration: status %d: %s", resp.StatusCode, raw)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out.ID
}

func changeStatus(t *testing.T, ts testServer, auth map[string]string, collabID string, body map[string]any) (*http.Response, []byte) {
	t.Helper()
	return doJSON(t, ts, http.MethodPatch, "/collaborations/"+collabID+"/status", body, auth)
}

func TestHealthOpen(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := doJSON(t, ts, http.MethodGet, "/health", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, raw)
	}
}

func TestRequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := doJSON(t, ts, http.MethodGet, "/brands", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d: %s", resp.StatusCode, raw)
	}
	if code := errorCode(t, raw); code != "unauthorized" {
		t.Fatalf("code = %s", code)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)

	resp, raw := doJSON(t, ts, http.MethodPost, "/auth/login", map[string]string{
		"email":    "creator@example.com",
		"password": "hunter2hunter2",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d: %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/auth/me", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d: %s", resp.StatusCode, raw)
	}
	var me struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(raw, &me); err != nil {
		t.Fatal(err)
	}
	if me.Email != "creator@example.com" || me.Source != "jwt" {
		t.Fatalf("unexpected principal: %+v", me)
	}

	resp, raw = doJSON(t, ts, http.MethodPost, "/auth/login", map[string]string{
		"email":    "creator@example.com",
		"password": "wrong-password",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d: %s", resp.StatusCode, raw)
	}
	if code := errorCode(t, raw); code != "invalid_credentials" {
		t.Fatalf("code = %s", code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)

	resp, raw := doJSON(t, ts, http.MethodPost, "/auth/api-keys", map[string]string{"name": "ci"}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("issue key: status %d: %s", resp.StatusCode, raw)
	}
	var key struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(raw, &key); err != nil {
		t.Fatal(err)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/auth/me", nil, map[string]string{"X-Api-Key": key.Key})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me via api key: status %d: %s", resp.StatusCode, raw)
	}
	var me struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(raw, &me); err != nil {
		t.Fatal(err)
	}
	if me.Source != "api_key" {
		t.Fatalf("source = %s", me.Source)
	}
}

func TestBrandLifecycle(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)
	brandID := createBrand(t, ts, auth, "Glow Cosmetics")

	resp, raw := doJSON(t, ts, http.MethodGet, "/brands", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d: %s", resp.StatusCode, raw)
	}
	var list struct {
		Brands []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"brands"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Brands) != 1 || list.Brands[0].ID != brandID {
		t.Fatalf("unexpected list: %s", raw)
	}

	resp, raw = doJSON(t, ts, http.MethodPut, "/brands/"+brandID, map[string]string{"name": "Glow Labs"}, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d: %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, ts, http.MethodDelete, "/brands/"+brandID, nil, auth)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d: %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/brands/"+brandID, nil, auth)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status %d: %s", resp.StatusCode, raw)
	}
}

func TestStatusTransitionErrors(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)
	brandID := createBrand(t, ts, auth, "Glow Cosmetics")
	collabID := createCollab(t, ts, auth, brandID, "Summer reel")

	// Skipping straight to Posted from Lead is rejected.
	resp, raw := changeStatus(t, ts, auth, collabID, map[string]any{"status": "Posted", "posting_date": "2024-06-10"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("skip: status %d: %s", resp.StatusCode, raw)
	}
	if code := errorCode(t, raw); code != "invalid_transition" {
		t.Fatalf("code = %s", code)
	}

	for _, target := range []string{"Negotiating", "Confirmed", "InProduction"} {
		resp, raw = changeStatus(t, ts, auth, collabID, map[string]any{"status": target})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("to %s: status %d: %s", target, resp.StatusCode, raw)
		}
	}

	// Posted needs a posting date.
	resp, raw = changeStatus(t, ts, auth, collabID, map[string]any{"status": "Posted"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("posted without date: status %d: %s", resp.StatusCode, raw)
	}
	resp, raw = changeStatus(t, ts, auth, collabID, map[string]any{"status": "Posted", "posting_date": "2024-06-10"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("posted: status %d: %s", resp.StatusCode, raw)
	}
	resp, raw = changeStatus(t, ts, auth, collabID, map[string]any{"status": "PaymentPending"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("payment pending: status %d: %s", resp.StatusCode, raw)
	}

	// An unpaid expectation blocks Paid.
	resp, raw = doJSON(t, ts, http.MethodPost, "/collaborations/"+collabID+"/payments", map[string]any{
		"expected_amount": "25000",
		"promised_date":   "2024-06-20",
	}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expectation: status %d: %s", resp.StatusCode, raw)
	}
	var view struct {
		Expectation struct {
			ID string `json:"id"`
		} `json:"expectation"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatal(err)
	}
	if view.Status != "Pending" {
		t.Fatalf("derived status = %s", view.Status)
	}

	resp, raw = changeStatus(t, ts, auth, collabID, map[string]any{"status": "Paid"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("paid while pending: status %d: %s", resp.StatusCode, raw)
	}
	if code := errorCode(t, raw); code != "payment_incomplete" {
		t.Fatalf("code = %s", code)
	}

	resp, raw = doJSON(t, ts, http.MethodPost, "/payments/"+view.Expectation.ID+"/credits", map[string]any{
		"credited_amount": "25000",
		"credited_date":   "2024-06-12",
	}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("credit: status %d: %s", resp.StatusCode, raw)
	}

	for _, target := range []string{"Paid", "Closed"} {
		resp, raw = changeStatus(t, ts, auth, collabID, map[string]any{"status": target})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("to %s: status %d: %s", target, resp.StatusCode, raw)
		}
	}

	// Closed is terminal.
	resp, raw = changeStatus(t, ts, auth, collabID, map[string]any{"status": "Lead"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("reopen closed: status %d: %s", resp.StatusCode, raw)
	}
	if code := errorCode(t, raw); code != "terminal_state" {
		t.Fatalf("code = %s", code)
	}
}

func TestOverdueAndDashboard(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)
	brandID := createBrand(t, ts, auth, "Glow Cosmetics")
	collabID := createCollab(t, ts, auth, brandID, "Diwali campaign")

	resp, raw := doJSON(t, ts, http.MethodPost, "/collaborations/"+collabID+"/payments", map[string]any{
		"expected_amount": "8000",
		"promised_date":   "2024-06-10",
	}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expectation: status %d: %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/payments/overdue", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("overdue: status %d: %s", resp.StatusCode, raw)
	}
	var overdue struct {
		Overdue []struct {
			CollaborationTitle string `json:"collaboration_title"`
			DaysOverdue        int    `json:"days_overdue"`
			Balance            string `json:"balance"`
		} `json:"overdue"`
	}
	if err := json.Unmarshal(raw, &overdue); err != nil {
		t.Fatal(err)
	}
	if len(overdue.Overdue) != 1 {
		t.Fatalf("overdue rows = %d: %s", len(overdue.Overdue), raw)
	}
	if overdue.Overdue[0].CollaborationTitle != "Diwali campaign" || overdue.Overdue[0].DaysOverdue != 5 {
		t.Fatalf("unexpected overdue row: %+v", overdue.Overdue[0])
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/dashboard/summary", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: status %d: %s", resp.StatusCode, raw)
	}
	var summary struct {
		TotalExpected string         `json:"total_expected"`
		OverdueCount  int            `json:"overdue_count"`
		StatusCounts  map[string]int `json:"status_counts"`
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatal(err)
	}
	if summary.TotalExpected != "8000" || summary.OverdueCount != 1 {
		t.Fatalf("unexpected summary: %s", raw)
	}
	if len(summary.StatusCounts) != 9 {
		t.Fatalf("status count keys = %d: %s", len(summary.StatusCounts), raw)
	}
	if summary.StatusCounts["Lead"] != 1 {
		t.Fatalf("lead count = %d", summary.StatusCounts["Lead"])
	}
}

func uploadFile(t *testing.T, ts testServer, auth map[string]string, collabID, filename string, content []byte) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.BaseURL+"/collaborations/"+collabID+"/files", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range auth {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("upload %s: %v", filename, err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return resp, raw
}

func TestFileUploadAndDownload(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)
	brandID := createBrand(t, ts, auth, "Glow Cosmetics")
	collabID := createCollab(t, ts, auth, brandID, "Summer reel")

	content := []byte("two reels, one story, net 30")
	resp, raw := uploadFile(t, ts, auth, collabID, "contract.txt", content)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: status %d: %s", resp.StatusCode, raw)
	}
	var att struct {
		ID               string `json:"id"`
		FileType         string `json:"file_type"`
		OriginalFilename string `json:"original_filename"`
	}
	if err := json.Unmarshal(raw, &att); err != nil {
		t.Fatal(err)
	}
	if att.FileType != ".txt" || att.OriginalFilename != "contract.txt" {
		t.Fatalf("unexpected attachment: %+v", att)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/collaborations/"+collabID+"/files", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list files: status %d: %s", resp.StatusCode, raw)
	}
	var list struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Files) != 1 || list.Files[0].ID != att.ID {
		t.Fatalf("unexpected file list: %s", raw)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/files/"+att.ID+"/download", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download: status %d: %s", resp.StatusCode, raw)
	}
	if !bytes.Equal(raw, content) {
		t.Fatalf("downloaded bytes differ: %q", raw)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "contract.txt") {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestFileUploadRejectsDisallowedExtension(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)
	brandID := createBrand(t, ts, auth, "Glow Cosmetics")
	collabID := createCollab(t, ts, auth, brandID, "Summer reel")

	resp, raw := uploadFile(t, ts, auth, collabID, "invoice.exe", []byte("MZ"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %s", resp.StatusCode, raw)
	}
	if code := errorCode(t, raw); code != "file_type_not_allowed" {
		t.Fatalf("code = %s", code)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/collaborations/"+collabID+"/files", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("list after rejection")
	}
	var list struct {
		Files []any `json:"files"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Files) != 0 {
		t.Fatalf("rejected upload left %d attachments", len(list.Files))
	}
}

func TestFileUploadRejectsOversizeBody(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)
	brandID := createBrand(t, ts, auth, "Glow Cosmetics")
	collabID := createCollab(t, ts, auth, brandID, "Summer reel")

	// Cap in newTestServer is 1 MB; send 2 MB.
	resp, raw := uploadFile(t, ts, auth, collabID, "huge.txt", bytes.Repeat([]byte("a"), 2<<20))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d: %s", resp.StatusCode, raw)
	}
	if code := errorCode(t, raw); code != "file_too_large" {
		t.Fatalf("code = %s", code)
	}
}

func TestConversationValidation(t *testing.T) {
	ts := newTestServer(t)
	auth := registerAndLogin(t, ts)
	brandID := createBrand(t, ts, auth, "Glow Cosmetics")
	collabID := createCollab(t, ts, auth, brandID, "Summer reel")

	resp, raw := doJSON(t, ts, http.MethodPost, "/collaborations/"+collabID+"/conversations", map[string]string{
		"channel":      "WhatsApp",
		"message_text": "Agreed on two reels",
	}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add conversation: status %d: %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, fmt.Sprintf("/collaborations/%s/conversations", collabID), nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d: %s", resp.StatusCode, raw)
	}
	var list struct {
		Conversations []struct {
			MessageText string `json:"message_text"`
		} `json:"conversations"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Conversations) != 1 || list.Conversations[0].MessageText != "Agreed on two reels" {
		t.Fatalf("unexpected list: %s", raw)
	}
}
