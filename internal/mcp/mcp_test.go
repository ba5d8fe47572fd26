package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/stash/internal/config"
	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/ops"
)

// testSetup creates a seeded database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := ops.EnsureDefaultBuckets(database); err != nil {
		t.Fatalf("failed to seed buckets: %v", err)
	}

	return database, config.DefaultConfig()
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// decodeResult unmarshals a success result's JSON payload.
func decodeResult(t *testing.T, res *mcp.CallToolResult, out any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
}

// errorCode extracts the error code from an error result.
func errorCode(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if !res.IsError {
		t.Fatal("expected error result")
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Error.Code
}

func TestHandleAdd_Success(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	res, err := h.HandleAdd(context.Background(), makeRequest(map[string]any{
		"type":      "link",
		"url":       "https://example.com/article",
		"note_body": "read later",
	}))
	if err != nil {
		t.Fatalf("HandleAdd returned error: %v", err)
	}

	var out ops.AddOutput
	decodeResult(t, res, &out)
	if out.ID == "" || out.Bucket != "inbox" || out.IsProcessed {
		t.Errorf("out = %+v", out)
	}
}

func TestHandleAdd_InvalidType(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	res, err := h.HandleAdd(context.Background(), makeRequest(map[string]any{
		"type": "bookmark",
	}))
	if err != nil {
		t.Fatalf("HandleAdd returned error: %v", err)
	}
	if code := errorCode(t, res); code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", code)
	}
}

func TestHandleGet_IncludesInsights(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	added, err := ops.Add(database, ops.AddInput{
		Type: "link",
		URL:  strPtr("https://www.amazon.com/dp/B000"),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := h.HandleGet(context.Background(), makeRequest(map[string]any{"id": added.ID}))
	if err != nil {
		t.Fatalf("HandleGet returned error: %v", err)
	}

	var out ops.FetchOutput
	decodeResult(t, res, &out)
	if out.Item.SmartDescription != "Product you're considering" {
		t.Errorf("SmartDescription = %q", out.Item.SmartDescription)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	res, err := h.HandleGet(context.Background(), makeRequest(map[string]any{"id": "missing"}))
	if err != nil {
		t.Fatalf("HandleGet returned error: %v", err)
	}
	if code := errorCode(t, res); code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", code)
	}
}

func TestHandleMove(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	added, err := ops.Add(database, ops.AddInput{Type: "text", NoteBody: strPtr("x")})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := h.HandleMove(context.Background(), makeRequest(map[string]any{
		"id":     added.ID,
		"bucket": "personal",
	}))
	if err != nil {
		t.Fatalf("HandleMove returned error: %v", err)
	}

	var out ops.MoveOutput
	decodeResult(t, res, &out)
	if out.Bucket != "personal" || !out.IsProcessed {
		t.Errorf("out = %+v", out)
	}
}

func TestHandleNote(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	added, err := ops.Add(database, ops.AddInput{Type: "screenshot"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := h.HandleNote(context.Background(), makeRequest(map[string]any{
		"id":        added.ID,
		"note_body": "whiteboard from standup",
	}))
	if err != nil {
		t.Fatalf("HandleNote returned error: %v", err)
	}

	var out ops.AnnotateOutput
	decodeResult(t, res, &out)
	if !out.Updated {
		t.Errorf("out = %+v", out)
	}
}

func TestHandleDelete(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	added, err := ops.Add(database, ops.AddInput{Type: "text", NoteBody: strPtr("x")})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := h.HandleDelete(context.Background(), makeRequest(map[string]any{"id": added.ID}))
	if err != nil {
		t.Fatalf("HandleDelete returned error: %v", err)
	}

	var out ops.DeleteOutput
	decodeResult(t, res, &out)
	if !out.Deleted {
		t.Errorf("out = %+v", out)
	}
}

func TestHandleList_UnprocessedFilter(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	if _, err := ops.Add(database, ops.AddInput{Type: "text", NoteBody: strPtr("pending")}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := ops.Add(database, ops.AddInput{Type: "text", Bucket: "work", NoteBody: strPtr("done")}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := h.HandleList(context.Background(), makeRequest(map[string]any{
		"unprocessed_only": true,
	}))
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}

	var out ops.ListOutput
	decodeResult(t, res, &out)
	if len(out.Items) != 1 || out.Items[0].IsProcessed {
		t.Errorf("items = %+v", out.Items)
	}
}

func TestHandleBucketListAndRename(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	res, err := h.HandleBucketRename(context.Background(), makeRequest(map[string]any{
		"system_name": "ideas",
		"custom_name": "Sparks",
	}))
	if err != nil {
		t.Fatalf("HandleBucketRename returned error: %v", err)
	}
	var renamed ops.RenameBucketOutput
	decodeResult(t, res, &renamed)
	if renamed.CustomName != "Sparks" {
		t.Errorf("renamed = %+v", renamed)
	}

	res, err = h.HandleBucketList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleBucketList returned error: %v", err)
	}
	var out ops.ListBucketsOutput
	decodeResult(t, res, &out)
	if len(out.Buckets) != 5 {
		t.Fatalf("len = %d, want 5", len(out.Buckets))
	}
	found := false
	for _, b := range out.Buckets {
		if b.SystemName == "ideas" && b.CustomName == "Sparks" {
			found = true
		}
	}
	if !found {
		t.Error("renamed bucket not reflected in bucket_list")
	}
}

func TestHandleDashboard(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	if _, err := ops.Add(database, ops.AddInput{Type: "text", Bucket: "ideas", NoteBody: strPtr("x")}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	res, err := h.HandleDashboard(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleDashboard returned error: %v", err)
	}

	var out ops.DashboardOutput
	decodeResult(t, res, &out)
	if !strings.Contains(out.Summary, "ideas") {
		t.Errorf("Summary = %q", out.Summary)
	}
	if out.TodayCount != 1 {
		t.Errorf("TodayCount = %d, want 1", out.TodayCount)
	}
}

func TestNewServer_DisabledTools(t *testing.T) {
	database, cfg := testSetup(t)
	cfg.DisabledTools = []string{"item_delete"}

	s := NewServer(database, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
	// Unknown names are surfaced by ValidateDisabledTools for the CLI to
	// warn about rather than failing server startup.
	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) != 0 {
		t.Errorf("unknown = %v", unknown)
	}
	if unknown := ValidateDisabledTools([]string{"item_nope"}); len(unknown) != 1 {
		t.Errorf("unknown = %v, want one entry", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 9 {
		t.Errorf("len = %d, want 9", len(names))
	}
}

func strPtr(s string) *string { return &s }
