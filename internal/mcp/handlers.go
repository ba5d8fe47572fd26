package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/stash/internal/config"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// AddRequest represents the arguments for item_add.
type AddRequest struct {
	Type            string  `json:"type"`
	Bucket          string  `json:"bucket,omitempty"`
	NoteBody        *string `json:"note_body,omitempty"`
	ExtractedText   *string `json:"extracted_text,omitempty"`
	DurationCaption *string `json:"duration_caption,omitempty"`
	URL             *string `json:"url,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
}

// GetRequest represents the arguments for item_get.
type GetRequest struct {
	ID string `json:"id"`
}

// MoveRequest represents the arguments for item_move.
type MoveRequest struct {
	ID     string `json:"id"`
	Bucket string `json:"bucket"`
}

// NoteRequest represents the arguments for item_note.
type NoteRequest struct {
	ID            string  `json:"id"`
	NoteBody      *string `json:"note_body,omitempty"`
	ExtractedText *string `json:"extracted_text,omitempty"`
}

// DeleteRequest represents the arguments for item_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for item_list.
type ListRequest struct {
	Bucket          string `json:"bucket,omitempty"`
	UnprocessedOnly bool   `json:"unprocessed_only,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	Offset          int    `json:"offset,omitempty"`
}

// RenameBucketRequest represents the arguments for bucket_rename.
type RenameBucketRequest struct {
	SystemName string `json:"system_name"`
	CustomName string `json:"custom_name"`
}

// Handler implementations

// HandleAdd handles the item_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(h.db, ops.AddInput{
		Type:            input.Type,
		Bucket:          input.Bucket,
		NoteBody:        input.NoteBody,
		ExtractedText:   input.ExtractedText,
		DurationCaption: input.DurationCaption,
		URL:             input.URL,
		Confidence:      input.Confidence,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the item_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// Binary content stays out of the MCP surface.
	result, err := ops.Fetch(h.db, ops.FetchInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMove handles the item_move tool call.
func (h *Handlers) HandleMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Move(h.db, ops.MoveInput{
		ID:     input.ID,
		Bucket: input.Bucket,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNote handles the item_note tool call.
func (h *Handlers) HandleNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Annotate(h.db, ops.AnnotateInput{
		ID:            input.ID,
		NoteBody:      input.NoteBody,
		ExtractedText: input.ExtractedText,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the item_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the item_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	listInput := ops.ListInput{
		Bucket: input.Bucket,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if input.UnprocessedOnly {
		processed := false
		listInput.Processed = &processed
	}

	result, err := ops.List(h.db, listInput)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBucketList handles the bucket_list tool call.
func (h *Handlers) HandleBucketList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListBuckets(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBucketRename handles the bucket_rename tool call.
func (h *Handlers) HandleBucketRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenameBucketRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RenameBucket(h.db, ops.RenameBucketInput{
		SystemName: input.SystemName,
		CustomName: input.CustomName,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDashboard handles the stash_dashboard tool call.
func (h *Handlers) HandleDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Dashboard(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.StashError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
