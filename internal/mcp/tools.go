package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var itemAddToolDef = mcp.NewTool("item_add",
	mcp.WithDescription("Capture a new item. Items land in the inbox unless a bucket is given."),
	mcp.WithString("type",
		mcp.Required(),
		mcp.Description("Item type: link, voice, text, photo, screenshot"),
	),
	mcp.WithString("bucket",
		mcp.Description("Target bucket system name (default: inbox)"),
	),
	mcp.WithString("note_body",
		mcp.Description("User note text (markdown allowed)"),
	),
	mcp.WithString("extracted_text",
		mcp.Description("Externally extracted/OCR text"),
	),
	mcp.WithString("duration_caption",
		mcp.Description("Voice memo duration caption"),
	),
	mcp.WithString("url",
		mcp.Description("Canonical link for link items"),
	),
	mcp.WithNumber("confidence",
		mcp.Description("Importance marker in [0,1]"),
	),
)

var itemGetToolDef = mcp.NewTool("item_get",
	mcp.WithDescription("Fetch one item by id, including derived description, tags, and hints."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
)

var itemMoveToolDef = mcp.NewTool("item_move",
	mcp.WithDescription("Move an item to another bucket. Marks the item processed when it leaves the inbox."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
	mcp.WithString("bucket", mcp.Required(), mcp.Description("Target bucket system name")),
)

var itemNoteToolDef = mcp.NewTool("item_note",
	mcp.WithDescription("Set or replace the note body and/or extracted text of an item."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
	mcp.WithString("note_body", mcp.Description("New note text")),
	mcp.WithString("extracted_text", mcp.Description("New extracted text")),
)

var itemDeleteToolDef = mcp.NewTool("item_delete",
	mcp.WithDescription("Permanently delete an item."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
)

var itemListToolDef = mcp.NewTool("item_list",
	mcp.WithDescription("List items newest-first, optionally filtered by bucket or processed state."),
	mcp.WithString("bucket", mcp.Description("Bucket system name filter")),
	mcp.WithBoolean("unprocessed_only", mcp.Description("Only items still awaiting triage")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
)

var bucketListToolDef = mcp.NewTool("bucket_list",
	mcp.WithDescription("List all buckets with item and unprocessed counts."),
)

var bucketRenameToolDef = mcp.NewTool("bucket_rename",
	mcp.WithDescription("Change a bucket's display name. The system name never changes."),
	mcp.WithString("system_name", mcp.Required(), mcp.Description("Bucket system name")),
	mcp.WithString("custom_name", mcp.Required(), mcp.Description("New display name")),
)

var stashDashboardToolDef = mcp.NewTool("stash_dashboard",
	mcp.WithDescription("Overview: summary line over recent items, today's capture count, per-bucket counts."),
)
