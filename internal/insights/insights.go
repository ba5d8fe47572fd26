// Package insights derives human-readable descriptions, tags, and captions
// from an item's stored fields. Every function is pure: same field values,
// same output, no I/O.
package insights

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hpungsan/stash/internal/item"
)

// descriptionMaxRunes is the truncation point for raw text descriptions.
const descriptionMaxRunes = 80

// SmartDescription returns a one-line description of the item.
// Priority: stored text (keyword heuristics, then truncation), URL host
// heuristics, then a per-type fallback.
func SmartDescription(it *item.Item) string {
	if text := it.PrimaryText(); text != "" {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "recipe") {
			return "Recipe you saved"
		}
		if strings.Contains(lower, "stars") || strings.Contains(lower, "review") {
			return "Something highly rated"
		}
		if runes := []rune(text); len(runes) > descriptionMaxRunes {
			return string(runes[:descriptionMaxRunes]) + "…"
		}
		return text
	}

	if h := host(it.URLString()); h != "" {
		switch {
		case strings.Contains(h, "amazon"):
			return "Product you're considering"
		case strings.Contains(h, "youtube"), strings.Contains(h, "youtu.be"):
			return "Video to watch later"
		case strings.Contains(h, "twitter"), strings.Contains(h, "x.com"):
			return "Post to revisit"
		case strings.Contains(h, "slack"):
			return "From your Slack research"
		case strings.Contains(h, "notion"):
			return "Notion page you saved"
		}
		return fmt.Sprintf("Link from %s", h)
	}

	switch it.Type {
	case item.TypeScreenshot:
		return "That thing you screenshotted"
	case item.TypePhoto:
		return "Photo you captured"
	case item.TypeVoice:
		return "Voice note"
	case item.TypeLink:
		return "Saved link"
	case item.TypeText:
		return "Quick note"
	}
	return "Captured item"
}

// Tags scans the item's text and URL for keyword hits and returns at most
// three tags, deduplicated in first-seen order.
func Tags(it *item.Item) []string {
	var tags []string
	lower := strings.ToLower(it.PrimaryText() + " " + it.URLString())

	if strings.Contains(lower, "recipe") {
		tags = append(tags, "Recipe")
	}
	if strings.Contains(lower, "star") || strings.Contains(lower, "rating") {
		tags = append(tags, "Rating")
	}
	if strings.Contains(lower, "calendar") || strings.Contains(lower, "schedule") {
		tags = append(tags, "Calendar")
	}
	if strings.Contains(lower, "ai") || strings.Contains(lower, "gpt") || strings.Contains(lower, "llm") {
		tags = append(tags, "AI")
	}
	if strings.Contains(lower, "doc") || strings.Contains(lower, "notion") || strings.Contains(lower, "docs.google") {
		tags = append(tags, "Doc")
	}

	if h := host(it.URLString()); h != "" {
		if strings.Contains(h, "amazon") {
			tags = append(tags, "Product")
		}
		if strings.Contains(h, "youtube") || strings.Contains(h, "youtu.be") {
			tags = append(tags, "Video")
		}
	}

	seen := make(map[string]bool, len(tags))
	unique := tags[:0]
	for _, tag := range tags {
		if !seen[tag] {
			seen[tag] = true
			unique = append(unique, tag)
		}
	}
	if len(unique) > 3 {
		unique = unique[:3]
	}
	return unique
}

// SourceApp resolves the item's URL host to a known service display name.
// Returns the bare host for unknown services and "" when there is no host.
func SourceApp(it *item.Item) string {
	h := host(it.URLString())
	if h == "" {
		return ""
	}
	switch {
	case strings.Contains(h, "slack"):
		return "Slack"
	case strings.Contains(h, "amazon"):
		return "Amazon"
	case strings.Contains(h, "youtube"), strings.Contains(h, "youtu.be"):
		return "YouTube"
	case strings.Contains(h, "notion"):
		return "Notion"
	case strings.Contains(h, "twitter"), strings.Contains(h, "x.com"):
		return "Twitter"
	case strings.Contains(h, "github"):
		return "GitHub"
	case strings.Contains(h, "calendar"):
		return "Calendar"
	case strings.Contains(h, "docs.google"):
		return "Google Docs"
	case strings.Contains(h, "apple.com"):
		return "Apple"
	}
	return h
}

// SoftCaption returns "From {app} at {time}" when a source app resolves,
// else just the formatted creation time. Empty when CreatedAt is unset.
func SoftCaption(it *item.Item) string {
	if it.CreatedAt == 0 {
		return ""
	}
	t := time.Unix(it.CreatedAt, 0).Format("3:04 PM")
	if app := SourceApp(it); app != "" {
		return fmt.Sprintf("From %s at %s", app, t)
	}
	return t
}

// Hint returns a short nudge derived from the URL host, or "".
func Hint(it *item.Item) string {
	h := host(it.URLString())
	if strings.Contains(h, "amazon") {
		return "Price may change soon"
	}
	if h != "" && (strings.Contains(h, "youtube") || strings.Contains(h, "youtu.be")) {
		return "Watch later"
	}
	return ""
}

// DashboardSummary buckets items into named categories and emits up to
// three emoji-prefixed count phrases, comma-joined, in fixed category
// order: ideas, shopping, work, personal. Inbox items infer a category
// from their type. Empty input yields "".
func DashboardSummary(items []item.Item) string {
	if len(items) == 0 {
		return ""
	}

	var ideas, shopping, work, personal int
	for i := range items {
		switch items[i].Bucket {
		case "ideas":
			ideas++
		case "shopping":
			shopping++
		case "work":
			work++
		case "personal":
			personal++
		default:
			switch items[i].Type {
			case item.TypeText:
				ideas++
			case item.TypeLink:
				work++
			case item.TypePhoto, item.TypeScreenshot:
				personal++
			}
		}
	}

	var parts []string
	if ideas > 0 {
		parts = append(parts, fmt.Sprintf("💡 %d ideas", ideas))
	}
	if shopping > 0 {
		parts = append(parts, fmt.Sprintf("🛒 %d to consider", shopping))
	}
	if work > 0 {
		parts = append(parts, fmt.Sprintf("💼 %d work refs", work))
	}
	if personal > 0 {
		parts = append(parts, fmt.Sprintf("👤 %d personal", personal))
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, ", ")
}

// host extracts the URL host with any leading "www." stripped.
func host(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
