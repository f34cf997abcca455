package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// ldJSONBlockRe captures the contents of application/ld+json script blocks in
// an events-calendar page.
var ldJSONBlockRe = regexp.MustCompile(`(?is)<script[^>]+type="application/ld\+json"[^>]*>(.*?)</script>`)

// EventsFetcher counts upcoming events from the structured-data blocks
// embedded in an events-calendar page.
type EventsFetcher struct {
	PageURL string
	Doer    contract.Doer
}

type ldJSONNode struct {
	Type  string       `json:"@type"`
	Graph []ldJSONNode `json:"@graph"`
}

func (f *EventsFetcher) Family() schema.Family {
	return schema.EventsFamily
}

func (f *EventsFetcher) Fetch(ctx context.Context) (*schema.DataPoint, error) {
	body, err := getBody(ctx, f.Doer, f.PageURL, nil)
	if err != nil {
		return nil, err
	}

	blocks := ldJSONBlockRe.FindAllSubmatch(body, -1)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("events page %s has no structured data: %w", f.PageURL, contract.ErrNotFound)
	}

	count := 0
	for _, block := range blocks {
		count += countEvents(block[1])
	}

	return &schema.DataPoint{
		Date:   today(),
		Events: schema.IntPtr(count),
		Source: schema.SourceEventsPage,
	}, nil
}

// countEvents counts Event nodes in one ld+json payload. Blocks hold either a
// single node, a list of nodes, or a node with an @graph list; malformed
// blocks count as zero rather than failing the fetch.
func countEvents(raw []byte) int {
	var single ldJSONNode
	if err := json.Unmarshal(raw, &single); err == nil {
		return countEventNodes([]ldJSONNode{single})
	}
	var list []ldJSONNode
	if err := json.Unmarshal(raw, &list); err == nil {
		return countEventNodes(list)
	}
	return 0
}

func countEventNodes(nodes []ldJSONNode) int {
	count := 0
	for _, node := range nodes {
		if node.Type == "Event" {
			count++
		}
		count += countEventNodes(node.Graph)
	}
	return count
}
