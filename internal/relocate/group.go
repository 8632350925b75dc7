package relocate

import "github.com/osmno/post2osm/internal/model"

// Group attaches mailboxes to regions by key. keyOf must produce keys in the
// same normalized form as Region.Key. Mailboxes that match no region are
// returned as unmatched and are never touched by the engine.
func Group(regions []Region, boxes []*model.Mailbox, keyOf func(*model.Mailbox) string) ([]Region, []*model.Mailbox) {
	out := make([]Region, len(regions))
	byKey := make(map[string]int, len(regions))
	for i, r := range regions {
		r.Mailboxes = nil
		out[i] = r
		if _, dup := byKey[r.Key]; !dup {
			byKey[r.Key] = i
		}
	}

	var unmatched []*model.Mailbox
	for _, mb := range boxes {
		i, ok := byKey[keyOf(mb)]
		if !ok {
			unmatched = append(unmatched, mb)
			continue
		}
		out[i].Mailboxes = append(out[i].Mailboxes, mb)
	}
	return out, unmatched
}
