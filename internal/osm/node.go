// Package osm reads and writes the OSM XML files exchanged with JOSM.
package osm

// Tag is an OSM key/value pair.
type Tag struct {
	Key   string `xml:"k,attr"`
	Value string `xml:"v,attr"`
}

// Node is an OSM node with its tags in output order.
type Node struct {
	ID   int64   `xml:"id,attr"`
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Tags []Tag   `xml:"tag"`
}

// Add appends a tag.
func (n *Node) Add(key, value string) {
	n.Tags = append(n.Tags, Tag{Key: key, Value: value})
}

// Get returns the value of the first tag with key.
func (n Node) Get(key string) (string, bool) {
	for _, t := range n.Tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Value returns the tag value, or "" when absent.
func (n Node) Value(key string) string {
	v, _ := n.Get(key)
	return v
}
