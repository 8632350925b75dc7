package osm

import (
	"bufio"
	"encoding/xml"
	"html"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// firstNodeID is the id of the first node written. New objects in OSM files
// carry negative ids.
const firstNodeID = -1001

// Writer streams nodes to an OSM XML document. Node ids are assigned on
// write, counting down from -1001. Close must be called to finish the
// document.
type Writer struct {
	bw     *bufio.Writer
	nextID int64
	count  int
	err    error
}

// NewWriter writes the document header. generator is recorded in the osm
// element, e.g. "post2osm v1.2.0".
func NewWriter(w io.Writer, generator string) *Writer {
	ow := &Writer{bw: bufio.NewWriter(w), nextID: firstNodeID}
	ow.printf(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	ow.printf(`<osm version="0.6" generator="`)
	ow.escape(generator)
	ow.printf(`" upload="false">` + "\n")
	return ow
}

func (w *Writer) printf(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.bw.WriteString(s)
}

func (w *Writer) escape(s string) {
	if w.err != nil {
		return
	}
	w.err = xml.EscapeText(w.bw, []byte(s))
}

// Write emits one node and returns the id it was given. Node.ID is ignored.
// Tag values are HTML-unescaped, trimmed and escaped again; tags whose value
// ends up empty are left out.
func (w *Writer) Write(n Node) (int64, error) {
	id := w.nextID
	w.nextID--

	w.printf(`  <node id="` + strconv.FormatInt(id, 10) +
		`" lat="` + formatCoord(n.Lat) +
		`" lon="` + formatCoord(n.Lon) + `">` + "\n")
	for _, t := range n.Tags {
		v := strings.TrimSpace(html.UnescapeString(t.Value))
		if v == "" {
			continue
		}
		w.printf(`    <tag k="`)
		w.escape(t.Key)
		w.printf(`" v="`)
		w.escape(v)
		w.printf(`" />` + "\n")
	}
	w.printf("  </node>\n")

	if w.err != nil {
		return 0, eris.Wrap(w.err, "osm: write node")
	}
	w.count++
	return id, nil
}

// Count returns the number of nodes written.
func (w *Writer) Count() int { return w.count }

// Close finishes the document and flushes it. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	w.printf("</osm>\n")
	if w.err == nil {
		w.err = w.bw.Flush()
	}
	if w.err != nil {
		return eris.Wrap(w.err, "osm: close")
	}
	return nil
}

// WriteFile writes nodes to path as a complete document.
func WriteFile(path, generator string, nodes []Node) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "osm: create %s", path)
	}

	w := NewWriter(f, generator)
	for _, n := range nodes {
		if _, err := w.Write(n); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "osm: close %s", path)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}
