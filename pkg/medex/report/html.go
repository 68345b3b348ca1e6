package report

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML writes r as a standalone HTML fragment.
// Text is escaped by the renderer, so symptom names never become markup.
func RenderHTML(w io.Writer, r Report) error {
	root := element(atom.Div, "class", "medex-report", "id", r.ID)

	h := element(atom.H2)
	h.AppendChild(text("Diagnosis"))
	root.AppendChild(h)

	root.AppendChild(section("Observed symptoms", r.Observed))
	if len(r.Illnesses) > 0 {
		root.AppendChild(section("Possible illnesses", r.Illnesses))
	}

	msg := element(atom.P, "class", "message")
	msg.AppendChild(text(r.Message))
	root.AppendChild(msg)

	if len(r.Explain.NearMisses) > 0 {
		items := make([]string, len(r.Explain.NearMisses))
		for i, nm := range r.Explain.NearMisses {
			items[i] = nm.Illness + " (missing " + nm.Missing + ")"
		}
		root.AppendChild(section("Near misses", items))
	}
	if len(r.Explain.UnknownSymptoms) > 0 {
		root.AppendChild(section("Unknown symptoms", r.Explain.UnknownSymptoms))
	}

	ts := element(atom.P, "class", "generated")
	ts.AppendChild(text("Generated " + r.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	root.AppendChild(ts)

	return html.Render(w, root)
}

// HTML returns RenderHTML's output as a string
func HTML(r Report) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func section(title string, items []string) *html.Node {
	s := element(atom.Section)
	h := element(atom.H3)
	h.AppendChild(text(title))
	s.AppendChild(h)

	ul := element(atom.Ul)
	for _, it := range items {
		li := element(atom.Li)
		li.AppendChild(text(it))
		ul.AppendChild(li)
	}
	s.AppendChild(ul)
	return s
}

// element builds a node from an atom and key/value attribute pairs
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
