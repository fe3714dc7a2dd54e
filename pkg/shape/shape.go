// Package shape matches element subtrees against an expected layout so that
// scrapers can address children by role instead of by index arithmetic.
package shape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node describes the expected layout of one element.
//
// An empty Tag matches any element. A nil Children places no constraint on
// the element's children; a non-nil Children requires exactly that many
// element children, matched in document order.
type Node struct {
	Name     string
	Tag      string
	Capture  string
	Children []Node
}

// Captures maps Capture names to the elements that matched them.
type Captures map[string]*goquery.Selection

// Text returns the own text of the captured element, or "" if nothing was captured.
func (c Captures) Text(name string) string {
	sel, ok := c[name]
	if !ok {
		return ""
	}
	return OwnText(sel)
}

// MismatchError reports where a subtree diverged from the expected layout.
type MismatchError struct {
	Path    string
	WantTag string
	GotTag  string
	Want    int
	Got     int
}

func (e *MismatchError) Error() string {
	if e.WantTag != "" || e.GotTag != "" {
		return fmt.Sprintf("shape mismatch at %s: want <%s>, got <%s>", e.Path, e.WantTag, e.GotTag)
	}
	return fmt.Sprintf("shape mismatch at %s: want %d children, got %d", e.Path, e.Want, e.Got)
}

// Match checks the first element of sel against n.
func Match(sel *goquery.Selection, n Node) (Captures, error) {
	caps := Captures{}
	if err := match(sel.First(), n, label(n, 0), caps); err != nil {
		return nil, err
	}
	return caps, nil
}

func match(sel *goquery.Selection, n Node, path string, caps Captures) error {
	if sel.Length() == 0 {
		want := n.Tag
		if want == "" {
			want = "*"
		}
		return &MismatchError{Path: path, WantTag: want, GotTag: "none"}
	}

	tag := goquery.NodeName(sel)
	if n.Tag != "" && !strings.EqualFold(tag, n.Tag) {
		return &MismatchError{Path: path, WantTag: n.Tag, GotTag: tag}
	}

	if n.Capture != "" {
		caps[n.Capture] = sel
	}

	if n.Children == nil {
		return nil
	}

	kids := sel.Children()
	if kids.Length() != len(n.Children) {
		return &MismatchError{Path: path, Want: len(n.Children), Got: kids.Length()}
	}
	for i, child := range n.Children {
		if err := match(kids.Eq(i), child, path+"/"+label(child, i), caps); err != nil {
			return err
		}
	}
	return nil
}

func label(n Node, i int) string {
	switch {
	case n.Name != "":
		return n.Name
	case n.Tag != "":
		return fmt.Sprintf("%s[%d]", n.Tag, i)
	default:
		return fmt.Sprintf("[%d]", i)
	}
}

// OwnText returns the text placed directly inside the element before its
// first child element.
func OwnText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			break
		}
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// HasChildWithText reports whether a direct child of sel with the given tag
// carries own text containing marker. Spaces, newlines and case are ignored.
func HasChildWithText(sel *goquery.Selection, tag, marker string) bool {
	marker = squash(marker)
	found := false
	sel.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if !strings.EqualFold(goquery.NodeName(c), tag) {
			return true
		}
		if text := squash(OwnText(c)); text != "" && strings.Contains(text, marker) {
			found = true
			return false
		}
		return true
	})
	return found
}

func squash(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "\n", "").Replace(s))
}
