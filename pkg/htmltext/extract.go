// Package htmltext extracts the text runs of an HTML document while keeping
// their byte offsets into the raw input. The suggestion engine scans these
// runs so that style and grammar rules never match inside markup, and the
// apply pipeline can splice accepted edits back into the original bytes.
package htmltext

import (
	"io"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
)

// Run is a contiguous piece of document text.
type Run struct {
	Path  string // CSS-like element path, e.g. "html > body > div#main.content > p"
	Start int    // byte offset of the run in the original document
	End   int    // byte offset one past the run
	Text  string // raw text, equal to document[Start:End]
}

// Tags whose text content is never prose.
var skippedContent = map[string]bool{
	"script": true,
	"style":  true,
}

// Void elements never produce an end tag, so they must not be pushed onto
// the open-element stack.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type openElement struct {
	name string
	id   string
	cls  []string
}

func (e openElement) String() string {
	var b strings.Builder
	b.WriteString(e.name)
	if e.id != "" {
		b.WriteByte('#')
		b.WriteString(e.id)
	}
	if len(e.cls) > 0 {
		b.WriteByte('.')
		b.WriteString(strings.Join(e.cls, "."))
	}
	return b.String()
}

// Extract tokenizes an HTML document and returns its meaningful text runs in
// document order. Script and style contents, comments, and runs shorter than
// two characters after trimming are skipped. The input must be UTF-8; an
// invalid document is the one fatal input error in the pipeline.
func Extract(doc string) ([]Run, error) {
	if !utf8.ValidString(doc) {
		return nil, errors.New("document is not valid UTF-8 text")
	}

	z := html.NewTokenizer(strings.NewReader(doc))

	var (
		runs  []Run
		stack []openElement
		pos   int
	)

	for {
		tt := z.Next()
		raw := z.Raw()

		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return runs, nil
			}
			return nil, errors.Errorf("tokenizing document: %w", z.Err())

		case html.StartTagToken:
			el := readElement(z)
			if !voidElements[el.name] {
				stack = append(stack, el)
			}

		case html.SelfClosingTagToken:
			// Nothing enters the stack.

		case html.EndTagToken:
			name, _ := z.TagName()
			// Pop to the nearest matching open element; unmatched end tags
			// are dropped the way browsers drop them.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == string(name) {
					stack = stack[:i]
					break
				}
			}

		case html.TextToken:
			if len(stack) > 0 && skippedContent[stack[len(stack)-1].name] {
				break
			}
			text := string(raw)
			if len(strings.TrimSpace(text)) < 2 {
				break
			}
			runs = append(runs, Run{
				Path:  pathOf(stack),
				Start: pos,
				End:   pos + len(raw),
				Text:  text,
			})
		}

		pos += len(raw)
	}
}

// WholeDocument wraps a plain-text document in a single run, for input that
// carries no markup.
func WholeDocument(doc string) []Run {
	return []Run{{Start: 0, End: len(doc), Text: doc}}
}

func readElement(z *html.Tokenizer) openElement {
	name, hasAttr := z.TagName()
	el := openElement{name: string(name)}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		switch string(key) {
		case "id":
			el.id = string(val)
		case "class":
			el.cls = strings.Fields(string(val))
		}
	}
	return el
}

func pathOf(stack []openElement) string {
	parts := make([]string, len(stack))
	for i, el := range stack {
		parts[i] = el.String()
	}
	return strings.Join(parts, " > ")
}
