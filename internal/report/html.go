package report

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sistemamedi/medupload/internal/model"
)

// Element ids of the upload page.
const (
	FormID     = "upload-form"
	FileInput  = "file-input"
	PreviewID  = "preview"
	ResponseID = "response"
)

// PageView is the state of the upload page to render.
type PageView struct {
	// Title is the document title.
	Title string

	// Lang is the BCP 47 language of the page ("pt-BR").
	Lang string

	// FileName is the name of the selected file, empty when none.
	FileName string

	// Preview is the preview element state.
	Preview model.PreviewState

	// Info describes the previewed image, nil when unknown.
	Info *model.ImageInfo

	// ResponseText is the content of the response container.
	ResponseText string
}

// PageWriter renders the upload page as a standalone HTML document.
type PageWriter struct {
	baseWriter
}

// NewPageWriter creates a PageWriter that outputs to the given writer.
func NewPageWriter(output io.Writer) *PageWriter {
	return &PageWriter{baseWriter: newBaseWriter(output)}
}

// Write renders view.
func (w *PageWriter) Write(view PageView) (int, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, buildPage(view)); err != nil {
		return 0, fmt.Errorf("failed to render page: %w", err)
	}
	buf.WriteByte('\n')
	return w.output.Write(buf.Bytes())
}

// buildPage returns the document node for view.
func buildPage(view PageView) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	if view.Lang != "" {
		root.Attr = append(root.Attr, attr("lang", view.Lang))
	}
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	title := element(atom.Title)
	title.AppendChild(text(view.Title))
	head.AppendChild(title)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	form := element(atom.Form,
		attr("id", FormID),
		attr("method", "post"),
		attr("action", "/upload"),
		attr("enctype", "multipart/form-data"),
	)
	form.AppendChild(element(atom.Input,
		attr("id", FileInput),
		attr("type", "file"),
		attr("name", "file"),
	))
	if view.FileName != "" {
		label := element(atom.Label, attr("for", FileInput))
		label.AppendChild(text(view.FileName))
		form.AppendChild(label)
	}
	body.AppendChild(form)

	display := "display:none"
	if view.Preview.Visible {
		display = "display:block"
	}
	img := element(atom.Img,
		attr("id", PreviewID),
		attr("alt", view.FileName),
		attr("style", display),
	)
	if view.Preview.Source != "" {
		img.Attr = append(img.Attr, attr("src", view.Preview.Source))
	}
	if view.Info != nil && view.Info.HasDimensions() {
		img.Attr = append(img.Attr,
			attr("width", fmt.Sprint(view.Info.Width)),
			attr("height", fmt.Sprint(view.Info.Height)),
		)
	}
	body.AppendChild(img)

	pre := element(atom.Pre, attr("id", ResponseID))
	if view.ResponseText != "" {
		pre.AppendChild(text(view.ResponseText))
	}
	body.AppendChild(pre)

	return doc
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
