package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/designdocs/pkg/vdom"
)

// RevealFallbackCSS forces tracked elements visible when scripting is off.
// Without it a server-rendered hidden pose would never be lifted.
const RevealFallbackCSS = `[data-reveal-id]{opacity:1!important;transform:none!important;transition:none!important}`

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Description is written as the description meta tag when set.
	Description string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS blocks.
	Styles []string

	// SessionID is the live session the thin client attaches to.
	// Empty for static export; the client then stays idle.
	SessionID string

	// ClientScript is the path to the thin client JavaScript.
	// Defaults to "/static/client.js".
	ClientScript string

	// Lang is the language attribute for the html element. Defaults to "en".
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"+
		`  <meta charset="utf-8">`+"\n"+
		`  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	if page.Description != "" {
		if _, err := fmt.Fprintf(w, `  <meta name="description" content="%s">`+"\n", escapeAttr(page.Description)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  <noscript><style>%s</style></noscript>\n", RevealFallbackCSS); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

// renderClientScript injects the thin client and its session binding.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	clientPath := page.ClientScript
	if clientPath == "" {
		clientPath = "/static/client.js"
	}
	if page.SessionID != "" {
		_, err := fmt.Fprintf(w, `  <script src="%s" data-session="%s" defer></script>`+"\n",
			escapeAttr(clientPath), escapeAttr(page.SessionID))
		return err
	}
	_, err := fmt.Fprintf(w, `  <script src="%s" defer></script>`+"\n", escapeAttr(clientPath))
	return err
}
