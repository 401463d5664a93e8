package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Template selects which notification to render.
type Template string

const (
	TemplateValuationReceived    Template = "valuation_received"
	TemplateContactReceived      Template = "contact_received"
	TemplateInvoiceReceived      Template = "invoice_received"
	TemplateInvoiceStatusChanged Template = "invoice_status_changed"
	TemplatePropertySubmitted    Template = "property_submitted"
)

// subjects maps each template to its subject line.
var subjects = map[Template]string{
	TemplateValuationReceived:    "Nueva solicitud de valoración",
	TemplateContactReceived:      "Nuevo mensaje de contacto",
	TemplateInvoiceReceived:      "Nueva solicitud de factura",
	TemplateInvoiceStatusChanged: "Actualización de su solicitud de factura",
	TemplatePropertySubmitted:    "Nueva propiedad enviada desde el portal",
}

// Field is one labeled value rendered into the notification body. A slice
// keeps rendering order deterministic.
type Field struct {
	Label string
	Value string
}

// Event is a plain data record describing what happened. Recipient
// resolution is the caller's responsibility: an empty To falls back to the
// configured staff address.
type Event struct {
	Template  Template
	To        string
	Reference string // e.g. "valuation/42", for logging
	Fields    []Field
}

const htmlBody = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<h2>{{.Subject}}</h2>
<table cellpadding="6" cellspacing="0" border="0">
{{range .Fields}}<tr><td><strong>{{.Label}}</strong></td><td>{{.Value}}</td></tr>
{{end}}</table>
</body>
</html>
`

const textBody = `{{.Subject}}

{{range .Fields}}{{.Label}}: {{.Value}}
{{end}}`

type renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func newRenderer() (*renderer, error) {
	h, err := htmltemplate.New("html").Parse(htmlBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}
	t, err := texttemplate.New("text").Parse(textBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	return &renderer{html: h, text: t}, nil
}

type renderContext struct {
	Subject string
	Fields  []Field
}

// render produces the subject plus HTML and plain-text bodies for an event.
func (r *renderer) render(ev Event) (subject, html, text string, err error) {
	subject, ok := subjects[ev.Template]
	if !ok {
		return "", "", "", fmt.Errorf("unknown notification template: %q", ev.Template)
	}

	ctx := renderContext{Subject: subject, Fields: ev.Fields}

	var htmlBuf bytes.Buffer
	if err := r.html.Execute(&htmlBuf, ctx); err != nil {
		return "", "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	var textBuf bytes.Buffer
	if err := r.text.Execute(&textBuf, ctx); err != nil {
		return "", "", "", fmt.Errorf("failed to render text body: %w", err)
	}

	return subject, htmlBuf.String(), textBuf.String(), nil
}
