package email

import (
	"bytes"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"
	_ "time/tzdata"

	"github.com/golfkart/golfkart/internal/core/domain"
)

var oslo = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		return time.UTC
	}
	return loc
}()

var funcs = map[string]any{
	"stars": func(n int) string {
		return strings.Repeat("★", n) + strings.Repeat("☆", max(0, 5-n))
	},
	"localtime": func(t time.Time) string {
		return t.In(oslo).Format("02.01.2006 15:04")
	},
}

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	contactHTML *htmltemplate.Template
	contactText *texttemplate.Template
	reviewHTML  *htmltemplate.Template
	reviewText  *texttemplate.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	contactHTML, err := htmltemplate.New("contact.html").Funcs(funcs).Parse(contactHTMLTemplate)
	if err != nil {
		return nil, err
	}
	contactText, err := texttemplate.New("contact.txt").Funcs(funcs).Parse(contactTextTemplate)
	if err != nil {
		return nil, err
	}
	reviewHTML, err := htmltemplate.New("review.html").Funcs(funcs).Parse(reviewHTMLTemplate)
	if err != nil {
		return nil, err
	}
	reviewText, err := texttemplate.New("review.txt").Funcs(funcs).Parse(reviewTextTemplate)
	if err != nil {
		return nil, err
	}

	return &TemplateManager{
		contactHTML: contactHTML,
		contactText: contactText,
		reviewHTML:  reviewHTML,
		reviewText:  reviewText,
	}, nil
}

// Rendered is a composed email.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Contact renders the administrator notification for a contact message.
func (tm *TemplateManager) Contact(sub *domain.Submission) (*Rendered, error) {
	var html, text bytes.Buffer
	if err := tm.contactHTML.Execute(&html, sub); err != nil {
		return nil, err
	}
	if err := tm.contactText.Execute(&text, sub); err != nil {
		return nil, err
	}
	return &Rendered{
		Subject: "Kontaktskjema: " + sub.Contact.Subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// Review renders the administrator notification for a course review.
func (tm *TemplateManager) Review(sub *domain.Submission) (*Rendered, error) {
	var html, text bytes.Buffer
	if err := tm.reviewHTML.Execute(&html, sub); err != nil {
		return nil, err
	}
	if err := tm.reviewText.Execute(&text, sub); err != nil {
		return nil, err
	}
	r := sub.Review
	return &Rendered{
		Subject: "Ny anmeldelse: " + r.CourseName + " (" + strconv.Itoa(r.Rating) + "/5)",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// --- Template Definitions ---

const contactHTMLTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Ny melding fra kontaktskjema</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Ny melding fra kontaktskjema</h2>
	<p><strong>Navn:</strong> {{.Contact.Name}}</p>
	<p><strong>E-post:</strong> <a href="mailto:{{.Contact.Email}}">{{.Contact.Email}}</a></p>
	<p><strong>Emne:</strong> {{.Contact.Subject}}</p>
	<div style="white-space: pre-wrap; background: #f5f5f5; padding: 12px;">{{.Contact.Message}}</div>
	<p style="color: #888; font-size: 12px;">Mottatt {{localtime .ReceivedAt}} &middot; ID {{.ID}}</p>
</body>
</html>
`

const contactTextTemplate = `Ny melding fra kontaktskjema

Navn: {{.Contact.Name}}
E-post: {{.Contact.Email}}
Emne: {{.Contact.Subject}}

{{.Contact.Message}}

Mottatt {{localtime .ReceivedAt}} (ID {{.ID}})
`

const reviewHTMLTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Ny anmeldelse</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Ny anmeldelse av {{.Review.CourseName}}</h2>
	<p><strong>Bane:</strong> {{.Review.CourseName}} ({{.Review.CourseSlug}})</p>
	<p><strong>Forfatter:</strong> {{.Review.Author}}</p>
	<p><strong>Vurdering:</strong> {{stars .Review.Rating}} ({{.Review.Rating}}/5)</p>
	<div style="white-space: pre-wrap; background: #f5f5f5; padding: 12px;">{{.Review.Text}}</div>
	<p style="color: #888; font-size: 12px;">Mottatt {{localtime .ReceivedAt}} &middot; ID {{.ID}}</p>
</body>
</html>
`

const reviewTextTemplate = `Ny anmeldelse av {{.Review.CourseName}}

Bane: {{.Review.CourseName}} ({{.Review.CourseSlug}})
Forfatter: {{.Review.Author}}
Vurdering: {{stars .Review.Rating}} ({{.Review.Rating}}/5)

{{.Review.Text}}

Mottatt {{localtime .ReceivedAt}} (ID {{.ID}})
`
