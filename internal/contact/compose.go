package contact

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/doreen/portfolio/internal/notify"
)

// DefaultSubjectPrefix marks notification subjects in the owner's inbox.
const DefaultSubjectPrefix = "Portfolio Contact: "

// Addressing holds the fixed envelope of every notification email.
type Addressing struct {
	From          string
	FromName      string
	To            string
	SubjectPrefix string
}

var notificationTemplate = template.Must(template.New("notification").Funcs(template.FuncMap{
	"lines": htmlLines,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Subject}}</title></head>
<body>
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #0d9488; border-bottom: 2px solid #0d9488; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="background-color: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="margin: 20px 0;">
    <h3 style="color: #374151;">Message:</h3>
    <div style="background-color: #ffffff; padding: 15px; border-left: 4px solid #0d9488; border-radius: 4px;">{{lines .Message}}</div>
  </div>
  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; color: #6b7280; font-size: 14px;">
    <p>This email was sent from your portfolio contact form.</p>
    <p>Reply directly to this email to respond to {{.Name}}.</p>
  </div>
</div>
</body>
</html>
`))

// htmlLines escapes s and turns every line break into <br>.
func htmlLines(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}

// singleLine folds line breaks so user input cannot add header lines.
func singleLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

// ComposeEmail turns a validated submission into the owner notification.
// Replies go straight to the submitter.
func ComposeEmail(sub Submission, addr Addressing) (notify.EmailMessage, error) {
	var html bytes.Buffer
	if err := notificationTemplate.Execute(&html, sub); err != nil {
		return notify.EmailMessage{}, fmt.Errorf("contact: render notification: %w", err)
	}

	text := fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n\nReply directly to this email to respond to %s.\n",
		sub.Name, sub.Email, sub.Subject, sub.Message, sub.Name)

	return notify.EmailMessage{
		From:     addr.From,
		FromName: addr.FromName,
		To:       addr.To,
		ReplyTo:  sub.Email,
		Subject:  singleLine(addr.SubjectPrefix + sub.Subject),
		Body:     text,
		HTML:     html.String(),
	}, nil
}
