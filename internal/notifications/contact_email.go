package notifications

import (
	"bytes"
	"context"
	"html/template"
)

const contactTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>New contact form message:</p>
  <ul>
    <li>Name: {{.Name}}</li>
    <li>Email: {{.Email}}</li>
    {{if .Phone}}<li>Phone: {{.Phone}}</li>{{end}}
  </ul>
  <p>{{.Message}}</p>
</body>
</html>`

var contactTmpl = template.Must(template.New("contact").Parse(contactTemplate))

type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// SendContactEmail forwards a contact form submission to the business
// inbox. The customer's address goes in the body, not the envelope, so
// replies are a conscious step.
func (c *BrevoClient) SendContactEmail(ctx context.Context, toEmail string, msg ContactMessage) (string, error) {
	var buf bytes.Buffer
	if err := contactTmpl.Execute(&buf, msg); err != nil {
		return "", err
	}
	return c.sendHTML(ctx, toEmail, "", "Contact form: "+msg.Name, buf.String())
}
