package email

import (
	"bytes"
	"html/template"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	WelcomeTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	welcomeTmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return nil, err
	}

	return &TemplateManager{
		WelcomeTmpl: welcomeTmpl,
	}, nil
}

// TemplateData holds the dynamic data for an email template.
type TemplateData struct {
	Name string
	Link string
}

// GenerateWelcomeEmailHTML executes the welcome template with the provided data.
func (tm *TemplateManager) GenerateWelcomeEmailHTML(data TemplateData) (string, error) {
	var body bytes.Buffer
	if err := tm.WelcomeTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// --- HTML Template Definitions ---

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Welcome</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Welcome aboard!</h2>
	<p>Your account is ready. Add your first commute route and we will start
	sampling traffic at the times you pick.</p>
	<p><a href="{{.Link}}">Open your dashboard</a></p>
	<p>Your first 24 hours of tracking are on us.</p>
</body>
</html>
`
