package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	assignmentTemplate = "assignment.html"
	reminderTemplate   = "reminder.html"
)

type assignmentEmailData struct {
	OperatorName      string
	LeadName          string
	AccommodationName string
}

type reminderEmailData struct {
	OperatorName      string
	LeadName          string
	AccommodationName string
	ScheduledFor      string
}

func renderEmailTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
