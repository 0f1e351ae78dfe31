package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	subjectWelcome           = "Welcome to the assembly portal"
	subjectOrderConfirmation = "Your project order has been placed"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome!</h2>
    <p>Your account is ready. Create a project, pick your elements, and order
    when you are set.</p>
  </body>
</html>`))

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Order placed</h2>
    <p>Your project <strong>{{.ProjectName}}</strong> has been ordered.</p>
    <p>Total: <strong>{{.TotalFormatted}}</strong></p>
    <p>Estimated installation time: <strong>{{.TimeFormatted}}</strong></p>
    <p>We will confirm your order shortly.</p>
  </body>
</html>`))

type orderConfirmationData struct {
	ProjectName    string
	TotalFormatted string
	TimeFormatted  string
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func formatCurrencyEUR(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d.%02d", sign, cents/100, cents%100)
}

func formatDuration(totalMinutes int) string {
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm", totalMinutes)
	}
	return fmt.Sprintf("%dh %02dm", totalMinutes/60, totalMinutes%60)
}
