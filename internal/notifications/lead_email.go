package notifications

import (
	"bytes"
	"html/template"

	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/intakes"
	"github.com/Elholandes1980/VibeCodeSpace-sub001/internal/sales"
)

const intakeNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Nieuwe probleem-intake</h3>
  <p><strong>Titel:</strong> {{.Title}}</p>
  <p><strong>Land:</strong> {{.Country}}</p>
  <p><strong>Taal:</strong> {{.Language}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Bedrijfsgrootte:</strong> {{.CompanySize}}</p>
  <p><strong>Budget:</strong> {{.BudgetRange}}</p>
  <p><strong>Urgentie:</strong> {{.Urgency}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>Probleem:</strong><br/>{{.Problem}}</p>
  <p><strong>Gewenste uitkomst:</strong><br/>{{.DesiredOutcome}}</p>
</body>
</html>`

const intakeConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hallo,</p>
  <p>We hebben je aanvraag "{{.Title}}" ontvangen en nemen zo snel mogelijk contact op.</p>
  <p><strong>Referentie: {{.ID}}</strong></p>
  <p>Bewaar deze referentie voor het vervolg van je aanvraag.</p>
  <p>Team VibeCodeSpace</p>
</body>
</html>`

const salesLeadNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Nieuwe sales-aanvraag</h3>
  <p><strong>Naam:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Bedrijf:</strong> {{.Company}}</p>
  <p><strong>Bedrijfsgrootte:</strong> {{.CompanySize}}</p>
  <p><strong>Plan:</strong> {{.Plan}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>Bericht:</strong><br/>{{.Message}}</p>
</body>
</html>`

var intakeNotificationTmpl = template.Must(template.New("intake_notification").Parse(intakeNotificationTemplate))
var intakeConfirmationTmpl = template.Must(template.New("intake_confirmation").Parse(intakeConfirmationTemplate))
var salesLeadNotificationTmpl = template.Must(template.New("sales_lead_notification").Parse(salesLeadNotificationTemplate))

func buildIntakeNotificationHTML(intake intakes.ProblemIntake) (string, error) {
	var buf bytes.Buffer
	if err := intakeNotificationTmpl.Execute(&buf, intake); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildIntakeConfirmationHTML(intake intakes.ProblemIntake) (string, error) {
	var buf bytes.Buffer
	if err := intakeConfirmationTmpl.Execute(&buf, intake); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildSalesLeadNotificationHTML(lead sales.SalesLead) (string, error) {
	var buf bytes.Buffer
	if err := salesLeadNotificationTmpl.Execute(&buf, lead); err != nil {
		return "", err
	}
	return buf.String(), nil
}
