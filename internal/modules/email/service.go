package email

type Service interface {
	SendEmail(to string, toName string, subject string, htmlBody string, textBody string) error
}

// SendReturnRejected mails the customer that their return request was refused.
// Falls back to the generic "Klant" when the order has no shipping name.
func SendReturnRejected(svc Service, customerEmail string, customerName string, returnID string, orderID string, reason string) error {
	name := customerName
	if name == "" {
		name = "Klant"
	}

	subject := "Je retourverzoek is afgewezen - Atelier Noor"
	textBody := "Beste " + name + ",\n\n" +
		"Helaas kunnen we je retourverzoek (#" + shortID(returnID) + ") voor bestelling #" + shortID(orderID) + " niet accepteren.\n\n" +
		"Reden: " + reason + "\n\n" +
		"Heb je vragen? Reageer dan op deze e-mail.\n\nMet vriendelijke groet,\nAtelier Noor"

	htmlBody := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Retourverzoek afgewezen</h2>
    <p>Beste ` + name + `,</p>
    <p>Helaas kunnen we je retourverzoek (#` + shortID(returnID) + `) voor bestelling #` + shortID(orderID) + ` niet accepteren.</p>
    <p><strong>Reden:</strong> ` + reason + `</p>
    <p>Heb je vragen? Reageer dan op deze e-mail.</p>
    <p>Met vriendelijke groet,<br>Atelier Noor</p>
  </body>
</html>
`

	return svc.SendEmail(customerEmail, name, subject, htmlBody, textBody)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
