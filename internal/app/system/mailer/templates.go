// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// AccountEmailData holds data for account email templates.
type AccountEmailData struct {
	SiteName  string
	Link      string
	ExpiresIn string // e.g., "1 hour"
}

// BuildConfirmationEmail creates the account-confirmation email with both
// HTML and text bodies.
func BuildConfirmationEmail(data AccountEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Confirm your %s account", data.SiteName),
		TextBody: buildAccountText(data, "Confirm your account by opening this link:"),
		HTMLBody: buildAccountHTML(data, "Confirm your account", "Confirm Account"),
	}
}

// BuildResetEmail creates the password-reset email with both HTML and
// text bodies.
func BuildResetEmail(data AccountEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildAccountText(data, "Reset your password by opening this link:"),
		HTMLBody: buildAccountHTML(data, "Reset your password", "Reset Password"),
	}
}

func buildAccountText(data AccountEmailData, lead string) string {
	var buf bytes.Buffer
	buf.WriteString(lead + "\n\n")
	buf.WriteString(data.Link + "\n\n")
	buf.WriteString(fmt.Sprintf("This link expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you did not request this email, you can safely ignore it.\n")
	return buf.String()
}

type accountHTMLData struct {
	AccountEmailData
	Lead   string
	Button string
}

func buildAccountHTML(data AccountEmailData, lead, button string) string {
	tmpl := template.Must(template.New("account").Parse(accountHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, accountHTMLData{AccountEmailData: data, Lead: lead, Button: button})
	return buf.String()
}

const accountHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Lead}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                {{.Lead}}:
              </p>

              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.Link}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      {{.Button}}
                    </a>
                  </td>
                </tr>
              </table>

              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                This link expires in {{.ExpiresIn}}.
              </p>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you did not request this email, you can safely ignore it.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
