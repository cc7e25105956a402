package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/kannan-innovates/zenCode"
)

type renderedTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[zencode.Template]renderedTemplate{
	zencode.TemplateOTP: {
		subject: "Your zenCode Verification Code",
		body: template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>Welcome to zenCode!</h2>
  <p>Your verification code is:</p>
  <h1 style="background: #4F46E5; color: white; padding: 15px; text-align: center; border-radius: 8px;">
    {{.otp}}
  </h1>
  <p>This code will expire in {{.expiresIn}}.</p>
  <p>If you didn't request this code, please ignore this email.</p>
  <hr style="margin: 20px 0;">
  <p style="color: #666; font-size: 12px;">zenCode - Real-time Coding Interview Platform</p>
</div>`)),
	},
	zencode.TemplatePasswordReset: {
		subject: "Reset your zenCode password",
		body: template.Must(template.New("password-reset").Parse(`
<div style="font-family: 'JetBrains Mono', Consolas, 'Courier New', monospace; padding: 20px;">
  <h2>Password Reset Request</h2>
  <p>Click the link below to reset your password:</p>
  <a href="{{.link}}" style="color: #4F46E5;">Reset Password</a>
  <p>This link expires in 15 minutes.</p>
  <p>If you didn't request this, ignore this email.</p>
</div>`)),
	},
	zencode.TemplateMentorInvite: {
		subject: "Welcome to zenCode – Mentor Account Created",
		body: template.Must(template.New("mentor-invite").Parse(`
<div style="font-family: 'JetBrains Mono', Consolas, monospace; padding: 20px;">
  <h2>Welcome to zenCode</h2>
  <p>An admin has created a mentor account for you{{if .fullName}}, {{.fullName}}{{end}}.</p>
  <p>Click the link below to set your password and activate your account:</p>
  <a href="{{.link}}" style="color: #4F46E5;">Activate Account</a>
  <p style="margin-top: 16px;">This link expires in <strong>{{.expiresIn}}</strong>.</p>
  <hr style="margin: 24px 0;" />
  <p style="font-size: 12px; color: #6b7280;">If you did not expect this email, please ignore it.</p>
</div>`)),
	},
}

// render produces the subject and HTML body for a template kind.
func render(tmpl zencode.Template, data map[string]string) (subject, body string, err error) {
	entry, ok := templates[tmpl]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", tmpl)
	}
	var buf strings.Builder
	if err := entry.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render mail template %q: %w", tmpl, err)
	}
	return entry.subject, buf.String(), nil
}
