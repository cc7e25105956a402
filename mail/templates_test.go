package mail

import (
	"strings"
	"testing"

	"github.com/kannan-innovates/zenCode"
)

func TestRenderOTP(t *testing.T) {
	subject, body, err := render(zencode.TemplateOTP, map[string]string{
		"otp":       "482913",
		"expiresIn": "5 minutes",
	})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if subject == "" {
		t.Fatal("expected a subject")
	}
	if !strings.Contains(body, "482913") {
		t.Fatal("body missing the code")
	}
	if !strings.Contains(body, "5 minutes") {
		t.Fatal("body missing the expiry")
	}
}

func TestRenderLinks(t *testing.T) {
	for _, tmpl := range []zencode.Template{zencode.TemplatePasswordReset, zencode.TemplateMentorInvite} {
		_, body, err := render(tmpl, map[string]string{
			"link":      "https://app.test/go?token=abc123",
			"expiresIn": "24 hours",
		})
		if err != nil {
			t.Fatalf("render %s error: %v", tmpl, err)
		}
		if !strings.Contains(body, "https://app.test/go?token=abc123") {
			t.Fatalf("%s body missing the link", tmpl)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, err := render(zencode.Template("bogus"), nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRenderEscapesData(t *testing.T) {
	_, body, err := render(zencode.TemplateMentorInvite, map[string]string{
		"fullName":  "<script>alert(1)</script>",
		"link":      "https://app.test/activate",
		"expiresIn": "24 hours",
	})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatal("expected HTML escaping of template data")
	}
}
