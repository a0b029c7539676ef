package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	cfg := Config{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  "587",
		FromEmail: "studio@example.com",
		FromName:  "Reelforge Studio",
	}

	msg := string(BuildMessage(cfg, "lead@acme.test", "Your video script", "<p>Hi Acme</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: Reelforge Studio <studio@example.com>\r\n"))
	assert.Contains(t, msg, "To: lead@acme.test\r\n")
	assert.Contains(t, msg, "Subject: Your video script\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>Hi Acme</p>"))
}

func TestConfigAddr(t *testing.T) {
	cfg := Config{SMTPHost: "smtp.example.com", SMTPPort: "587"}
	assert.Equal(t, "smtp.example.com:587", cfg.Addr())
}
