package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultSMTPHost is the relay used when none is configured (Gmail).
	DefaultSMTPHost = "smtp.gmail.com"
	// DefaultSMTPPort is the submission port with STARTTLS.
	DefaultSMTPPort = 587
)

// ErrNoCredentials is returned when the relay account is not configured.
var ErrNoCredentials = errors.New("contact: smtp credentials missing")

// SMTPMailer sends each message from the configured account to itself.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string // also used as sender and recipient
	Password string

	// SendMail defaults to smtp.SendMail; tests replace it.
	SendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	Now      func() time.Time
}

// NewSMTPMailer returns a mailer for account with Gmail defaults for an
// empty host or zero port.
func NewSMTPMailer(host string, port int, account, password string) *SMTPMailer {
	if strings.TrimSpace(host) == "" {
		host = DefaultSMTPHost
	}
	if port <= 0 {
		port = DefaultSMTPPort
	}
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: account,
		Password: password,
		SendMail: smtp.SendMail,
		Now:      time.Now,
	}
}

// Send implements Mailer. net/smtp has no context support, so the dial runs
// in a goroutine and Send returns early when ctx is done.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.Username == "" || m.Password == "" {
		return ErrNoCredentials
	}
	raw := m.compose(msg)
	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	send := m.SendMail
	if send == nil {
		send = smtp.SendMail
	}

	done := make(chan error, 1)
	go func() {
		done <- send(addr, auth, m.Username, []string{m.Username}, raw)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send via %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// compose renders a plain-text RFC 5322 message.
func (m *SMTPMailer) compose(msg Message) []byte {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	var b bytes.Buffer
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	header("From", m.Username)
	header("To", m.Username)
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject()))
	header("Date", now().Format(time.RFC1123Z))
	if msg.ID != "" {
		header("Message-ID", "<"+msg.ID+"@"+m.Host+">")
	}
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	body := strings.ReplaceAll(msg.Text, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}
