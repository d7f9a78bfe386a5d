// Package contact relays contact-form submissions to the site owner's mailbox.
// It provides the HTTP endpoint, the SMTP relay, a small client used by the
// desktop showcase, and a server wrapper with graceful shutdown.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Response bodies returned by the endpoint.
const (
	BodySent             = "Message sent successfully!"
	BodyMessageRequired  = "Message is required"
	BodyMethodNotAllowed = "Method Not Allowed"
	BodySendFailed       = "Error sending message"
)

// MaxBodyBytes bounds the JSON payload accepted by the endpoint.
const MaxBodyBytes = 64 << 10

// DefaultSendTimeout bounds a single relay attempt.
const DefaultSendTimeout = 20 * time.Second

// Request is the JSON body posted by the contact form.
type Request struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Message is a validated submission ready for relay.
type Message struct {
	ID   string
	Name string
	Text string
}

// Subject returns the mail subject line for the message.
func (m Message) Subject() string {
	if m.Name != "" {
		return "Contact Form Message from " + m.Name
	}
	return "Contact Form Message"
}

// Mailer delivers a message to the owner's mailbox.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to Mailer.
type MailerFunc func(ctx context.Context, msg Message) error

// Send implements Mailer.
func (f MailerFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Handler is the contact endpoint. Only POST is accepted.
type Handler struct {
	mailer  Mailer
	log     *zap.Logger
	timeout time.Duration
	newID   func() string
}

// NewHandler builds the endpoint around m. A nil logger discards logs.
func NewHandler(m Mailer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		mailer:  m,
		log:     log,
		timeout: DefaultSendTimeout,
		newID:   func() string { return uuid.NewString() },
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeText(w, http.StatusMethodNotAllowed, BodyMethodNotAllowed)
		return
	}

	var req Request
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		// a body that cannot be parsed fails the same way a relay does
		h.log.Warn("contact: decode request", zap.Error(err))
		writeText(w, http.StatusInternalServerError, BodySendFailed)
		return
	}
	if req.Message == "" {
		writeText(w, http.StatusBadRequest, BodyMessageRequired)
		return
	}

	msg := Message{
		ID:   h.newID(),
		Name: strings.TrimSpace(req.Name),
		Text: req.Message,
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.send(ctx, msg); err != nil {
		h.log.Error("contact: relay failed", zap.String("id", msg.ID), zap.Error(err))
		writeText(w, http.StatusInternalServerError, BodySendFailed)
		return
	}
	h.log.Info("contact: message relayed",
		zap.String("id", msg.ID),
		zap.Bool("named", msg.Name != ""),
		zap.Int("length", len(msg.Text)))
	writeText(w, http.StatusOK, BodySent)
}

var errNoMailer = errors.New("contact: no mailer configured")

func (h *Handler) send(ctx context.Context, msg Message) error {
	if h.mailer == nil {
		return errNoMailer
	}
	return h.mailer.Send(ctx, msg)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
