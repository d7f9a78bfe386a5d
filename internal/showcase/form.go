package showcase

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/folio/internal/contact"
	"github.com/edward-ap/folio/internal/ui"
)

// Toast texts shown after a submission.
const (
	ToastSent     = "Message sent!"
	ToastFailed   = "Failed to send."
	ToastError    = "Error."
	ToastRequired = "Message is required"
)

const submitTimeout = 30 * time.Second

// Submitter posts a contact-form submission. *contact.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, name, message string) error
}

func newClient(endpoint string) Submitter {
	return contact.NewClient(endpoint, &http.Client{Timeout: submitTimeout})
}

// toastFor maps a submission result to the text flashed in the ticker. An
// answer from the endpoint other than 200 is a failed send; anything that
// never reached the endpoint is an error.
func toastFor(err error) string {
	switch {
	case err == nil:
		return ToastSent
	case contact.Rejected(err):
		return ToastFailed
	default:
		return ToastError
	}
}

// contactForm is the name/message form. Name is optional.
type contactForm struct {
	name    *widget.Entry
	message *widget.Entry
	send    *widget.Button

	submit Submitter
	toast  func(string)

	mu      sync.Mutex
	sending bool
	wg      sync.WaitGroup
}

func newContactForm(s Submitter, toast func(string)) *contactForm {
	f := &contactForm{submit: s, toast: toast}
	f.name = widget.NewEntry()
	f.name.SetPlaceHolder("Your Name (optional)")
	f.message = widget.NewMultiLineEntry()
	f.message.SetPlaceHolder("Your Message (include a way to get back to you!)")
	f.message.Wrapping = fyne.TextWrapWord
	f.message.SetMinRowsVisible(3)
	f.send = widget.NewButton("Send", f.submitForm)
	f.send.Importance = widget.HighImportance
	return f
}

func (f *contactForm) CanvasObject() fyne.CanvasObject {
	return widget.NewCard("Contact", "", container.NewBorder(f.name, container.NewHBox(f.send), nil, nil, f.message))
}

// submitForm sends the current fields in the background. Fields are cleared
// only after a successful send.
func (f *contactForm) submitForm() {
	name, message := strings.TrimSpace(f.name.Text), f.message.Text
	if strings.TrimSpace(message) == "" {
		f.toast(ToastRequired)
		return
	}
	f.mu.Lock()
	if f.sending || f.submit == nil {
		f.mu.Unlock()
		return
	}
	f.sending = true
	f.mu.Unlock()
	f.send.Disable()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		err := f.submit.Submit(ctx, name, message)
		cancel()

		ui.CallOnMain(func() {
			if err == nil {
				f.name.SetText("")
				f.message.SetText("")
			}
			f.send.Enable()
		})
		f.mu.Lock()
		f.sending = false
		f.mu.Unlock()
		f.toast(toastFor(err))
	}()
}

// wait blocks until an in-flight submission finished.
func (f *contactForm) wait() { f.wg.Wait() }
