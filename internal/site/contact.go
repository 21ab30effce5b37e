package site

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/olguin/portfolio/internal/shared"
	"github.com/olguin/portfolio/internal/view"
	"github.com/olguin/portfolio/jobs"
)

// Enqueuer hands contact messages to the delivery worker.
type Enqueuer interface {
	EnqueueContact(ctx context.Context, payload jobs.ContactPayload) (*asynq.TaskInfo, error)
}

const contactThanks = "Thanks for reaching out. I'll be in touch soon."

// ContactForm is the submitted contact form.
type ContactForm struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email,max=254"`
	Message string `validate:"required,min=10,max=4000"`
}

// ContactView is the contact form view model.
type ContactView struct {
	Form      ContactForm
	Errors    map[string]string
	CSRFToken string
}

var fieldMessages = map[string]map[string]string{
	"Name": {
		"required": "Please tell me your name.",
		"max":      "Names are limited to 100 characters.",
	},
	"Email": {
		"required": "An email address is needed so I can reply.",
		"email":    "Enter a valid email address.",
		"max":      "Enter a valid email address.",
	},
	"Message": {
		"required": "Please write a message.",
		"min":      "Please write at least a sentence.",
		"max":      "Messages are limited to 4,000 characters.",
	},
}

func (h *Handler) showContact(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		h.handleServerError(w, "csrf token", err)
		return
	}
	h.renderContact(w, r, http.StatusOK, ContactView{CSRFToken: token})
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		h.handleServerError(w, "csrf token", err)
		return
	}

	form := ContactForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
	if errs := h.validateContact(form); len(errs) > 0 {
		h.count("invalid")
		h.renderContact(w, r, http.StatusBadRequest, ContactView{Form: form, Errors: errs, CSRFToken: token})
		return
	}

	_, err = h.enqueuer.EnqueueContact(r.Context(), jobs.ContactPayload{
		Name:        form.Name,
		Email:       form.Email,
		Message:     form.Message,
		SubmittedAt: h.now().UTC(),
		RequestID:   middleware.GetReqID(r.Context()),
	})
	if err != nil {
		h.logError("enqueue contact", err)
		h.count("failed")
		errs := map[string]string{"form": "Your message could not be sent right now. Please try again in a few minutes."}
		h.renderContact(w, r, http.StatusServiceUnavailable, ContactView{Form: form, Errors: errs, CSRFToken: token})
		return
	}
	h.count("queued")

	if _, err := h.csrf.Rotate(r.Context(), sess); err != nil {
		h.logError("rotate csrf", err)
	}
	if isHTMX(r) {
		if err := h.templates.RenderPartial(w, "contact_success", contactThanks); err != nil {
			h.handleServerError(w, "render template", err)
		}
		return
	}
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: contactThanks})
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

func (h *Handler) validateContact(form ContactForm) map[string]string {
	err := h.validator.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"form": "The form could not be checked."}
	}
	errs := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		if _, seen := errs[fieldErr.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fieldErr.Field()][fieldErr.Tag()]
		if !ok {
			msg = fieldErr.Error()
		}
		errs[fieldErr.Field()] = msg
	}
	return errs
}

func (h *Handler) renderContact(w http.ResponseWriter, r *http.Request, status int, cv ContactView) {
	if isHTMX(r) {
		if err := h.templates.RenderPartialStatus(w, status, "contact_form", cv); err != nil {
			h.handleServerError(w, "render template", err)
		}
		return
	}
	data := view.Page(r, "Contact", cv)
	data.CSRFToken = cv.CSRFToken
	if err := h.templates.RenderStatus(w, status, "pages/contact.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) count(result string) {
	if h.counter != nil {
		h.counter.ContactMessage(result)
	}
}
