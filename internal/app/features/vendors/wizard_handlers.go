// internal/app/features/vendors/wizard_handlers.go
package vendors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/store/drafts"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/formutil"
	"github.com/dalemusser/clubdesk/internal/app/system/navigation"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const (
	draftName   = "vendor_wizard"
	wizardURL   = "/vendors/new"
	keyUserID   = "_user_id"
	keyCallback = "_callback"
)

type wizardField struct {
	Name     string
	Label    string
	Type     string // text, password, textarea, select
	Value    string
	Required bool
	Error    string
	Choices  []formdraft.Choice
}

type wizardStep struct {
	Name    string
	Label   string
	Current bool
	Done    bool
}

type wizardData struct {
	formutil.Base
	Step      string
	Steps     []wizardStep
	Fields    []wizardField
	Prompting bool
	Email     string
	Member    string
	CanBack   bool
	Final     bool
	PostURL   string
}

var stepLabels = map[Step]string{
	StepEmail:   "Email",
	StepMember:  "Member details",
	StepVendor:  "Vendor details",
	StepCompany: "Company",
}

// ServeWizard renders the current step. ?restart=1 discards saved progress;
// ?email and ?callback_url seed a fresh run.
func (h *Handler) ServeWizard(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if r.URL.Query().Get("restart") != "" {
		if err := h.Drafts.Delete(r.Context(), sid, draftName); err != nil {
			h.Log.Warn("discard vendor wizard draft failed", zap.Error(err))
		}
	}

	st, fresh := h.loadState(r.Context(), sid)
	if fresh {
		st.Values["email"] = strings.TrimSpace(r.URL.Query().Get("email"))
		st.Callback = navigation.CallbackURL(r, "")
		if err := h.Drafts.Save(r.Context(), stateDraft(sid, st)); err != nil {
			h.Log.Warn("save vendor wizard draft failed", zap.Error(err))
		}
	}
	h.renderWizard(w, r, st, nil, "")
}

// HandleWizard applies one wizard operation (op=check|confirm|cancel|next|back|submit).
func (h *Handler) HandleWizard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse vendor wizard form", err, "Invalid form data.", wizardURL)
		return
	}
	sid := sessionID(r)
	st, _ := h.loadState(r.Context(), sid)

	var errs map[string]string
	switch r.PostForm.Get("op") {
	case "check":
		if st.Step != StepEmail {
			break
		}
		if errs = st.Capture(r.PostForm); len(errs) > 0 {
			h.renderWizard(w, r, st, errs, "")
			return
		}
		check, ok := h.checkEmail(w, r, st)
		if !ok {
			return
		}
		if err := st.EmailChecked(check); err != nil {
			h.renderWizard(w, r, st, map[string]string{"email": err.Error()}, "")
			return
		}
	case "confirm":
		st.ConfirmConversion()
	case "cancel":
		st.CancelConversion()
	case "next":
		if st.Step == StepEmail {
			break
		}
		if errs = st.Capture(r.PostForm); len(errs) > 0 {
			h.renderWizard(w, r, st, errs, "")
			return
		}
		st.Next()
	case "back":
		if errs = st.Capture(r.PostForm); len(errs) > 0 {
			h.renderWizard(w, r, st, errs, "")
			return
		}
		st.Back()
	case "submit":
		if st.Step != StepCompany {
			break
		}
		if errs = st.Capture(r.PostForm); len(errs) > 0 {
			h.renderWizard(w, r, st, errs, "")
			return
		}
		h.finish(w, r, sid, st)
		return
	}

	if err := h.Drafts.Save(r.Context(), stateDraft(sid, st)); err != nil {
		h.Log.Warn("save vendor wizard draft failed", zap.Error(err))
	}
	http.Redirect(w, r, wizardURL, http.StatusSeeOther)
}

// checkEmail asks the backend about the address. ok=false means the
// response was already written.
func (h *Handler) checkEmail(w http.ResponseWriter, r *http.Request, st State) (*models.VendorEmailCheck, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	check, err := h.Client.CheckVendorEmail(ctx, st.Values["email"])
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.ErrLog.APIError(w, r, "check vendor email", err, wizardURL)
			return nil, false
		}
		h.Log.Warn("check vendor email failed", zap.Error(err))
		h.renderWizard(w, r, st, nil, apiclient.UserMessage(err))
		return nil, false
	}
	return check, true
}

// finish sends the merged data, clears the draft and leaves the wizard.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, sid string, st State) {
	form := apiclient.NewForm(st.Payload())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var (
		id    string
		err   error
		event = audit.EventEntityCreated
	)
	if st.Branch == BranchConvert {
		event = audit.EventVendorConverted
		id, err = h.Client.ConvertVendor(ctx, form)
	} else {
		id, err = h.API.Create(ctx, form)
	}
	h.Audit.EntityAction(r.Context(), r, event, "vendors", id, err, map[string]string{
		"branch": string(st.Branch),
		"email":  st.Values["email"],
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.ErrLog.APIError(w, r, "register vendor", err, wizardURL)
			return
		}
		h.Log.Warn("register vendor failed", zap.String("branch", string(st.Branch)), zap.Error(err))
		h.renderWizard(w, r, st, nil, apiclient.UserMessage(err))
		return
	}

	if err := h.Drafts.Delete(r.Context(), sid, draftName); err != nil {
		h.Log.Warn("discard vendor wizard draft failed", zap.Error(err))
	}
	h.Controller(r).Invalidate()

	msg := "Vendor registered."
	if st.Branch == BranchConvert {
		msg = "Member converted to vendor."
	}
	if h.Flash != nil {
		if err := flash.Add(w, r, h.Flash, flash.Success, msg); err != nil {
			h.Log.Warn("queue toast failed", zap.Error(err))
		}
	}
	back := "/vendors"
	if st.Callback != "" {
		back = st.Callback
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) loadState(ctx context.Context, sid string) (State, bool) {
	d, err := h.Drafts.Load(ctx, sid, draftName)
	if err != nil {
		if !errors.Is(err, drafts.ErrNotFound) {
			h.Log.Warn("load vendor wizard draft failed", zap.Error(err))
		}
		return NewState(), true
	}
	st := State{
		Step:     Step(d.Step),
		Branch:   Branch(d.Branch),
		Values:   map[string]string{},
		UserID:   d.Values[keyUserID],
		Callback: d.Values[keyCallback],
	}
	if _, ok := stepSchemas[st.Step]; !ok {
		st.Step = StepEmail
	}
	for k, v := range d.Values {
		if !strings.HasPrefix(k, "_") {
			st.Values[k] = v
		}
	}
	return st, false
}

func stateDraft(sid string, st State) drafts.Draft {
	vals := make(map[string]string, len(st.Values)+2)
	for k, v := range st.Values {
		vals[k] = v
	}
	if st.UserID != "" {
		vals[keyUserID] = st.UserID
	}
	if st.Callback != "" {
		vals[keyCallback] = st.Callback
	}
	return drafts.Draft{
		SessionID: sid,
		Name:      draftName,
		Step:      string(st.Step),
		Branch:    string(st.Branch),
		Values:    vals,
	}
}

func (h *Handler) renderWizard(w http.ResponseWriter, r *http.Request, st State, errs map[string]string, errMsg string) {
	data := wizardData{
		Step:      string(st.Step),
		Prompting: st.Prompting(),
		Email:     st.Values["email"],
		Member:    st.Values["contact_name"],
		CanBack:   st.Step != StepEmail,
		Final:     st.Step == StepCompany,
		PostURL:   wizardURL,
	}

	reached := true
	for _, s := range st.Steps() {
		cur := s == st.Step
		if cur {
			reached = false
		}
		data.Steps = append(data.Steps, wizardStep{Name: string(s), Label: stepLabels[s], Current: cur, Done: reached})
	}

	for _, f := range stepSchemas[st.Step].Fields {
		wf := wizardField{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Kind.String(),
			Value:    st.Values[f.Name],
			Required: f.Required,
			Error:    errs[f.Name],
		}
		switch f.Kind {
		case formdraft.Password:
			wf.Value = ""
		case formdraft.Select:
			wf.Choices = h.LookupChoices(r.Context(), f.Lookup)
		}
		data.Fields = append(data.Fields, wf)
	}

	back := "/vendors"
	if st.Callback != "" {
		back = st.Callback
	}
	formutil.SetBase(&data.Base, w, r, "Register Vendor", back)
	if errMsg != "" {
		data.SetError(errMsg)
	}
	data.SetFieldErrors(errs)
	templates.Render(w, r, "vendor_wizard", data)
}

func sessionID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.SessionID
	}
	return ""
}
