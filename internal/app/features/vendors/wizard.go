// internal/app/features/vendors/wizard.go
package vendors

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Step is a page of the registration wizard.
type Step string

const (
	StepEmail   Step = "email"
	StepMember  Step = "member"
	StepVendor  Step = "vendor"
	StepCompany Step = "company"
)

// Branch records how the wizard ends: converting an existing member or
// registering a new one.
type Branch string

const (
	BranchNone     Branch = ""
	BranchConvert  Branch = "convert"
	BranchRegister Branch = "register"
)

// CategoriesTable is the lookup table of vendor categories.
const CategoriesTable = "vendor_categories"

// ErrAlreadyVendor is the inline error of the email step.
var ErrAlreadyVendor = errors.New("this email already belongs to a vendor")

var stepSchemas = map[Step]formdraft.Schema{
	StepEmail: {Fields: []formdraft.Field{
		{Name: "email", Label: "Email", Kind: formdraft.Text, Required: true},
	}},
	StepMember: {Fields: []formdraft.Field{
		{Name: "name", Label: "Full name", Kind: formdraft.Text, Required: true},
		{Name: "phone", Label: "Phone", Kind: formdraft.Text, Required: true},
		{Name: "password", Label: "Password", Kind: formdraft.Password, Required: true},
	}},
	StepVendor: {Fields: []formdraft.Field{
		{Name: "contact_name", Label: "Contact name", Kind: formdraft.Text, Required: true},
		{Name: "category", Label: "Category", Kind: formdraft.Select, Lookup: CategoriesTable, Required: true},
		{Name: "contact_phone", Label: "Contact phone", Kind: formdraft.Text},
	}},
	StepCompany: {Fields: []formdraft.Field{
		{Name: "company_name", Label: "Company name", Kind: formdraft.Text, Required: true},
		{Name: "company_reg_no", Label: "Registration number", Kind: formdraft.Text, Required: true},
		{Name: "company_address", Label: "Address", Kind: formdraft.LongText},
		{Name: "website", Label: "Website", Kind: formdraft.Text},
	}},
}

// State is the wizard's progress. Values holds every captured field of
// every step visited so far.
type State struct {
	Step     Step
	Branch   Branch
	Values   map[string]string
	UserID   string // member being converted
	Callback string
}

// NewState starts at the email step.
func NewState() State {
	return State{Step: StepEmail, Values: map[string]string{}}
}

// Prompting reports whether the conversion prompt is showing.
func (s State) Prompting() bool {
	return s.Step == StepEmail && s.Branch == BranchConvert
}

// Steps lists the pages of the current branch in order.
func (s State) Steps() []Step {
	if s.Branch == BranchConvert {
		return []Step{StepEmail, StepVendor, StepCompany}
	}
	return []Step{StepEmail, StepMember, StepVendor, StepCompany}
}

// Capture validates the current step's fields from form and stores them.
// Values of other steps are left alone.
func (s *State) Capture(form url.Values) map[string]string {
	sch := stepSchemas[s.Step]
	d := formdraft.Draft{}
	for _, f := range sch.Fields {
		v := form.Get(f.Name)
		if f.Kind != formdraft.Password {
			s.Values[f.Name] = v
		} else if v != "" {
			s.Values[f.Name] = v
		}
		d[f.Name] = formdraft.TextValue(s.Values[f.Name])
	}
	return formdraft.Validate(sch, d)
}

// EmailChecked applies the backend's answer to the email lookup.
func (s *State) EmailChecked(c *models.VendorEmailCheck) error {
	switch {
	case c.Exists && c.IsVendor:
		s.Branch = BranchNone
		return ErrAlreadyVendor
	case c.Exists:
		s.Branch = BranchConvert
		s.UserID = strconv.FormatInt(c.UserID, 10)
		if c.Name != "" && s.Values["contact_name"] == "" {
			s.Values["contact_name"] = c.Name
		}
	default:
		s.Branch = BranchRegister
		s.UserID = ""
		s.Step = StepMember
	}
	return nil
}

// ConfirmConversion accepts the prompt; the member step is skipped.
func (s *State) ConfirmConversion() {
	if s.Prompting() {
		s.Step = StepVendor
	}
}

// CancelConversion dismisses the prompt and returns to the plain email step.
func (s *State) CancelConversion() {
	if s.Prompting() {
		s.Branch = BranchNone
		s.UserID = ""
	}
}

// Next advances one step within the branch.
func (s *State) Next() {
	steps := s.Steps()
	for i, st := range steps {
		if st == s.Step && i+1 < len(steps) {
			s.Step = steps[i+1]
			return
		}
	}
}

// Back returns one step. Going back to the email step of a register flow
// drops the branch so the address is checked again.
func (s *State) Back() {
	steps := s.Steps()
	for i, st := range steps {
		if st == s.Step && i > 0 {
			s.Step = steps[i-1]
			if s.Step == StepEmail && s.Branch == BranchRegister {
				s.Branch = BranchNone
			}
			return
		}
	}
}

// Payload merges every step's data for the final request. The register
// branch carries the member fields, the convert branch the member's id.
func (s State) Payload() url.Values {
	out := url.Values{}
	add := func(step Step) {
		for _, f := range stepSchemas[step].Fields {
			if v := s.Values[f.Name]; v != "" {
				out.Set(f.Name, v)
			}
		}
	}
	add(StepEmail)
	if s.Branch == BranchRegister {
		add(StepMember)
	} else if s.UserID != "" {
		out.Set("user_id", s.UserID)
	}
	add(StepVendor)
	add(StepCompany)
	return out
}
