package workflow

import (
	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/models"
)

const inProgressHint = "Your request is in progress."

// DisplayLabel returns the localized label of a status code, or the code
// itself when it is not a known status.
func DisplayLabel(lang, code string) string {
	s, ok := ParseStatus(code)
	if !ok {
		return code
	}
	if text, found := i18n.Lookup(lang, i18n.StatusLabelKey(code)); found && text != "" {
		return text
	}
	return statusTable[s].label
}

// ColorCategory never fails; unknown codes are neutral.
func ColorCategory(code string) Color {
	s, ok := ParseStatus(code)
	if !ok {
		return ColorNeutral
	}
	return statusTable[s].color
}

func Icon(code string) string {
	s, ok := ParseStatus(code)
	if !ok {
		return unknownIcon
	}
	return statusTable[s].icon
}

// NextStepHint describes what happens next for the request.
func NextStepHint(lang, code string) string {
	if _, ok := ParseStatus(code); ok {
		if text, found := i18n.Lookup(lang, i18n.StatusHintKey(code)); found && text != "" {
			return text
		}
		s, _ := ParseStatus(code)
		return statusTable[s].hint
	}
	if text, found := i18n.Lookup(lang, i18n.KeyStatusInProgress); found && text != "" {
		return text
	}
	return inProgressHint
}

// AvailableActions decides which buttons to show for a status and role.
// Staff roles get the review actions; a citizen only gets editAndResubmit,
// and only on a returned request. Anything unrecognized gets nothing.
func AvailableActions(code string, role models.Role) ActionSet {
	s, ok := ParseStatus(code)
	if !ok {
		return 0
	}
	return roleActions(statusTable[s], role)
}

// Actor is whoever is looking at a request.
type Actor struct {
	ID   string
	Role models.Role
}

// ActionsFor is AvailableActions narrowed by ownership: only the submitter
// may edit and resubmit.
func ActionsFor(req models.LicenseRequest, actor Actor) ActionSet {
	actions := AvailableActions(req.Status, actor.Role)
	if actions.Has(ActionEditAndResubmit) && (actor.ID == "" || actor.ID != req.Submitter.ID) {
		actions = actions.Without(ActionEditAndResubmit)
	}
	return actions
}

// LicenseTypeLabel follows the same fallback rule as DisplayLabel.
func LicenseTypeLabel(lang string, licenseType models.LicenseType) string {
	if !licenseType.IsValid() {
		return string(licenseType)
	}
	if text, found := i18n.Lookup(lang, i18n.LicenseTypeKey(string(licenseType))); found && text != "" {
		return text
	}
	return string(licenseType)
}

type StatusView struct {
	Code     string    `json:"code"`
	Label    string    `json:"label"`
	Color    Color     `json:"color"`
	Icon     string    `json:"icon"`
	NextStep string    `json:"next_step"`
	Known    bool      `json:"known"`
	Terminal bool      `json:"terminal"`
	Actions  ActionSet `json:"actions"`
}

func Describe(lang, code string, actions ActionSet) StatusView {
	_, known := ParseStatus(code)
	return StatusView{
		Code:     code,
		Label:    DisplayLabel(lang, code),
		Color:    ColorCategory(code),
		Icon:     Icon(code),
		NextStep: NextStepHint(lang, code),
		Known:    known,
		Terminal: IsTerminal(code),
		Actions:  actions,
	}
}

// RequestView is a request together with how the actor should see it.
type RequestView struct {
	models.LicenseRequest
	LicenseTypeLabel string     `json:"licenseTypeLabel"`
	StatusView       StatusView `json:"statusView"`
}

func Present(lang string, req models.LicenseRequest, actor Actor) RequestView {
	return RequestView{
		LicenseRequest:   req,
		LicenseTypeLabel: LicenseTypeLabel(lang, req.LicenseType),
		StatusView:       Describe(lang, req.Status, ActionsFor(req, actor)),
	}
}

func PresentAll(lang string, reqs []models.LicenseRequest, actor Actor) []RequestView {
	views := make([]RequestView, 0, len(reqs))
	for _, req := range reqs {
		views = append(views, Present(lang, req, actor))
	}
	return views
}

// Catalog lists every known status for the given language.
func Catalog(lang string) []StatusView {
	views := make([]StatusView, 0, statusCount)
	for _, s := range Statuses() {
		views = append(views, Describe(lang, s.String(), 0))
	}
	return views
}
