// Package workflow maps license-request status codes to what the portal
// shows for them: labels, colors, icons, next-step hints and the actions an
// actor may be offered. It never decides whether a transition is legal;
// the licensing backend does.
package workflow

import (
	"fmt"

	"github.com/javajoker/energy-eservice/internal/models"
)

type Status int

const (
	StatusNewRequest Status = iota
	StatusAccepted
	StatusAssigned
	StatusAppointment
	StatusInspecting
	StatusInspectionDone
	StatusDocumentEdit
	StatusReportApproved
	StatusApproved
	StatusRejected
	StatusRejectedFinal
	StatusReturned
	StatusForwarded

	statusCount
)

type Color string

const (
	ColorNeutral Color = "neutral"
	ColorInfo    Color = "info"
	ColorSuccess Color = "success"
	ColorWarning Color = "warning"
	ColorDanger  Color = "danger"
)

const unknownIcon = "help-circle"

type statusInfo struct {
	code     string
	label    string
	hint     string
	color    Color
	icon     string
	terminal bool
	staff    ActionSet
	citizen  ActionSet
}

var statusTable = [...]statusInfo{
	StatusNewRequest: {
		code: "new_request", label: "New request",
		hint:  "Your request is waiting to be reviewed by an officer.",
		color: ColorInfo, icon: "inbox",
		staff: NewActionSet(ActionAccept, ActionReject, ActionAssign, ActionReturn, ActionForward),
	},
	StatusAccepted: {
		code: "accepted", label: "Accepted",
		hint:  "Your request was accepted and will be assigned to an inspector.",
		color: ColorInfo, icon: "check",
		staff: NewActionSet(ActionAssign, ActionReject, ActionReturn, ActionForward),
	},
	StatusAssigned: {
		code: "assigned", label: "Assigned to inspector",
		hint:  "An inspector will contact you to schedule a site visit.",
		color: ColorInfo, icon: "user-check",
		staff: NewActionSet(ActionAssign, ActionReject, ActionReturn, ActionForward),
	},
	StatusAppointment: {
		code: "appointment", label: "Inspection appointment",
		hint:  "A site inspection appointment has been scheduled.",
		color: ColorInfo, icon: "calendar",
		staff: NewActionSet(ActionReject, ActionReturn, ActionForward),
	},
	StatusInspecting: {
		code: "inspecting", label: "Under inspection",
		hint:  "The inspection of your site is in progress.",
		color: ColorWarning, icon: "search",
		staff: NewActionSet(ActionForward),
	},
	StatusInspectionDone: {
		code: "inspection_done", label: "Inspection completed",
		hint:  "The inspection is done; the report is being prepared.",
		color: ColorInfo, icon: "clipboard-check",
		staff: NewActionSet(ActionReject, ActionReturn, ActionForward),
	},
	StatusDocumentEdit: {
		code: "document_edit", label: "Preparing documents",
		hint:  "The license documents are being prepared.",
		color: ColorWarning, icon: "file-edit",
		staff: NewActionSet(ActionReturn, ActionForward),
	},
	StatusReportApproved: {
		code: "report_approved", label: "Report approved",
		hint:  "The inspection report was approved; a final decision follows.",
		color: ColorSuccess, icon: "file-check",
		staff: NewActionSet(ActionApprove, ActionReject, ActionReturn, ActionForward),
	},
	StatusApproved: {
		code: "approved", label: "Approved",
		hint:  "Your license has been approved.",
		color: ColorSuccess, icon: "award", terminal: true,
	},
	StatusRejected: {
		code: "rejected", label: "Rejected",
		hint:  "Your request was rejected. You may contact the office for details.",
		color: ColorDanger, icon: "x-circle",
		staff: NewActionSet(ActionReject, ActionForward),
	},
	StatusRejectedFinal: {
		code: "rejected_final", label: "Finally rejected",
		hint:  "Your request was finally rejected and is closed.",
		color: ColorDanger, icon: "slash", terminal: true,
	},
	StatusReturned: {
		code: "returned", label: "Returned for correction",
		hint:    "Please correct the requested documents and resubmit.",
		color:   ColorWarning, icon: "corner-up-left",
		citizen: NewActionSet(ActionEditAndResubmit),
	},
	StatusForwarded: {
		code: "forwarded", label: "Forwarded for decision",
		hint:  "Your request was forwarded to a senior official for decision.",
		color: ColorWarning, icon: "share",
		staff: NewActionSet(ActionApprove, ActionReject, ActionReturn),
	},
}

// A Status appended without a table row breaks the build here.
var _ = [1]struct{}{}[len(statusTable)-int(statusCount)]

// A Status inserted mid-list leaves a zero row that indexStatuses refuses.
var statusByCode = mustIndex(statusTable[:])

func indexStatuses(table []statusInfo) (map[string]Status, error) {
	m := make(map[string]Status, len(table))
	for i, info := range table {
		if info.code == "" {
			return nil, fmt.Errorf("workflow: status %d has no table row", i)
		}
		if prev, dup := m[info.code]; dup {
			return nil, fmt.Errorf("workflow: statuses %d and %d share code %q", prev, i, info.code)
		}
		m[info.code] = Status(i)
	}
	return m, nil
}

func mustIndex(table []statusInfo) map[string]Status {
	m, err := indexStatuses(table)
	if err != nil {
		panic(err)
	}
	return m
}

// Statuses lists every known status in happy-path order, side branches last.
func Statuses() []Status {
	list := make([]Status, 0, statusCount)
	for s := Status(0); s < statusCount; s++ {
		list = append(list, s)
	}
	return list
}

// ParseStatus resolves a raw backend code.
func ParseStatus(code string) (Status, bool) {
	s, ok := statusByCode[code]
	return s, ok
}

func (s Status) valid() bool { return s >= 0 && s < statusCount }

func (s Status) String() string {
	if !s.valid() {
		return "unknown"
	}
	return statusTable[s].code
}

func (s Status) IsTerminal() bool {
	return s.valid() && statusTable[s].terminal
}

// IsTerminal reports whether a raw code names a terminal status.
func IsTerminal(code string) bool {
	s, ok := ParseStatus(code)
	return ok && s.IsTerminal()
}

// TargetStatus is the status code sent to the backend for actions carried by
// PUT .../status. Assign, return and forward have their own endpoints.
func TargetStatus(action Action, current string) (string, bool) {
	switch action {
	case ActionAccept:
		return StatusAccepted.String(), true
	case ActionApprove:
		return StatusApproved.String(), true
	case ActionReject:
		if current == StatusRejected.String() {
			return StatusRejectedFinal.String(), true
		}
		return StatusRejected.String(), true
	}
	return "", false
}

// roleActions narrows the staff action set for roles at the top of the chain.
func roleActions(info statusInfo, role models.Role) ActionSet {
	switch {
	case role == models.RoleCitizen:
		return info.citizen
	case !role.IsStaff():
		return 0
	case role == models.RoleDepartmentHead || role == models.RoleSuperAdmin:
		return info.staff.Without(ActionForward)
	default:
		return info.staff
	}
}
