package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/models"
)

var allRoles = []models.Role{
	models.RoleCitizen,
	models.RoleOfficer,
	models.RoleAdmin,
	models.RoleDepartmentHead,
	models.RoleSuperAdmin,
	models.Role(""),
	models.Role("guest"),
}

func TestMain(m *testing.M) {
	if err := i18n.Initialize(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestStatusTableComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Statuses() {
		info := statusTable[s]
		require.NotEmpty(t, info.code, "status %d has no row", s)
		assert.False(t, seen[info.code], "duplicate code %s", info.code)
		seen[info.code] = true

		parsed, ok := ParseStatus(info.code)
		assert.True(t, ok)
		assert.Equal(t, s, parsed)
	}
	assert.Len(t, seen, 13)
}

func TestIndexStatusesRejectsGaps(t *testing.T) {
	_, err := indexStatuses([]statusInfo{{code: "new_request"}, {}, {code: "accepted"}})
	assert.EqualError(t, err, "workflow: status 1 has no table row")

	_, err = indexStatuses([]statusInfo{{code: "new_request"}, {code: "new_request"}})
	assert.Error(t, err)

	index, err := indexStatuses(statusTable[:])
	require.NoError(t, err)
	assert.Len(t, index, int(statusCount))
}

func TestPresenterTotalOverKnownStatuses(t *testing.T) {
	for _, lang := range []string{"en", "ar", "fr"} {
		for _, s := range Statuses() {
			code := s.String()
			label := DisplayLabel(lang, code)
			hint := NextStepHint(lang, code)

			assert.NotEmpty(t, label, "%s/%s", lang, code)
			assert.NotEqual(t, code, label, "label of %s should be translated", code)
			assert.NotEmpty(t, hint)
			assert.NotEqual(t, ColorNeutral, ColorCategory(code))
			assert.NotEmpty(t, Icon(code))

			// deterministic
			assert.Equal(t, label, DisplayLabel(lang, code))
			assert.Equal(t, hint, NextStepHint(lang, code))
		}
	}
}

func TestLocalizedLabels(t *testing.T) {
	assert.Equal(t, "New request", DisplayLabel("en", "new_request"))
	assert.Equal(t, "طلب جديد", DisplayLabel("ar", "new_request"))
	// unsupported language falls back to English
	assert.Equal(t, "Approved", DisplayLabel("fr", "approved"))
}

func TestUnknownStatusFallbacks(t *testing.T) {
	for _, code := range []string{"foo_bar", "", "APPROVED", "new request"} {
		assert.Equal(t, code, DisplayLabel("en", code))
		assert.Equal(t, ColorNeutral, ColorCategory(code))
		assert.Equal(t, unknownIcon, Icon(code))
		assert.Equal(t, "Your request is in progress.", NextStepHint("en", code))
		for _, role := range allRoles {
			assert.True(t, AvailableActions(code, role).IsEmpty())
		}
	}
	assert.Equal(t, "طلبك قيد المعالجة.", NextStepHint("ar", "foo_bar"))
}

func TestAvailableActionsOfficerScenarios(t *testing.T) {
	got := AvailableActions("new_request", models.RoleOfficer)
	assert.Equal(t, []Action{ActionAccept, ActionReject, ActionAssign, ActionReturn, ActionForward}, got.List())
	assert.False(t, got.Has(ActionApprove))

	assert.True(t, AvailableActions("approved", models.RoleOfficer).IsEmpty())
	assert.True(t, AvailableActions("rejected_final", models.RoleOfficer).IsEmpty())
	assert.True(t, AvailableActions("returned", models.RoleOfficer).IsEmpty())

	assert.Equal(t, []Action{ActionReject, ActionReturn, ActionForward, ActionApprove},
		AvailableActions("report_approved", models.RoleOfficer).List())
}

func TestAvailableActionsNonStaffNeverGetReviewActions(t *testing.T) {
	review := NewActionSet(ActionAccept, ActionReject, ActionAssign, ActionReturn, ActionForward, ActionApprove)
	for _, role := range []models.Role{models.RoleCitizen, "", "guest", "inspector"} {
		for _, s := range Statuses() {
			got := AvailableActions(s.String(), role)
			assert.Zero(t, got&review, "%s on %s", role, s)
			if role != models.RoleCitizen {
				assert.True(t, got.IsEmpty())
			}
		}
	}
}

func TestEditAndResubmitOnlyForReturnedCitizen(t *testing.T) {
	for _, s := range Statuses() {
		got := AvailableActions(s.String(), models.RoleCitizen)
		if s == StatusReturned {
			assert.True(t, got.Has(ActionEditAndResubmit))
			assert.Equal(t, 1, got.Len())
		} else {
			assert.False(t, got.Has(ActionEditAndResubmit), s.String())
		}
	}
	for _, role := range allRoles {
		if role == models.RoleCitizen {
			continue
		}
		assert.False(t, AvailableActions("returned", role).Has(ActionEditAndResubmit))
	}
}

func TestTopOfChainCannotForward(t *testing.T) {
	for _, role := range []models.Role{models.RoleDepartmentHead, models.RoleSuperAdmin} {
		for _, s := range Statuses() {
			assert.False(t, AvailableActions(s.String(), role).Has(ActionForward))
		}
		assert.True(t, AvailableActions("forwarded", role).Has(ActionApprove))
	}
	assert.True(t, AvailableActions("new_request", models.RoleAdmin).Has(ActionForward))
}

func TestActionsForRequiresOwnership(t *testing.T) {
	req := models.LicenseRequest{ID: "r1", Status: "returned", Submitter: models.Submitter{ID: "u1"}}

	owner := ActionsFor(req, Actor{ID: "u1", Role: models.RoleCitizen})
	assert.True(t, owner.Has(ActionEditAndResubmit))

	stranger := ActionsFor(req, Actor{ID: "u2", Role: models.RoleCitizen})
	assert.True(t, stranger.IsEmpty())

	anonymous := ActionsFor(models.LicenseRequest{Status: "returned"}, Actor{Role: models.RoleCitizen})
	assert.True(t, anonymous.IsEmpty())
}

func TestTargetStatus(t *testing.T) {
	cases := []struct {
		action  Action
		current string
		want    string
		ok      bool
	}{
		{ActionAccept, "new_request", "accepted", true},
		{ActionApprove, "report_approved", "approved", true},
		{ActionReject, "new_request", "rejected", true},
		{ActionReject, "rejected", "rejected_final", true},
		{ActionAssign, "accepted", "", false},
		{ActionReturn, "accepted", "", false},
		{ActionForward, "accepted", "", false},
	}
	for _, tc := range cases {
		got, ok := TargetStatus(tc.action, tc.current)
		assert.Equal(t, tc.ok, ok, "%s", tc.action)
		assert.Equal(t, tc.want, got, "%s", tc.action)
	}
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("Approve")
	assert.True(t, ok)
	assert.Equal(t, ActionApprove, a)

	a, ok = ParseAction("editandresubmit")
	assert.True(t, ok)
	assert.Equal(t, ActionEditAndResubmit, a)

	_, ok = ParseAction("delete")
	assert.False(t, ok)
}

func TestDescribeJSON(t *testing.T) {
	view := Describe("en", "new_request", AvailableActions("new_request", models.RoleOfficer))
	data, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "info", decoded["color"])
	assert.Equal(t, true, decoded["known"])
	assert.Equal(t, []interface{}{"accept", "reject", "assign", "return", "forward"}, decoded["actions"])

	empty, err := json.Marshal(Describe("en", "foo_bar", 0))
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"actions":[]`)
	assert.Contains(t, string(empty), `"label":"foo_bar"`)
}

func TestCatalogAndTerminal(t *testing.T) {
	catalog := Catalog("en")
	require.Len(t, catalog, int(statusCount))
	assert.Equal(t, "new_request", catalog[0].Code)

	assert.True(t, IsTerminal("approved"))
	assert.True(t, IsTerminal("rejected_final"))
	assert.False(t, IsTerminal("rejected"))
	assert.False(t, IsTerminal("foo_bar"))
}

func TestLicenseTypeLabel(t *testing.T) {
	assert.Equal(t, "License renewal", LicenseTypeLabel("en", models.LicenseTypeRenewal))
	assert.Equal(t, "solar_farm", LicenseTypeLabel("en", "solar_farm"))
}
