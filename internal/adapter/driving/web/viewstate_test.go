package web

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

func TestNewViewStateDefaults(t *testing.T) {
	user := NewViewState(model.SessionKindUser)
	assert.Equal(t, TabAccounts, user.ActiveTab)
	assert.Empty(t, user.Search)
	assert.Nil(t, user.Pending)

	admin := NewViewState(model.SessionKindAdmin)
	assert.Equal(t, TabStats, admin.ActiveTab)
}

func TestSwitchTabClearsSearchAndGroup(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	v.Search = "git"
	v.EnterGroup("platform")

	v.SwitchTab(model.SessionKindUser, TabAPIKeys)

	assert.Equal(t, TabAPIKeys, v.ActiveTab)
	assert.Empty(t, v.Search)
	assert.Empty(t, v.CurrentGroup)
}

func TestSwitchTabToSameTabKeepsSearch(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	v.Search = "git"

	v.SwitchTab(model.SessionKindUser, TabAccounts)

	assert.Equal(t, "git", v.Search)
}

func TestSwitchTabRejectsUnknownAndCrossKindTabs(t *testing.T) {
	v := NewViewState(model.SessionKindUser)

	v.SwitchTab(model.SessionKindUser, "settings")
	assert.Equal(t, TabAccounts, v.ActiveTab)

	v.SwitchTab(model.SessionKindUser, TabStats)
	assert.Equal(t, TabAccounts, v.ActiveTab, "admin tabs are not reachable from a user session")
}

func TestSwitchTabKeepsReveals(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	v.ToggleReveal("account:1")

	v.SwitchTab(model.SessionKindUser, TabAPIKeys)
	v.SwitchTab(model.SessionKindUser, TabAccounts)

	assert.True(t, v.IsRevealed("account:1"))
}

func TestToggleReveal(t *testing.T) {
	v := NewViewState(model.SessionKindUser)

	v.ToggleReveal("account:1")
	assert.True(t, v.IsRevealed("account:1"))
	assert.False(t, v.IsRevealed("apikey:1"), "reveal flags are per item and kind")

	v.ToggleReveal("account:1")
	assert.False(t, v.IsRevealed("account:1"))
}

func TestForgetReveal(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	v.ToggleReveal("account:7")

	v.ForgetReveal("account:7")

	assert.False(t, v.IsRevealed("account:7"), "a later item reusing the ID starts masked")
}

func TestPendingConfirmLastWriteWins(t *testing.T) {
	v := NewViewState(model.SessionKindUser)

	v.RequestConfirm(PendingConfirm{Action: "delete-account", Args: map[string]string{"id": "7"}})
	v.RequestConfirm(PendingConfirm{Action: "delete-apikey", Args: map[string]string{"id": "3"}})

	p := v.TakePending()
	require.NotNil(t, p)
	assert.Equal(t, "delete-apikey", p.Action)
	assert.Equal(t, "3", p.Args["id"])
}

func TestTakePendingClearsIt(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	v.RequestConfirm(PendingConfirm{Action: "delete-account"})

	require.NotNil(t, v.TakePending())
	assert.Nil(t, v.TakePending(), "a confirmation executes at most once")
}

func TestCancelPending(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	v.RequestConfirm(PendingConfirm{Action: "delete-account"})

	v.CancelPending()

	assert.Nil(t, v.TakePending())
}

func TestEnterAndLeaveGroup(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	v.Search = "wiki"

	v.EnterGroup("platform")
	assert.Equal(t, TabGroups, v.ActiveTab)
	assert.Equal(t, "platform", v.CurrentGroup)
	assert.Empty(t, v.Search, "drilling in starts with a clean filter")

	v.LeaveGroup()
	assert.Empty(t, v.CurrentGroup)
	assert.Equal(t, TabGroups, v.ActiveTab)
}

func TestRevealSetIsBounded(t *testing.T) {
	v := NewViewState(model.SessionKindUser)
	for i := 0; i < 3*maxRevealed; i++ {
		v.ToggleReveal(accountKey(strconv.Itoa(i)))
	}

	assert.LessOrEqual(t, len(v.Revealed), maxRevealed)
	assert.True(t, v.IsRevealed(accountKey(strconv.Itoa(3*maxRevealed-1))), "the newest reveal always sticks")
}
