package web

import "github.com/frozpass/vaultpanel/internal/domain/model"

// Tab identifiers. User sessions cycle through the first four; admin
// sessions through the last three.
const (
	TabAccounts = "accounts"
	TabAPIKeys  = "apikeys"
	TabGroups   = "groups"
	TabProfile  = "profile"

	TabStats      = "stats"
	TabAdminUsers = "users"
	TabAdminGrps  = "admin-groups"
)

var (
	userTabs  = []string{TabAccounts, TabAPIKeys, TabGroups, TabProfile}
	adminTabs = []string{TabStats, TabAdminUsers, TabAdminGrps}
)

// PendingConfirm is a destructive action awaiting the user's explicit
// confirmation. At most one is pending; requesting a second replaces the
// first, so confirming always executes the most recently requested action.
type PendingConfirm struct {
	Title   string
	Message string
	Action  string
	Args    map[string]string
}

// ViewState is the per-session presentation state: the active tab, the
// search query, which secrets are revealed, and the pending confirmation.
// It carries no vault data; lists always come from the backend or the
// snapshot store.
type ViewState struct {
	ActiveTab        string
	Search           string
	SidebarCollapsed bool
	CurrentGroup     string
	Revealed         map[string]bool
	Pending          *PendingConfirm
}

// NewViewState returns the default state for a fresh login: first tab
// active, nothing searched, nothing revealed, nothing pending.
func NewViewState(kind model.SessionKind) *ViewState {
	tab := TabAccounts
	if kind == model.SessionKindAdmin {
		tab = TabStats
	}
	return &ViewState{
		ActiveTab: tab,
		Revealed:  make(map[string]bool),
	}
}

// SwitchTab activates a tab. Switching clears the search query and leaves
// any group drill-in; it does not touch revealed secrets, which are keyed
// per item and survive tab round-trips. Unknown tab names are ignored.
func (v *ViewState) SwitchTab(kind model.SessionKind, tab string) {
	if !validTab(kind, tab) {
		return
	}
	if tab != v.ActiveTab {
		v.Search = ""
		v.CurrentGroup = ""
	}
	v.ActiveTab = tab
}

func validTab(kind model.SessionKind, tab string) bool {
	tabs := userTabs
	if kind == model.SessionKindAdmin {
		tabs = adminTabs
	}
	for _, t := range tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// EnterGroup drills into a group's shared items from the groups tab.
func (v *ViewState) EnterGroup(name string) {
	v.ActiveTab = TabGroups
	v.CurrentGroup = name
	v.Search = ""
}

// LeaveGroup returns to the group list.
func (v *ViewState) LeaveGroup() {
	v.CurrentGroup = ""
}

// maxRevealed bounds the reveal set. The set travels inside the session
// cookie, which securecookie refuses to encode past 4KB.
const maxRevealed = 64

// ToggleReveal flips the revealed flag for one secret. Keys combine the
// resource kind and the item identity so an account and an API key with
// the same ID never share a flag. At the cap an arbitrary flag is evicted,
// which only flips that secret back to masked.
func (v *ViewState) ToggleReveal(key string) {
	if v.Revealed == nil {
		v.Revealed = make(map[string]bool)
	}
	if v.Revealed[key] {
		delete(v.Revealed, key)
		return
	}
	for k := range v.Revealed {
		if len(v.Revealed) < maxRevealed {
			break
		}
		delete(v.Revealed, k)
	}
	v.Revealed[key] = true
}

// IsRevealed reports whether the secret behind key is shown in clear text.
func (v *ViewState) IsRevealed(key string) bool {
	return v.Revealed[key]
}

// ForgetReveal drops the revealed flag for a deleted item so a later item
// reusing the ID does not start revealed.
func (v *ViewState) ForgetReveal(key string) {
	delete(v.Revealed, key)
}

// RequestConfirm stages a destructive action. Any previously pending
// action is replaced.
func (v *ViewState) RequestConfirm(p PendingConfirm) {
	v.Pending = &p
}

// TakePending returns and clears the pending action. The second call after
// a single request returns nil; a confirmation executes at most once.
func (v *ViewState) TakePending() *PendingConfirm {
	p := v.Pending
	v.Pending = nil
	return p
}

// CancelPending discards the pending action without executing it.
func (v *ViewState) CancelPending() {
	v.Pending = nil
}
