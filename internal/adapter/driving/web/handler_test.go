package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frozpass/vaultpanel/internal/adapter/driving/web"
	"github.com/frozpass/vaultpanel/internal/application"
	"github.com/frozpass/vaultpanel/internal/domain/model"
	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// --- Mock implementations ---

type snapKey struct{ owner, resource string }

type memSnaps struct {
	mu    sync.Mutex
	snaps map[snapKey]*driven.Snapshot
}

func newMemSnaps() *memSnaps {
	return &memSnaps{snaps: make(map[snapKey]*driven.Snapshot)}
}

func (m *memSnaps) Save(_ context.Context, owner, resource string, payload []byte, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snapKey{owner, resource}] = &driven.Snapshot{
		Owner: owner, Resource: resource, Payload: payload, ItemCount: count,
	}
	return nil
}

func (m *memSnaps) Load(_ context.Context, owner, resource string) (*driven.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[snapKey{owner, resource}], nil
}

func (m *memSnaps) Count(_ context.Context, owner, resource string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.snaps[snapKey{owner, resource}]; s != nil {
		return s.ItemCount, nil
	}
	return 0, nil
}

func (m *memSnaps) DeleteOwner(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.snaps {
		if k.owner == owner {
			delete(m.snaps, k)
		}
	}
	return nil
}

// stubVault is a scripted VaultClient. Mutating the fields between requests
// simulates backend state changes and outages.
type stubVault struct {
	mu sync.Mutex

	loginErr error
	accounts []model.Account
	fetchErr error

	accountsCalls int
	deleteCalls   int
	addCalls      int
}

func (s *stubVault) Register(_ context.Context, _, _ string) error { return nil }

func (s *stubVault) Login(_ context.Context, username, _ string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loginErr != nil {
		return model.Session{}, s.loginErr
	}
	return model.Session{
		Token:     "tok-1",
		Username:  username,
		Kind:      model.SessionKindUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (s *stubVault) Me(_ context.Context, _ string) (string, error) { return "dev", nil }

func (s *stubVault) Accounts(_ context.Context, _, _ string) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountsCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.accounts, nil
}

func (s *stubVault) APIKeys(_ context.Context, _, _ string) ([]model.APIKey, error) {
	return nil, driven.ErrNotFound
}

func (s *stubVault) Groups(_ context.Context, _, _ string) ([]model.Group, error) {
	return []model.Group{{Name: "platform", MemberCount: 2, Description: "**infra** creds"}}, nil
}

func (s *stubVault) GroupAccounts(_ context.Context, _, _ string) ([]model.GroupAccount, error) {
	return []model.GroupAccount{{GroupName: "platform", Title: "wiki", UserAccount: "svc", PasswordAccount: "sharedpw", URL: "wiki.internal"}}, nil
}

func (s *stubVault) GroupAPIKeys(_ context.Context, _, _ string) ([]model.GroupAPIKey, error) {
	return nil, driven.ErrNotFound
}

func (s *stubVault) AddAccount(_ context.Context, _ string, _ model.NewAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCalls++
	return nil
}

func (s *stubVault) AddAPIKey(_ context.Context, _ string, _ model.NewAPIKey) error { return nil }
func (s *stubVault) AddGroupAccount(_ context.Context, _ string, _ model.NewGroupAccount) error {
	return nil
}
func (s *stubVault) AddGroupAPIKey(_ context.Context, _ string, _ model.NewGroupAPIKey) error {
	return nil
}

func (s *stubVault) DeleteAccount(_ context.Context, _, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubVault) DeleteAPIKey(_ context.Context, _, _ string) error { return nil }

type stubAdmin struct {
	mu          sync.Mutex
	users       []model.User
	groups      []model.Group
	deleteUsers int
}

func (s *stubAdmin) LoginAdmin(_ context.Context, username, _ string) (model.Session, error) {
	return model.Session{
		Token:     "adm-1",
		Username:  username,
		Kind:      model.SessionKindAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (s *stubAdmin) Users(_ context.Context, _ string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users, nil
}

func (s *stubAdmin) AdminGroups(_ context.Context, _ string) ([]model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups, nil
}

func (s *stubAdmin) CreateGroup(_ context.Context, _, name string, _ []string) (string, error) {
	return "Group " + name + " created successfully", nil
}

func (s *stubAdmin) AddGroupMember(_ context.Context, _, username, group string) (string, error) {
	return "User " + username + " added to group " + group, nil
}

func (s *stubAdmin) DeleteUser(_ context.Context, _, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteUsers++
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubAdmin) DeleteGroup(_ context.Context, _, _ string) error { return nil }

// --- Test harness ---

type harness struct {
	server *httptest.Server
	client *http.Client
	vault  *stubVault
	admin  *stubAdmin
	snaps  *memSnaps
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	vault := &stubVault{}
	admin := &stubAdmin{}
	snaps := newMemSnaps()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions := web.NewSessionStore("0123456789abcdef0123456789abcdef", time.Hour, false)
	handler, err := web.NewHandler(
		application.NewVaultService(vault, snaps),
		application.NewAdminService(admin, snaps),
		sessions,
		snaps,
		logger,
	)
	require.NoError(t, err)

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &harness{
		server: server,
		client: &http.Client{Jar: jar},
		vault:  vault,
		admin:  admin,
		snaps:  snaps,
	}
}

// get fetches a path following redirects and returns the final body.
func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// post submits a form following redirects and returns the final body.
func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.PostForm(h.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	resp, _ := h.post(t, "/login", url.Values{"username": {"dev"}, "password": {"hunter2"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (h *harness) loginAdmin(t *testing.T) {
	t.Helper()
	resp, _ := h.post(t, "/admin/login", url.Values{"username": {"root"}, "password": {"hunter2"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// --- Tests ---

func TestDashboardRequiresSession(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get(t, "/app")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.Path, "no session lands on the login form")
	assert.Contains(t, body, "Sign in")
	assert.Equal(t, 0, h.vault.accountsCalls, "an unauthenticated request fetches nothing")
}

func TestLoginShowsAccounts(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{
		{ID: "1", Title: "github", UserAccount: "dev@example.com", PasswordAccount: "hunter2", URL: "github.com"},
	}

	h.login(t)
	resp, body := h.get(t, "/app")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "github")
	assert.Contains(t, body, "dev@example.com")
	assert.NotContains(t, body, "hunter2", "secrets start masked")
	assert.Contains(t, body, `href="https://github.com"`, "bare addresses get a scheme")
}

func TestBadLoginShowsNotice(t *testing.T) {
	h := newHarness(t)
	h.vault.loginErr = driven.ErrUnauthorized

	resp, body := h.post(t, "/login", url.Values{"username": {"dev"}, "password": {"wrong"}})

	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Wrong username or password")
}

func TestRevealToggle(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{{ID: "1", Title: "github", PasswordAccount: "hunter2"}}
	h.login(t)

	_, body := h.post(t, "/app/reveal", url.Values{"key": {"account:1"}})
	assert.Contains(t, body, "hunter2", "revealed secret renders in clear text")

	_, body = h.post(t, "/app/reveal", url.Values{"key": {"account:1"}})
	assert.NotContains(t, body, "hunter2", "a second toggle masks it again")
}

func TestTabSwitchClearsSearch(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, body := h.post(t, "/app/search", url.Values{"q": {"github"}})
	assert.Contains(t, body, `value="github"`)

	h.post(t, "/app/tab", url.Values{"tab": {"apikeys"}})
	_, body = h.post(t, "/app/tab", url.Values{"tab": {"accounts"}})
	assert.NotContains(t, body, `value="github"`, "switching tabs drops the query")
}

func TestSearchFiltersAccounts(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{
		{ID: "1", Title: "github"},
		{ID: "2", Title: "mail"},
	}
	h.login(t)

	_, body := h.post(t, "/app/search", url.Values{"q": {"git"}})

	assert.Contains(t, body, "github")
	assert.NotContains(t, body, "mail")
}

func TestDeleteAccountConfirmFlow(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{
		{ID: "7", Title: "old-vpn"},
		{ID: "8", Title: "mail"},
	}
	h.login(t)
	h.get(t, "/app")

	// Requesting the delete stages it; nothing is deleted yet.
	resp, body := h.post(t, "/app/accounts/delete", url.Values{"id": {"7"}, "title": {"old-vpn"}})
	assert.Equal(t, "/app/confirm", resp.Request.URL.Path)
	assert.Contains(t, body, "old-vpn")
	assert.Equal(t, 0, h.vault.deleteCalls)

	// Confirming deletes once and re-fetches the list.
	_, body = h.post(t, "/app/confirm", nil)
	assert.Equal(t, 1, h.vault.deleteCalls)
	assert.NotContains(t, body, "old-vpn")
	assert.Contains(t, body, "mail")

	// A replayed confirm finds nothing pending.
	h.post(t, "/app/confirm", nil)
	assert.Equal(t, 1, h.vault.deleteCalls, "a confirmation executes at most once")
}

func TestCancelKeepsAccount(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{{ID: "7", Title: "old-vpn"}}
	h.login(t)

	h.post(t, "/app/accounts/delete", url.Values{"id": {"7"}, "title": {"old-vpn"}})
	_, body := h.post(t, "/app/cancel", nil)

	assert.Equal(t, 0, h.vault.deleteCalls)
	assert.Contains(t, body, "old-vpn")
}

func TestSecondDeleteRequestReplacesFirst(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{
		{ID: "7", Title: "first"},
		{ID: "8", Title: "second"},
	}
	h.login(t)

	h.post(t, "/app/accounts/delete", url.Values{"id": {"7"}, "title": {"first"}})
	_, body := h.post(t, "/app/accounts/delete", url.Values{"id": {"8"}, "title": {"second"}})
	assert.Contains(t, body, "second")

	_, body = h.post(t, "/app/confirm", nil)

	assert.Equal(t, 1, h.vault.deleteCalls)
	assert.Contains(t, body, "first", "the superseded target survives")
	assert.NotContains(t, body, `value="second"`)
}

func TestAddAccountRefetches(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.vault.accounts = []model.Account{{ID: "1", Title: "fresh-entry"}}

	_, body := h.post(t, "/app/accounts", url.Values{
		"title":            {"fresh-entry"},
		"user_account":     {"dev"},
		"password_account": {"pw"},
	})

	assert.Equal(t, 1, h.vault.addCalls)
	assert.Contains(t, body, "fresh-entry", "the rendered list comes from the re-fetch")
}

func TestFetchFailureFallsBackToSnapshot(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{{ID: "1", Title: "github"}}
	h.login(t)
	h.get(t, "/app")

	h.vault.mu.Lock()
	h.vault.fetchErr = &driven.APIError{StatusCode: 500, Message: "backend down"}
	h.vault.mu.Unlock()

	resp, body := h.get(t, "/app")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "github", "last-known list still renders")
	assert.Contains(t, body, "backend down")
}

func TestExpiredTokenEndsSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.get(t, "/app")

	h.vault.mu.Lock()
	h.vault.fetchErr = driven.ErrUnauthorized
	h.vault.mu.Unlock()

	resp, body := h.get(t, "/app")

	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "session has ended")

	// The cookie is gone; the next visit goes straight to login.
	resp, _ = h.get(t, "/app")
	assert.Equal(t, "/login", resp.Request.URL.Path)
}

func TestLogoutPurgesSnapshots(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{{ID: "1", Title: "github"}}
	h.login(t)
	h.get(t, "/app")

	count, err := h.snaps.Count(context.Background(), "dev", "accounts")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	h.post(t, "/logout", nil)

	count, err = h.snaps.Count(context.Background(), "dev", "accounts")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "cached secrets do not outlive the login")
}

func TestGroupDrillIn(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.post(t, "/app/tab", url.Values{"tab": {"groups"}})

	_, body := h.post(t, "/app/group/enter", url.Values{"group": {"platform"}})

	assert.Contains(t, body, "Shared accounts")
	assert.Contains(t, body, "wiki")
	assert.NotContains(t, body, "sharedpw", "shared secrets start masked too")
}

func TestGroupDescriptionRendersMarkdown(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, body := h.post(t, "/app/tab", url.Values{"tab": {"groups"}})

	assert.Contains(t, body, "<strong>infra</strong>")
}

func TestAdminRequiresAdminSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	resp, err := h.client.Get(h.server.URL + "/admin")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "a user token does not open the admin console")
}

func TestAdminDashboardAndDeleteUser(t *testing.T) {
	h := newHarness(t)
	h.admin.users = []model.User{
		{ID: "1", Username: "alice"},
		{ID: "2", Username: "bob"},
	}
	h.admin.groups = []model.Group{{Name: "platform", MemberCount: 2}}
	h.loginAdmin(t)

	_, body := h.get(t, "/admin")
	assert.Contains(t, body, "Overview")

	_, body = h.post(t, "/app/tab", url.Values{"tab": {"users"}})
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "bob")

	resp, _ := h.post(t, "/admin/users/delete", url.Values{"id": {"2"}, "username": {"bob"}})
	assert.Equal(t, "/admin/confirm", resp.Request.URL.Path, "admin confirmations stay under /admin")
	_, body = h.post(t, "/admin/confirm", nil)

	assert.Equal(t, 1, h.admin.deleteUsers)
	assert.NotContains(t, body, "bob", "the table reflects the re-fetched list")
}

func TestCreateGroupShowsBackendMessage(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	_, body := h.post(t, "/admin/groups", url.Values{
		"group_name": {"platform"},
		"usernames":  {"alice, bob"},
	})

	assert.Contains(t, body, "Group platform created successfully")
}

func TestHealthEndpoint(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get(t, "/api/v1/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"ok"`)
}

func TestStaticAssetsServed(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get(t, "/static/style.css")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(body, "--accent"), "stylesheet is embedded")
}

func TestProfileTilesCountAllResources(t *testing.T) {
	h := newHarness(t)
	h.vault.accounts = []model.Account{{ID: "1", Title: "github"}}
	h.login(t)

	// Straight to the profile without ever opening the groups tab.
	_, body := h.post(t, "/app/tab", url.Values{"tab": {"profile"}})

	assert.Contains(t, body, `<span class="num">1</span> accounts`)
	assert.Contains(t, body, `<span class="num">0</span> API keys`)
	assert.Contains(t, body, `<span class="num">1</span> groups`, "the tile counts what the backend reports, not just visited tabs")
}
