package application

import (
	"context"
	"fmt"

	"github.com/frozpass/vaultpanel/internal/domain/model"
	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// Snapshot resource names. User-scoped and group-scoped listings use
// distinct names, so a user and a group sharing a name cannot shadow each
// other's cache entries.
const (
	resAccounts     = "accounts"
	resAPIKeys      = "api-keys"
	resGroups       = "groups"
	resGroupAccts   = "group-accounts"
	resGroupAPIKeys = "group-api-keys"
)

// VaultService orchestrates the user-facing synchronization flows: identity
// resolution, resource refreshes, and mutations followed by an authoritative
// re-fetch of the affected list. Lists are never patched locally; after any
// create or delete the server is re-read so the client cannot drift from
// the source of truth.
type VaultService struct {
	client driven.VaultClient

	accounts     *Resource[model.Account]
	apiKeys      *Resource[model.APIKey]
	groups       *Resource[model.Group]
	groupAccts   *Resource[model.GroupAccount]
	groupAPIKeys *Resource[model.GroupAPIKey]
}

// NewVaultService creates a VaultService over the given client and snapshot
// store.
func NewVaultService(client driven.VaultClient, snaps driven.SnapshotStore) *VaultService {
	return &VaultService{
		client:       client,
		accounts:     NewResource(resAccounts, snaps, client.Accounts),
		apiKeys:      NewResource(resAPIKeys, snaps, client.APIKeys),
		groups:       NewResource(resGroups, snaps, client.Groups),
		groupAccts:   NewResource(resGroupAccts, snaps, client.GroupAccounts),
		groupAPIKeys: NewResource(resGroupAPIKeys, snaps, client.GroupAPIKeys),
	}
}

// Identity resolves the username behind a token.
func (s *VaultService) Identity(ctx context.Context, token string) (string, error) {
	username, err := s.client.Me(ctx, token)
	if err != nil {
		return "", fmt.Errorf("resolve identity: %w", err)
	}
	return username, nil
}

// Register creates a new user account. Password confirmation is checked
// here so a mismatch never reaches the backend.
func (s *VaultService) Register(ctx context.Context, username, password, confirm string) error {
	if err := requireFields(
		field{"username", username},
		field{"password", password},
	); err != nil {
		return err
	}
	if password != confirm {
		return &ValidationError{Field: "confirm_password"}
	}
	return s.client.Register(ctx, username, password)
}

// Login authenticates a user.
func (s *VaultService) Login(ctx context.Context, username, password string) (model.Session, error) {
	if err := requireFields(
		field{"username", username},
		field{"password", password},
	); err != nil {
		return model.Session{}, err
	}
	return s.client.Login(ctx, username, password)
}

// FetchAccounts refreshes the user's account list.
func (s *VaultService) FetchAccounts(ctx context.Context, token, username string) (Result[model.Account], error) {
	return s.accounts.Refresh(ctx, token, username)
}

// FetchAPIKeys refreshes the user's API key list.
func (s *VaultService) FetchAPIKeys(ctx context.Context, token, username string) (Result[model.APIKey], error) {
	return s.apiKeys.Refresh(ctx, token, username)
}

// FetchGroups refreshes the user's group memberships.
func (s *VaultService) FetchGroups(ctx context.Context, token, username string) (Result[model.Group], error) {
	return s.groups.Refresh(ctx, token, username)
}

// FetchGroupAccounts refreshes the shared accounts of one group.
func (s *VaultService) FetchGroupAccounts(ctx context.Context, token, groupName string) (Result[model.GroupAccount], error) {
	return s.groupAccts.Refresh(ctx, token, groupName)
}

// FetchGroupAPIKeys refreshes the shared API keys of one group.
func (s *VaultService) FetchGroupAPIKeys(ctx context.Context, token, groupName string) (Result[model.GroupAPIKey], error) {
	return s.groupAPIKeys.Refresh(ctx, token, groupName)
}

// Counts holds the dashboard summary tile numbers, sourced from snapshot
// counts so a tile never blocks on a live fetch.
type Counts struct {
	Accounts int
	APIKeys  int
	Groups   int
}

// Counts returns the summary tile counts for a user.
func (s *VaultService) Counts(ctx context.Context, username string) Counts {
	return Counts{
		Accounts: s.accounts.Count(ctx, username),
		APIKeys:  s.apiKeys.Count(ctx, username),
		Groups:   s.groups.Count(ctx, username),
	}
}

// AddAccount validates, creates the account, and re-fetches the list.
func (s *VaultService) AddAccount(ctx context.Context, token string, acct model.NewAccount) (Result[model.Account], error) {
	if err := requireFields(
		field{"title", acct.Title},
		field{"user_account", acct.UserAccount},
		field{"password_account", acct.PasswordAccount},
	); err != nil {
		return Result[model.Account]{}, err
	}

	if err := s.client.AddAccount(ctx, token, acct); err != nil {
		return Result[model.Account]{}, err
	}
	return s.FetchAccounts(ctx, token, acct.Username)
}

// AddAPIKey validates, creates the API key, and re-fetches the list.
func (s *VaultService) AddAPIKey(ctx context.Context, token string, key model.NewAPIKey) (Result[model.APIKey], error) {
	if err := requireFields(
		field{"title", key.Title},
		field{"api_key", key.Key},
	); err != nil {
		return Result[model.APIKey]{}, err
	}

	if err := s.client.AddAPIKey(ctx, token, key); err != nil {
		return Result[model.APIKey]{}, err
	}
	return s.FetchAPIKeys(ctx, token, key.Username)
}

// AddGroupAccount validates, creates the shared account, and re-fetches the
// group's account list.
func (s *VaultService) AddGroupAccount(ctx context.Context, token string, acct model.NewGroupAccount) (Result[model.GroupAccount], error) {
	if err := requireFields(
		field{"group_name", acct.GroupName},
		field{"title", acct.Title},
		field{"user_account", acct.UserAccount},
		field{"password_account", acct.PasswordAccount},
		field{"url", acct.URL},
	); err != nil {
		return Result[model.GroupAccount]{}, err
	}

	if err := s.client.AddGroupAccount(ctx, token, acct); err != nil {
		return Result[model.GroupAccount]{}, err
	}
	return s.FetchGroupAccounts(ctx, token, acct.GroupName)
}

// AddGroupAPIKey validates, creates the shared API key, and re-fetches the
// group's key list.
func (s *VaultService) AddGroupAPIKey(ctx context.Context, token string, key model.NewGroupAPIKey) (Result[model.GroupAPIKey], error) {
	if err := requireFields(
		field{"group_name", key.GroupName},
		field{"title", key.Title},
		field{"api_key", key.Key},
	); err != nil {
		return Result[model.GroupAPIKey]{}, err
	}

	if err := s.client.AddGroupAPIKey(ctx, token, key); err != nil {
		return Result[model.GroupAPIKey]{}, err
	}
	return s.FetchGroupAPIKeys(ctx, token, key.GroupName)
}

// DeleteAccount deletes one account and re-fetches the list.
func (s *VaultService) DeleteAccount(ctx context.Context, token, username, id string) (Result[model.Account], error) {
	if err := s.client.DeleteAccount(ctx, token, id); err != nil {
		return Result[model.Account]{}, err
	}
	return s.FetchAccounts(ctx, token, username)
}

// DeleteAPIKey deletes one API key and re-fetches the list.
func (s *VaultService) DeleteAPIKey(ctx context.Context, token, username, id string) (Result[model.APIKey], error) {
	if err := s.client.DeleteAPIKey(ctx, token, id); err != nil {
		return Result[model.APIKey]{}, err
	}
	return s.FetchAPIKeys(ctx, token, username)
}
