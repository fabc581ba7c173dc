package model

import "encoding/json"

// Account is a registered user.
// Credential is nil for accounts created by federated sign-in.
type Account struct {
	Username    string  `json:"username"`
	Credential  *string `json:"credential,omitempty"`
	DisplayName string  `json:"displayName"`
	IsAdmin     bool    `json:"isAdmin"`
}

// Matches reports whether the credential is set and equals credential exactly.
func (a *Account) Matches(credential string) bool {
	return a.Credential != nil && *a.Credential == credential
}

// Snapshot copies the identity fields into a detached Session.
func (a *Account) Snapshot() Session {
	display := a.DisplayName
	if display == "" {
		display = a.Username
	}
	return Session{
		Username:    a.Username,
		DisplayName: display,
		IsAdmin:     a.IsAdmin,
	}
}

type accountAlias Account

// UnmarshalJSON also accepts the "password" key of older records.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		accountAlias
		Password *string `json:"password"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Account(raw.accountAlias)
	if a.Credential == nil && raw.Password != nil {
		a.Credential = raw.Password
	}
	return nil
}
