// Package model defines domain entities used by the registry, store and services.
package model

// Profile is the resolved identity of one contact.
type Profile struct {
	URI         string `json:"uri" toml:"uri"`                   // stable contact id, registry key
	DisplayName string `json:"display_name" toml:"display_name"` // from the card's FN line
	Username    string `json:"username" toml:"username"`         // from a directory lookup
}

// BestName returns the display name, else the username, else the URI.
func (p Profile) BestName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Username != "" {
		return p.Username
	}
	return p.URI
}

// TransferKey addresses one file transfer's local path.
type TransferKey struct {
	AccountID      string
	ConversationID string
	TransferID     string
}

// Valid reports whether every key part is set.
func (k TransferKey) Valid() bool {
	return k.AccountID != "" && k.ConversationID != "" && k.TransferID != ""
}

func (k TransferKey) String() string {
	return k.AccountID + "/" + k.ConversationID + "/" + k.TransferID
}
