package domain

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

// HostKey identifies the person financially responsible for a stay. Ledgers
// are computed per host key, not per family group.
type HostKey string

const (
	hostKeyEmail   = "email:"
	hostKeyUser    = "user:"
	hostKeyAccount = "account:"
)

func (k HostKey) String() string { return string(k) }

// Isolated reports whether the key could not be resolved to a person and
// stands for a single-entry ledger.
func (k HostKey) Isolated() bool {
	return strings.HasPrefix(string(k), hostKeyAccount)
}

// HostKey resolves the stay's responsible host: first host assignment's
// email, then owning user id, then an isolated per-stay key.
func (s Stay) HostKey() HostKey {
	email := ""
	if len(s.HostAssignments) > 0 {
		email = s.HostAssignments[0].Email
	}
	return ResolveHostKey(s.OrgID, "stay:"+s.ID.String(), email, s.OwnerUserID)
}

// ResolveHostKey is the single resolution rule for every ledger entry. ref
// names the entry in the isolated fallback.
func ResolveHostKey(orgID snowflake.ID, ref, email, userID string) HostKey {
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		return HostKey(hostKeyEmail + e)
	}
	if u := strings.TrimSpace(userID); u != "" {
		return HostKey(hostKeyUser + u)
	}
	return HostKey(hostKeyAccount + orgID.String() + ":" + ref)
}
