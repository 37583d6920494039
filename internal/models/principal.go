package models

import "strings"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCoach:
		return RoleCoach, true
	case RoleClient:
		return RoleClient, true
	default:
		return "", false
	}
}

type Capability string

const (
	CapabilityAdminister     Capability = "administer"
	CapabilityManageSessions Capability = "manage_sessions"
	CapabilityBrowseSessions Capability = "browse_sessions"
	CapabilityBookSessions   Capability = "book_sessions"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: {
		CapabilityAdminister: {},
	},
	RoleCoach: {
		CapabilityManageSessions: {},
	},
	RoleClient: {
		CapabilityBrowseSessions: {},
		CapabilityBookSessions:   {},
	},
}

// Principal is the authenticated caller. It is built once per request from the
// bearer token and passed explicitly to every operation that needs it.
type Principal struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

func (p Principal) Can(capability Capability) bool {
	if p.ID <= 0 {
		return false
	}
	_, ok := roleCapabilities[p.Role][capability]
	return ok
}

func (p Principal) Is(role Role) bool {
	return p.ID > 0 && p.Role == role
}
