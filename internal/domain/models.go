package domain

import (
	"net/http"
	"strings"
	"time"
)

// Capability is the unit of grantable permission on a route.
type Capability string

const (
	CapabilityRead    Capability = "read"
	CapabilityCreate  Capability = "create"
	CapabilityReplace Capability = "replace"
	CapabilityUpdate  Capability = "update"
	CapabilityDelete  Capability = "delete"
)

// CapabilityForMethod maps an HTTP verb to the capability flag it requires.
// The second return is false for verbs outside the fixed table.
func CapabilityForMethod(method string) (Capability, bool) {
	switch method {
	case http.MethodGet:
		return CapabilityRead, true
	case http.MethodPost:
		return CapabilityCreate, true
	case http.MethodPut:
		return CapabilityReplace, true
	case http.MethodPatch:
		return CapabilityUpdate, true
	case http.MethodDelete:
		return CapabilityDelete, true
	default:
		return "", false
	}
}

// AdminGroupName marks the group whose members bypass permission checks.
const AdminGroupName = "administrators"

// Permission grants capabilities on a (route, domain) pair. The same shape is
// embedded in groups and users and mirrored by the route registry.
type Permission struct {
	Route   string `json:"route"`
	Domain  string `json:"domain"`
	Active  bool   `json:"active"`
	Read    bool   `json:"read"`
	Create  bool   `json:"create"`
	Replace bool   `json:"replace"`
	Update  bool   `json:"update"`
	Delete  bool   `json:"delete"`
}

// Allows reports whether the entry is active and grants the capability.
func (p Permission) Allows(c Capability) bool {
	if !p.Active {
		return false
	}
	switch c {
	case CapabilityRead:
		return p.Read
	case CapabilityCreate:
		return p.Create
	case CapabilityReplace:
		return p.Replace
	case CapabilityUpdate:
		return p.Update
	case CapabilityDelete:
		return p.Delete
	default:
		return false
	}
}

// Matches reports whether the entry targets the given route and domain.
// Routes are normalized lower-case at write time, so the comparison folds case.
func (p Permission) Matches(route, domain string) bool {
	return strings.EqualFold(p.Route, route) && p.Domain == domain
}

type Progress struct {
	CourseID        string  `json:"course_id"`
	PercentComplete float64 `json:"percent_complete"`
}

type User struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	PasswordHash       string       `json:"-"`
	Active             bool         `json:"active"`
	Groups             []string     `json:"groups"`
	Permissions        []Permission `json:"permissions,omitempty"`
	RefreshToken       string       `json:"-"`
	RecoveryCode       string       `json:"-"`
	RecoveryToken      string       `json:"-"`
	RecoveryCodeExpiry time.Time    `json:"-"`
	CoursesIDs         []string     `json:"courses_ids"`
	Progress           []Progress   `json:"progress"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

type Group struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Active      bool         `json:"active"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the group is the active administrators group.
func (g Group) IsAdmin() bool {
	return g.Active && strings.EqualFold(g.Name, AdminGroupName)
}

// Route is one entry of the registry gating protected endpoints. Unique on
// (Route, Domain); Route is stored lower-cased and trimmed.
type Route struct {
	Route     string    `json:"route"`
	Domain    string    `json:"domain"`
	Active    bool      `json:"active"`
	Read      bool      `json:"read"`
	Create    bool      `json:"create"`
	Replace   bool      `json:"replace"`
	Update    bool      `json:"update"`
	Delete    bool      `json:"delete"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Allows reports whether the route itself accepts the capability. This is the
// route-level kill-switch, independent of any per-user grant.
func (r Route) Allows(c Capability) bool {
	p := Permission{
		Route: r.Route, Domain: r.Domain, Active: r.Active,
		Read: r.Read, Create: r.Create, Replace: r.Replace, Update: r.Update, Delete: r.Delete,
	}
	return p.Allows(c)
}

type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Lesson struct {
	CourseID  string    `json:"course_id"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	VideoURL  string    `json:"video_url"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Introspection is the response payload of the token status endpoint.
type Introspection struct {
	Active    bool   `json:"active"`
	ClientID  string `json:"client_id"`
	TokenType string `json:"token_type"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
	Nbf       int64  `json:"nbf"`
}
