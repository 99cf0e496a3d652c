// Package roles deriva el rol de un usuario y decide qué acciones puede hacer.
package roles

import "strings"

type Role string

const (
	Citizen        Role = "citizen"
	MunicipalStaff Role = "municipal_staff"
	Administrator  Role = "administrator"
)

func Parse(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case Citizen:
		return Citizen, true
	case MunicipalStaff, "municipal", "staff":
		return MunicipalStaff, true
	case Administrator, "admin":
		return Administrator, true
	default:
		return "", false
	}
}

// Policy define cómo se clasifica un email cuando el token no trae rol.
type Policy struct {
	AdminEmails    []string
	AdminDomains   []string
	AdminSubstring string
	StaffDomains   []string
}

func DefaultPolicy() Policy {
	return Policy{
		AdminEmails: []string{
			"admin@hyvoice.com",
			"administrator@hyvoice.com",
			"superadmin@hyvoice.com",
		},
		AdminDomains:   []string{"@hyvoice.com"},
		AdminSubstring: "admin",
		StaffDomains: []string{
			"@ghmc.gov.in",
			"@hyderabad.gov.in",
			"@telangana.gov.in",
			"@municipal.com",
		},
	}
}

// Merge reemplaza las listas no vacías de o sobre p.
func (p Policy) Merge(o Policy) Policy {
	if len(o.AdminEmails) > 0 {
		p.AdminEmails = o.AdminEmails
	}
	if len(o.AdminDomains) > 0 {
		p.AdminDomains = o.AdminDomains
	}
	if o.AdminSubstring != "" {
		p.AdminSubstring = o.AdminSubstring
	}
	if len(o.StaffDomains) > 0 {
		p.StaffDomains = o.StaffDomains
	}
	return p
}

// Classify es puro y no distingue mayúsculas. Administrador gana sobre staff.
func (p Policy) Classify(email string) Role {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return Citizen
	}

	if sub := strings.ToLower(p.AdminSubstring); sub != "" && strings.Contains(e, sub) {
		return Administrator
	}
	for _, a := range p.AdminEmails {
		if e == strings.ToLower(strings.TrimSpace(a)) {
			return Administrator
		}
	}
	if hasDomain(e, p.AdminDomains) {
		return Administrator
	}
	if hasDomain(e, p.StaffDomains) {
		return MunicipalStaff
	}
	return Citizen
}

func Classify(email string) Role {
	return DefaultPolicy().Classify(email)
}

// Resolve: un rol afirmado por el token verificado gana; el email es fallback.
func Resolve(claimed, email string, p Policy) Role {
	if r, ok := Parse(claimed); ok {
		return r
	}
	return p.Classify(email)
}

func hasDomain(email string, domains []string) bool {
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if !strings.HasPrefix(d, "@") {
			d = "@" + d
		}
		if strings.HasSuffix(email, d) {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionReport          Action = "grievances:report"
	ActionView            Action = "grievances:view"
	ActionUpdate          Action = "grievances:update"
	ActionForceTransition Action = "grievances:force"
	ActionDelete          Action = "grievances:delete"
	ActionBulk            Action = "grievances:bulk"
	ActionExport          Action = "grievances:export"
)

var capabilities = map[Role][]Action{
	Citizen:        {ActionReport, ActionView},
	MunicipalStaff: {ActionReport, ActionView, ActionUpdate, ActionBulk, ActionExport},
	Administrator: {
		ActionReport, ActionView, ActionUpdate, ActionForceTransition,
		ActionDelete, ActionBulk, ActionExport,
	},
}

func Can(r Role, a Action) bool {
	for _, x := range capabilities[r] {
		if x == a {
			return true
		}
	}
	return false
}

// Privileged indica acceso al panel de gestión (staff o admin).
func (r Role) Privileged() bool {
	return r == MunicipalStaff || r == Administrator
}
