package rbac

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Permission names one guarded action of the portal API.
type Permission string

const (
	PermProfileViewOwn  Permission = "profile:view-own"
	PermContentView     Permission = "content:view"
	PermContentViewAll  Permission = "content:view-all"
	PermContentViewKeys Permission = "content:view-keys"
	PermContentCreate   Permission = "content:create"
	PermContentSource   Permission = "content:source"
	PermAttemptSubmit   Permission = "attempt:submit"
	PermScoresViewOwn   Permission = "scores:view-own"
	PermScoresViewAll   Permission = "scores:view-all"
	PermStudentsList    Permission = "students:list"
	PermStudentsDelete  Permission = "students:delete"
	PermAnalyticsView   Permission = "analytics:view"
	PermEventsView      Permission = "events:view"
)

// AllPermissions lists every permission the API checks.
var AllPermissions = []Permission{
	PermProfileViewOwn,
	PermContentView,
	PermContentViewAll,
	PermContentViewKeys,
	PermContentCreate,
	PermContentSource,
	PermAttemptSubmit,
	PermScoresViewOwn,
	PermScoresViewAll,
	PermStudentsList,
	PermStudentsDelete,
	PermAnalyticsView,
	PermEventsView,
}

// Policy maps a role to the set of permissions it holds. Roles absent from
// the policy hold nothing.
type Policy map[string]map[Permission]bool

func NewPolicy(grants map[string][]Permission) Policy {
	p := make(Policy, len(grants))
	for role, perms := range grants {
		set := make(map[Permission]bool, len(perms))
		for _, perm := range perms {
			set[perm] = true
		}
		p[role] = set
	}
	return p
}

// DefaultPolicy is what the HTTP API enforces. Students take and review
// their own work; admins hold every permission.
var DefaultPolicy = NewPolicy(map[string][]Permission{
	RoleStudent: {
		PermProfileViewOwn,
		PermContentView,
		PermAttemptSubmit,
		PermScoresViewOwn,
	},
	RoleAdmin: AllPermissions,
})

// Known reports whether the policy defines role.
func (p Policy) Known(role string) bool {
	_, ok := p[role]
	return ok
}

// Allows reports whether role holds at least one of perms.
func (p Policy) Allows(role string, perms ...Permission) bool {
	set := p[role]
	for _, perm := range perms {
		if set[perm] {
			return true
		}
	}
	return false
}
