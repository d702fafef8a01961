package rbac

// Permission is "<resource>:<action>". A grant of "<resource>:*" covers
// every action on the resource and PermAll covers everything.
type Permission string

const (
	PermCourseView        Permission = "course:view"
	PermCatalogWrite      Permission = "catalog:write"
	PermEnrollmentCreate  Permission = "enrollment:create"
	PermEnrollmentViewOwn Permission = "enrollment:view-own"
	PermProgressRecord    Permission = "progress:record"
	PermQuizTake          Permission = "quiz:take"
	PermCertificateIssue  Permission = "certificate:issue"
	PermEventsView        Permission = "events:view"

	PermAll Permission = "*"
)

const (
	RoleLearner    = "learner"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]Permission{
	RoleLearner: {
		PermCourseView,
		PermEnrollmentCreate,
		PermEnrollmentViewOwn,
		PermProgressRecord,
		PermQuizTake,
		PermCertificateIssue,
	},
	RoleInstructor: {
		PermCourseView,
		PermCatalogWrite,
		PermEventsView,
	},
	RoleAdmin: {PermAll},
}
