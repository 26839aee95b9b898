package models

// User roles.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEditor   = "editor"
	RoleCustomer = "customer"
)

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on_hold"
	ProjectCancelled = "cancelled"
)

// Job statuses.
const (
	JobOpen       = "open"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

// NDT inspection methods.
const (
	MethodUT = "UT" // ultrasonic
	MethodRT = "RT" // radiographic
	MethodPT = "PT" // penetrant
	MethodMT = "MT" // magnetic particle
	MethodVT = "VT" // visual
	MethodET = "ET" // eddy current
	MethodLT = "LT" // leak
)

// Document types.
const (
	DocReport      = "report"
	DocCertificate = "certificate"
	DocImage       = "image"
	DocVideo       = "video"
	DocOther       = "other"
)

// Document statuses.
const (
	DocDraft    = "draft"
	DocFinal    = "final"
	DocArchived = "archived"
)

// Entity family names used for change notification channels.
const (
	FamilyOrganizations = "organizations"
	FamilyProfiles      = "user_profiles"
	FamilyCustomers     = "customers"
	FamilyProjects      = "projects"
	FamilyJobs          = "jobs"
	FamilyDocuments     = "documents"
	FamilyVersions      = "document_versions"
)

var validMethods = map[string]bool{
	MethodUT: true, MethodRT: true, MethodPT: true, MethodMT: true,
	MethodVT: true, MethodET: true, MethodLT: true,
}

// ValidMethod reports whether m is one of the enumerated NDT technique codes.
func ValidMethod(m string) bool {
	return validMethods[m]
}
