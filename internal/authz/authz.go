// Package authz answers capability questions about an already-authenticated
// actor. Authentication itself happens upstream; handlers receive actor
// identity via trusted headers and ask this package what the actor may do.
package authz

// Role is the actor's position in the marketplace.
type Role string

// Known roles.
const (
	RoleInternal    Role = "internal"
	RoleClient      Role = "client"
	RoleInterviewer Role = "interviewer"
)

// Actor is the authenticated caller.
type Actor struct {
	ID             string
	Role           Role
	OrganizationID string
}

// Resource identifies the thing being acted on. OwnerID is the interviewer
// for slots and feedback; OrganizationID is the owning client where relevant.
type Resource struct {
	Kind           Kind
	OwnerID        string
	OrganizationID string
}

// Kind enumerates protected resource types.
type Kind string

// Resource kinds.
const (
	KindAvailability Kind = "availability"
	KindScheduling   Kind = "scheduling"
	KindFeedback     Kind = "feedback"
	KindBilling      Kind = "billing"
)

// CanModify reports whether the actor may mutate the resource. Internal
// operators may modify anything; interviewers own their slots and feedback;
// clients drive scheduling for their own organization.
func CanModify(actor Actor, resource Resource) bool {
	if actor.Role == RoleInternal {
		return true
	}
	switch resource.Kind {
	case KindAvailability, KindFeedback:
		return actor.Role == RoleInterviewer && actor.ID != "" && actor.ID == resource.OwnerID
	case KindScheduling:
		return actor.Role == RoleClient && actor.OrganizationID != "" &&
			actor.OrganizationID == resource.OrganizationID
	case KindBilling:
		return false
	}
	return false
}

// CanView reports whether the actor may read the resource. Billing records
// are visible to the owning client or the paid interviewer; feedback is also
// visible to the client organization that owns the candidate.
func CanView(actor Actor, resource Resource) bool {
	if CanModify(actor, resource) {
		return true
	}
	switch resource.Kind {
	case KindBilling:
		switch actor.Role {
		case RoleClient:
			return actor.OrganizationID != "" && actor.OrganizationID == resource.OrganizationID
		case RoleInterviewer:
			return actor.ID != "" && actor.ID == resource.OwnerID
		}
	case KindFeedback:
		return actor.Role == RoleClient && actor.OrganizationID != "" &&
			actor.OrganizationID == resource.OrganizationID
	}
	return false
}
