package auth

import (
	"net/http"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resume-service/internal/domain"
)

// Resource names a kind of governed record.
type Resource string

const (
	ResourceResume  Resource = "resume"
	ResourceComment Resource = "comment"
)

// Mutable fields per resource.
const (
	FieldStatus  = "status"
	FieldTitle   = "title"
	FieldIntro   = "intro"
	FieldExp     = "exp"
	FieldSkill   = "skill"
	FieldContent = "content"
)

type fieldSet map[string]struct{}

func newFieldSet(fields ...string) fieldSet {
	set := make(fieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// mutableFields is the field allow-list by role. Users edit their own records;
// admins may only move a resume's status, on any resume.
var mutableFields = map[domain.Role]map[Resource]fieldSet{
	domain.RoleUser: {
		ResourceResume:  newFieldSet(FieldStatus, FieldTitle, FieldIntro, FieldExp, FieldSkill),
		ResourceComment: newFieldSet(FieldContent),
	},
	domain.RoleAdmin: {
		ResourceResume: newFieldSet(FieldStatus),
	},
}

// FieldAllowed reports whether role may write field on resource.
func FieldAllowed(role domain.Role, resource Resource, field string) bool {
	_, ok := mutableFields[role][resource][field]
	return ok
}

// AuthorizeMutation applies the owner and admin rules to a write touching
// fields of a record owned by ownerID. Any disallowed field rejects the whole
// write.
func AuthorizeMutation(session *ResolvedSession, resource Resource, ownerID int64, fields []string) error {
	if session == nil || session.Identity == nil {
		return &ForbiddenError{Reason: "authenticated user required"}
	}
	role := session.Identity.Role
	if role != domain.RoleAdmin && session.Identity.ID != ownerID {
		return &ForbiddenError{Reason: "only the owner may modify this " + string(resource)}
	}

	var denied []string
	for _, field := range fields {
		if !FieldAllowed(role, resource, field) {
			denied = append(denied, field)
		}
	}
	if len(denied) > 0 {
		sort.Strings(denied)
		return &ForbiddenError{Reason: "role " + string(role) + " may not modify these fields", Fields: denied}
	}
	return nil
}

// AuthorizeDelete allows only the owner to delete a record.
func AuthorizeDelete(session *ResolvedSession, resource Resource, ownerID int64) error {
	if session == nil || session.Identity == nil {
		return &ForbiddenError{Reason: "authenticated user required"}
	}
	if session.Identity.ID != ownerID {
		return &ForbiddenError{Reason: "only the owner may delete this " + string(resource)}
	}
	return nil
}

// RequireRole ensures the resolved session carries one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if _, exists := allowedSet[session.Identity.Role]; !exists {
			return PolicyFailure(&ForbiddenError{Reason: "insufficient role"})
		}
		return c.Next()
	}
}
