package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	RoleUser              = "user"
	RoleAdmin             = "admin"
	RoleTherapist         = "therapist"
	RoleCaseManager       = "case_manager"
	RoleBilling           = "billing"
	RoleIntakeCoordinator = "intake_coordinator"
	RoleClinicalDirector  = "clinical_director"
	RoleProgramManager    = "program_manager"
	RoleQAOfficer         = "qa_officer"
)

// StaffRoles are the roles listed on the staff roster.
var StaffRoles = []string{RoleTherapist, RoleCaseManager, RoleClinicalDirector, RoleProgramManager, RoleQAOfficer}

// ClinicalRoles may create and change client records.
var ClinicalRoles = append([]string{RoleIntakeCoordinator}, StaffRoles...)

// ValidRole reports whether role is a known user role.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleTherapist, RoleCaseManager, RoleBilling,
		RoleIntakeCoordinator, RoleClinicalDirector, RoleProgramManager, RoleQAOfficer:
		return true
	}
	return false
}

// RequireAuth rejects anonymous requests.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := IdentityFromContext(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireRole returns middleware that checks if the user has at least one of the specified roles.
// Admin always passes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if HasAnyRole(RolesFromContext(c.Request().Context()), roles...) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// HasAnyRole reports whether granted includes admin or any of required.
func HasAnyRole(granted []string, required ...string) bool {
	for _, has := range granted {
		if has == RoleAdmin {
			return true
		}
		for _, r := range required {
			if has == r {
				return true
			}
		}
	}
	return false
}
