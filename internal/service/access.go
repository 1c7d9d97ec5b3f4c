package service

import "hotelbook/internal/models"

// RequireRole passes when caller is authenticated and holds at least one of
// anyOf. An empty anyOf admits any authenticated caller.
func RequireRole(caller *models.Caller, anyOf ...models.Role) error {
	if !caller.Authenticated() {
		return models.ErrUnauthenticated
	}
	if !caller.HasAny(anyOf...) {
		return models.ErrInsufficientRole
	}
	return nil
}

// requireUser is RequireRole for operations that act on the caller's own bookings;
// API-key service callers have no user to own them.
func requireUser(caller *models.Caller) error {
	if err := RequireRole(caller); err != nil {
		return err
	}
	if !caller.IsUser() {
		return models.ErrInsufficientRole
	}
	return nil
}

func requireStaff(caller *models.Caller) error {
	return RequireRole(caller, models.RoleManager, models.RoleAdmin)
}
