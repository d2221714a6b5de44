package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"manager role", RoleManager, true},
		{"operator role", RoleOperator, true},
		{"viewer role", RoleViewer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	manager := &User{Role: RoleManager}
	operator := &User{Role: RoleOperator}
	viewer := &User{Role: RoleViewer}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Admin permissions - should have all permissions
		{"admin can delete user", admin, "delete_user", true},
		{"admin can manage users", admin, "manage_users", true},
		{"admin can run maintenance", admin, "admin_maintenance", true},
		{"admin can create rental", admin, "create_rental", true},

		// Manager permissions - everything except user and database management
		{"manager cannot delete user", manager, "delete_user", false},
		{"manager cannot manage users", manager, "manage_users", false},
		{"manager cannot run maintenance", manager, "admin_maintenance", false},
		{"manager can create rental", manager, "create_rental", true},
		{"manager can delete car", manager, "delete_car", true},

		// Operator permissions - day-to-day desk work
		{"operator can view cars", operator, "view_cars", true},
		{"operator can view rentals", operator, "view_rentals", true},
		{"operator can create rental", operator, "create_rental", true},
		{"operator can update rental", operator, "update_rental", true},
		{"operator can create reminder", operator, "create_reminder", true},
		{"operator can update reminder", operator, "update_reminder", true},
		{"operator cannot delete car", operator, "delete_car", false},
		{"operator cannot run maintenance", operator, "admin_maintenance", false},

		// Viewer permissions - read-only access
		{"viewer can view cars", viewer, "view_cars", true},
		{"viewer can view rentals", viewer, "view_rentals", true},
		{"viewer can view reminders", viewer, "view_reminders", true},
		{"viewer can view dashboard", viewer, "view_dashboard", true},
		{"viewer cannot create rental", viewer, "create_rental", false},
		{"viewer cannot update rental", viewer, "update_rental", false},
		{"viewer cannot delete user", viewer, "delete_user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}

func TestUser_StructFields(t *testing.T) {
	now := time.Now()
	user := &User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         RoleAdmin,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if user.Username != "testuser" {
		t.Errorf("Expected Username to be 'testuser', got %s", user.Username)
	}
	if user.Role != RoleAdmin {
		t.Errorf("Expected Role to be RoleAdmin, got %s", user.Role)
	}
	if !user.IsActive {
		t.Errorf("Expected IsActive to be true, got %v", user.IsActive)
	}
	if user.LastLogin == nil {
		t.Errorf("Expected LastLogin to be set, got nil")
	}
}
