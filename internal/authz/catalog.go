package authz

// Category groups catalog permissions for display.
type Category string

// Categories in fixed display order.
const (
	CategoryUserManagement Category = "user_management"
	CategoryClubManagement Category = "club_management"
	CategoryTaskManagement Category = "task_management"
	CategoryFileManagement Category = "file_management"
	CategorySystem         Category = "system"
)

// Permission names. The catalog below is the closed set of recognised names;
// adding one is a change here, never a runtime mutation.
const (
	PermViewUsers         = "VIEW_USERS"
	PermEditUser          = "EDIT_USER"
	PermDeactivateUser    = "DEACTIVATE_USER"
	PermAssignRole        = "ASSIGN_ROLE"
	PermManagePermissions = "MANAGE_PERMISSIONS"

	PermCreateClub      = "CREATE_CLUB"
	PermEditClub        = "EDIT_CLUB"
	PermDeleteClub      = "DELETE_CLUB"
	PermManageMembers   = "MANAGE_MEMBERS"
	PermScheduleMeeting = "SCHEDULE_MEETING"

	PermCreateTask   = "CREATE_TASK"
	PermAssignTask   = "ASSIGN_TASK"
	PermEditTask     = "EDIT_TASK"
	PermCompleteTask = "COMPLETE_TASK"

	PermUploadFile = "UPLOAD_FILE"
	PermDeleteFile = "DELETE_FILE"

	PermViewAuditLog     = "VIEW_AUDIT_LOG"
	PermSendAnnouncement = "SEND_ANNOUNCEMENT"
)

// CatalogEntry describes one recognised permission.
type CatalogEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

var catalog = []CatalogEntry{
	{PermViewUsers, "View user accounts and profiles", CategoryUserManagement},
	{PermEditUser, "Edit user profile details", CategoryUserManagement},
	{PermDeactivateUser, "Deactivate user accounts", CategoryUserManagement},
	{PermAssignRole, "Change a user's role", CategoryUserManagement},
	{PermManagePermissions, "Grant and revoke user permissions", CategoryUserManagement},

	{PermCreateClub, "Create a new club", CategoryClubManagement},
	{PermEditClub, "Edit club details", CategoryClubManagement},
	{PermDeleteClub, "Delete a club", CategoryClubManagement},
	{PermManageMembers, "Approve, remove and manage club members", CategoryClubManagement},
	{PermScheduleMeeting, "Schedule and manage club meetings", CategoryClubManagement},

	{PermCreateTask, "Create tasks", CategoryTaskManagement},
	{PermAssignTask, "Assign tasks to members", CategoryTaskManagement},
	{PermEditTask, "Edit task details", CategoryTaskManagement},
	{PermCompleteTask, "Mark tasks as completed", CategoryTaskManagement},

	{PermUploadFile, "Upload files", CategoryFileManagement},
	{PermDeleteFile, "Delete files", CategoryFileManagement},

	{PermViewAuditLog, "View the audit log", CategorySystem},
	{PermSendAnnouncement, "Send system-wide announcements", CategorySystem},
}

var catalogByName = func() map[string]CatalogEntry {
	m := make(map[string]CatalogEntry, len(catalog))
	for _, e := range catalog {
		m[e.Name] = e
	}
	return m
}()

// IsKnown reports whether name is part of the catalog.
func IsKnown(name string) bool {
	_, ok := catalogByName[name]
	return ok
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (CatalogEntry, bool) {
	e, ok := catalogByName[name]
	return e, ok
}

// Catalog returns every entry in declaration order.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// Categories returns the fixed display order of categories.
func Categories() []Category {
	return []Category{
		CategoryUserManagement,
		CategoryClubManagement,
		CategoryTaskManagement,
		CategoryFileManagement,
		CategorySystem,
	}
}

// ListByCategory groups catalog entries by category, preserving declaration
// order within each category.
func ListByCategory() map[Category][]CatalogEntry {
	out := make(map[Category][]CatalogEntry, 5)
	for _, e := range catalog {
		out[e.Category] = append(out[e.Category], e)
	}
	return out
}
