package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"grader": {
		"grade:run",
	},
	"instructor": {
		"grade:run",
		"correction:record",
		"learning:view",
		"learning:clear",
	},
	"admin": {
		"*", // everything
	},
}
