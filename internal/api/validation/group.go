package validation

// CreateGroupRequest mirrors the fields needed for create group validation.
type CreateGroupRequest struct {
	Name string
}

// ValidateCreateGroupRequest validates the fields of a create group request.
func ValidateCreateGroupRequest(req CreateGroupRequest) []FieldError {
	return requireText(nil, "name", req.Name)
}

// ValidateCreateCareerRequest validates the fields of a create career request.
// Careers share the group shape: a single unique name.
func ValidateCreateCareerRequest(name string) []FieldError {
	return requireText(nil, "name", name)
}
