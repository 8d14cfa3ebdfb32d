package validation

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	Document string
	Email    string
	Password string
	Name     string
	LastName string
	CareerID *string
}

// ValidateCreateUserRequest validates the fields of a create user request.
func ValidateCreateUserRequest(req CreateUserRequest) []FieldError {
	var errs []FieldError

	errs = requireText(errs, "document", req.Document)

	if req.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(req.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	if len(req.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}

	errs = requireText(errs, "name", req.Name)
	errs = requireText(errs, "lastName", req.LastName)
	errs = optionalUUID(errs, "careerId", req.CareerID)

	return errs
}
