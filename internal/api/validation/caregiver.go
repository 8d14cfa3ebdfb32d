package validation

// CreateCaregiverRequest mirrors the fields needed for create caregiver validation.
type CreateCaregiverRequest struct {
	Document            string
	FullName            string
	Gender              string
	Canton              string
	Parish              string
	ZoneType            string
	Address             string
	Reference           string
	PatientRelationship string
}

// ValidateCreateCaregiverRequest validates the fields of a create caregiver request.
func ValidateCreateCaregiverRequest(req CreateCaregiverRequest) []FieldError {
	var errs []FieldError

	errs = requireText(errs, "document", req.Document)
	errs = requireText(errs, "fullName", req.FullName)
	errs = requireGender(errs, "gender", req.Gender)
	errs = requireText(errs, "canton", req.Canton)
	errs = requireText(errs, "parish", req.Parish)
	errs = requireText(errs, "zoneType", req.ZoneType)
	errs = requireText(errs, "address", req.Address)
	errs = requireText(errs, "reference", req.Reference)
	errs = requireText(errs, "patientRelationship", req.PatientRelationship)

	return errs
}
