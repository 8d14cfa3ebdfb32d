package validation

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name       string
	GroupID    string
	PatientIDs []string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
// An empty patient list is legal: a team may start with no members.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	errs = requireText(errs, "name", req.Name)
	errs = requireUUID(errs, "groupId", req.GroupID)

	for _, id := range req.PatientIDs {
		id := id
		errs = optionalUUID(errs, "patientIds", &id)
	}

	return errs
}

// UpdateTeamRequest mirrors the fields needed for update team validation.
// Nil fields were omitted from the request body.
type UpdateTeamRequest struct {
	Name       *string
	GroupID    *string
	PatientIDs *[]string
}

// ValidateUpdateTeamRequest validates the fields of an update team request.
// Omitted fields are skipped; a present-but-empty patient list is legal (it
// clears the roster).
func ValidateUpdateTeamRequest(req UpdateTeamRequest) []FieldError {
	var errs []FieldError

	if req.Name != nil {
		errs = requireText(errs, "name", *req.Name)
	}
	errs = optionalUUID(errs, "groupId", req.GroupID)

	if req.PatientIDs != nil {
		for _, id := range *req.PatientIDs {
			id := id
			errs = optionalUUID(errs, "patientIds", &id)
		}
	}

	return errs
}
