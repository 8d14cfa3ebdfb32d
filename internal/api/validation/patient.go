package validation

import "time"

// CreatePatientRequest mirrors the fields needed for create patient validation.
type CreatePatientRequest struct {
	Document             string
	Name                 string
	LastName             string
	Gender               string
	Birthday             string
	TypeBeneficiary      string
	TypeDisability       string
	PercentageDisability int
	Zone                 string
	CaregiverID          string
}

// ValidateCreatePatientRequest validates the fields of a create patient request.
func ValidateCreatePatientRequest(req CreatePatientRequest) []FieldError {
	var errs []FieldError

	errs = requireText(errs, "document", req.Document)
	errs = requireText(errs, "name", req.Name)
	errs = requireText(errs, "lastName", req.LastName)
	errs = requireGender(errs, "gender", req.Gender)

	if req.Birthday == "" {
		errs = append(errs, FieldError{Field: "birthday", Message: "birthday is required"})
	} else if _, err := time.Parse("2006-01-02", req.Birthday); err != nil {
		errs = append(errs, FieldError{Field: "birthday", Message: "birthday must be a date in YYYY-MM-DD format"})
	}

	errs = requireText(errs, "typeBeneficiary", req.TypeBeneficiary)
	errs = requireText(errs, "typeDisability", req.TypeDisability)

	if req.PercentageDisability < 0 || req.PercentageDisability > 100 {
		errs = append(errs, FieldError{Field: "percentageDisability", Message: "percentageDisability must be between 0 and 100"})
	}

	errs = requireText(errs, "zone", req.Zone)
	errs = requireUUID(errs, "caregiverId", req.CaregiverID)

	return errs
}
