package models

import (
	"encoding/json"
	"net/url"
)

// Category is the single-select admission category enum.
type Category string

// Admission categories
const (
	CategoryGeneral      Category = "General"
	CategoryOBC          Category = "OBC"
	CategorySC           Category = "SC"
	CategoryST           Category = "ST"
	CategoryEWS          Category = "EWS"
	CategoryExServiceman Category = "Ex-Serviceman"
	CategoryPH           Category = "PH"
)

// Categories lists the selectable admission categories in display order.
func Categories() []Category {
	return []Category{
		CategoryGeneral, CategoryOBC, CategorySC, CategoryST,
		CategoryEWS, CategoryExServiceman, CategoryPH,
	}
}

// Medium is the single-select teaching medium enum.
type Medium string

// Teaching mediums
const (
	MediumHindi   Medium = "Hindi"
	MediumEnglish Medium = "English"
)

// Mediums lists the selectable teaching mediums.
func Mediums() []Medium {
	return []Medium{MediumHindi, MediumEnglish}
}

// Registration is a formal admission record as returned by the list and
// detail endpoints.
type Registration struct {
	ID                 json.Number `json:"id"`
	RegistrationNo     string      `json:"registration_no"`
	StudentName        string      `json:"student_name"`
	GuardianName       string      `json:"guardian_name"`
	GuardianOccupation string      `json:"guardian_occupation"`
	Course             string      `json:"course"`
	DOB                string      `json:"dob"`
	Address            string      `json:"address"`
	ContactNo          string      `json:"contact_no"`
	GuardianContactNo  string      `json:"guardian_contact_no"`
	Email              string      `json:"email"`
	Category           string      `json:"category"`
	ComputerCourse     string      `json:"computer_course"`
	Medium             string      `json:"medium"`
	RegistrationDate   string      `json:"registration_date"`
	RegistrationFees   Amount      `json:"registration_fees"`
}

// RegistrationPayload carries the fields a registration create/update
// submits. Dates are already formatted YYYY-MM-DD by the form controller.
type RegistrationPayload struct {
	RegistrationNo     string
	StudentName        string
	GuardianName       string
	GuardianOccupation string
	Course             string
	DOB                string
	Address            string
	ContactNo          string
	GuardianContactNo  string
	Email              string
	Category           string
	ComputerCourse     string
	Medium             string
	RegistrationDate   string
	RegistrationFees   string
}

// Values encodes the payload as form fields, empty strings for absent
// values.
func (p RegistrationPayload) Values() url.Values {
	return url.Values{
		"registration_no":     {p.RegistrationNo},
		"student_name":        {p.StudentName},
		"guardian_name":       {p.GuardianName},
		"guardian_occupation": {p.GuardianOccupation},
		"course":              {p.Course},
		"dob":                 {p.DOB},
		"address":             {p.Address},
		"contact_no":          {p.ContactNo},
		"guardian_contact_no": {p.GuardianContactNo},
		"email":               {p.Email},
		"category":            {p.Category},
		"computer_course":     {p.ComputerCourse},
		"medium":              {p.Medium},
		"registration_date":   {p.RegistrationDate},
		"registration_fees":   {p.RegistrationFees},
	}
}
