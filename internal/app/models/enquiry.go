package models

import (
	"encoding/json"
	"net/url"
)

// Enquiry is a student contact/interest record as returned by the list and
// detail endpoints. All fields are server-owned.
type Enquiry struct {
	ID             json.Number `json:"id"`
	Date           string      `json:"date"`
	StudentName    string      `json:"student_name"`
	ContactNumber  string      `json:"contact_number"`
	WhatsappNumber string      `json:"whatsapp_number"`
	Course         string      `json:"course"`
	ModeOfRef      string      `json:"mode_of_reference"`
	Place          string      `json:"place"`
	CounsellorName string      `json:"counsellor_name"`
	Franchisee     string      `json:"franchisee"`
	Remarks        string      `json:"remarks"`
	FollowUp1      string      `json:"follow_up_1"`
	FollowUp2      string      `json:"follow_up_2"`
	FollowUp3      string      `json:"follow_up_3"`
	// RegisterStatus is "1" once the enquiry has been converted into a
	// registration.
	RegisterStatus string `json:"register_status"`
}

// Registered reports whether the enquiry was converted to a registration.
func (e *Enquiry) Registered() bool {
	return e.RegisterStatus == "1"
}

// EnquiryPayload carries the fields an enquiry create/update submits. The
// wire keys for this entity are camelCase, unlike the rest of the API.
type EnquiryPayload struct {
	Date           string
	StudentName    string
	ContactNumber  string
	WhatsappNumber string
	CourseEnquiry  string
	ModeOfRef      string
	Place          string
	CounsellorName string
	Franchisee     string
	Remarks        string
	FollowUp1      string
	FollowUp2      string
	FollowUp3      string
}

// Values encodes the payload as form fields. Every key is always present;
// absent values are sent as empty strings, matching the server contract.
func (p EnquiryPayload) Values() url.Values {
	return url.Values{
		"date":            {p.Date},
		"studentName":     {p.StudentName},
		"contactNumber":   {p.ContactNumber},
		"whatsappNumber":  {p.WhatsappNumber},
		"courseEnquiry":   {p.CourseEnquiry},
		"modeOfReference": {p.ModeOfRef},
		"place":           {p.Place},
		"counsellorName":  {p.CounsellorName},
		"franchisee":      {p.Franchisee},
		"remarks":         {p.Remarks},
		"followUp1":       {p.FollowUp1},
		"followUp2":       {p.FollowUp2},
		"followUp3":       {p.FollowUp3},
	}
}
