// Package domain contains persistence models for per-visit treatment records.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind is the visit category. Each kind carries its own field schema.
type Kind string

const (
	KindConsultation   Kind = "CONSULTATION"
	KindDeworming      Kind = "DEWORMING"
	KindVaccination    Kind = "VACCINATION"
	KindSurgery        Kind = "SURGERY"
	KindGrooming       Kind = "GROOMING"
	KindOtherTreatment Kind = "OTHER_TREATMENT"
)

// Kinds lists every treatment kind in display order.
func Kinds() []Kind {
	return []Kind{
		KindConsultation,
		KindDeworming,
		KindVaccination,
		KindSurgery,
		KindGrooming,
		KindOtherTreatment,
	}
}

// RiskStatus is the pre-surgery risk assessment.
type RiskStatus string

const (
	RiskLow    RiskStatus = "Low"
	RiskMedium RiskStatus = "Medium"
	RiskHigh   RiskStatus = "High"
)

func ValidRiskStatus(raw string) bool {
	switch RiskStatus(raw) {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Record is one treatment entry in a pet's history. All six kinds share the
// table; kind-specific columns are sparse and empty for other kinds.
type Record struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	PetID        snowflake.ID `gorm:"column:pet_id;not null;index:idx_record_identity,priority:1" json:"pet_id"`
	ClientID     snowflake.ID `gorm:"column:client_id;not null;index:idx_record_identity,priority:2" json:"client_id"`
	Kind         Kind         `gorm:"type:text;not null;index:idx_record_identity,priority:3" json:"kind"`
	Date         time.Time    `gorm:"column:date;not null;index:idx_record_identity,priority:4" json:"date"`
	Veterinarian string       `gorm:"type:text;not null" json:"veterinarian"`

	// Consultation
	Reason       string `gorm:"type:text" json:"reason,omitempty"`
	Diagnosis    string `gorm:"type:text" json:"diagnosis,omitempty"`
	Prescription string `gorm:"type:text" json:"prescription,omitempty"`
	NextVisit    string `gorm:"column:next_visit;type:text" json:"next_visit,omitempty"`

	// Deworming
	Dewormer      string `gorm:"type:text" json:"dewormer,omitempty"`
	Weight        string `gorm:"type:text" json:"weight,omitempty"`
	NextDeworming string `gorm:"column:next_deworming;type:text" json:"next_deworming,omitempty"`

	// Vaccination
	Vaccine         string `gorm:"type:text" json:"vaccine,omitempty"`
	BatchNo         string `gorm:"column:batch_no;type:text" json:"batch_no,omitempty"`
	NextVaccination string `gorm:"column:next_vaccination;type:text" json:"next_vaccination,omitempty"`

	// Surgery
	SurgeryType  string     `gorm:"column:surgery_type;type:text" json:"surgery_type,omitempty"`
	RiskStatus   RiskStatus `gorm:"column:risk_status;type:text" json:"risk_status,omitempty"`
	Anesthesia   string     `gorm:"type:text" json:"anesthesia,omitempty"`
	NextFollowUp string     `gorm:"column:next_follow_up;type:text" json:"next_follow_up,omitempty"`

	// Grooming
	GroomingService string `gorm:"column:grooming_service;type:text" json:"grooming_service,omitempty"`
	Groomer         string `gorm:"type:text" json:"groomer,omitempty"`
	Remarks         string `gorm:"type:text" json:"remarks,omitempty"`

	// Other treatment
	TreatmentName string `gorm:"column:treatment_name;type:text" json:"treatment_name,omitempty"`
	Details       string `gorm:"type:text" json:"details,omitempty"`
	Outcome       string `gorm:"type:text" json:"outcome,omitempty"`

	Version   int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "treatment_records" }

// Field returns the value of a named kind-specific field.
func (r *Record) Field(name string) (string, bool) {
	switch name {
	case "reason":
		return r.Reason, true
	case "diagnosis":
		return r.Diagnosis, true
	case "prescription":
		return r.Prescription, true
	case "next_visit":
		return r.NextVisit, true
	case "dewormer":
		return r.Dewormer, true
	case "weight":
		return r.Weight, true
	case "next_deworming":
		return r.NextDeworming, true
	case "vaccine":
		return r.Vaccine, true
	case "batch_no":
		return r.BatchNo, true
	case "next_vaccination":
		return r.NextVaccination, true
	case "surgery_type":
		return r.SurgeryType, true
	case "risk_status":
		return string(r.RiskStatus), true
	case "anesthesia":
		return r.Anesthesia, true
	case "next_follow_up":
		return r.NextFollowUp, true
	case "grooming_service":
		return r.GroomingService, true
	case "groomer":
		return r.Groomer, true
	case "remarks":
		return r.Remarks, true
	case "treatment_name":
		return r.TreatmentName, true
	case "details":
		return r.Details, true
	case "outcome":
		return r.Outcome, true
	}
	return "", false
}

// SetField assigns a named kind-specific field. Unknown names are rejected so
// a stale form schema cannot silently drop operator input.
func (r *Record) SetField(name, value string) bool {
	switch name {
	case "reason":
		r.Reason = value
	case "diagnosis":
		r.Diagnosis = value
	case "prescription":
		r.Prescription = value
	case "next_visit":
		r.NextVisit = value
	case "dewormer":
		r.Dewormer = value
	case "weight":
		r.Weight = value
	case "next_deworming":
		r.NextDeworming = value
	case "vaccine":
		r.Vaccine = value
	case "batch_no":
		r.BatchNo = value
	case "next_vaccination":
		r.NextVaccination = value
	case "surgery_type":
		r.SurgeryType = value
	case "risk_status":
		r.RiskStatus = RiskStatus(value)
	case "anesthesia":
		r.Anesthesia = value
	case "next_follow_up":
		r.NextFollowUp = value
	case "grooming_service":
		r.GroomingService = value
	case "groomer":
		r.Groomer = value
	case "remarks":
		r.Remarks = value
	case "treatment_name":
		r.TreatmentName = value
	case "details":
		r.Details = value
	case "outcome":
		r.Outcome = value
	default:
		return false
	}
	return true
}

// DateLayout is the calendar-date format carried by forms.
const DateLayout = "2006-01-02"

// ParseDate parses a form calendar date into a UTC midnight timestamp so
// same-day records always compare equal on the date column.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NormalizeVeterinarian applies the display convention for veterinarian
// names: a single "Dr." prefix regardless of how the operator typed it.
func NormalizeVeterinarian(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	for _, prefix := range []string{"dr. ", "dr ", "dr."} {
		if strings.HasPrefix(lower, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}
	if name == "" {
		return ""
	}
	return "Dr. " + name
}
