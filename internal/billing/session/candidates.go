package session

import (
	"strings"

	treatmentdomain "github.com/smallbiznis/vetledger/internal/treatment/domain"
)

// CandidatesFromHistory turns a pet's treatment history into candidate
// lines, optionally filtered by visit reason. Descriptions are copied here;
// the source records are not referenced afterward.
func CandidatesFromHistory(records []treatmentdomain.Record, reasonFilter string) []Candidate {
	reasonFilter = strings.ToLower(strings.TrimSpace(reasonFilter))

	out := make([]Candidate, 0, len(records))
	for _, record := range records {
		description := describe(record)
		if reasonFilter != "" && !strings.Contains(strings.ToLower(description), reasonFilter) {
			continue
		}
		out = append(out, Candidate{
			Description: description,
			ServiceDate: record.Date,
		})
	}
	return out
}

func describe(record treatmentdomain.Record) string {
	var detail string
	switch record.Kind {
	case treatmentdomain.KindConsultation:
		detail = record.Reason
	case treatmentdomain.KindDeworming:
		detail = record.Dewormer
	case treatmentdomain.KindVaccination:
		detail = record.Vaccine
	case treatmentdomain.KindSurgery:
		detail = record.SurgeryType
	case treatmentdomain.KindGrooming:
		detail = record.GroomingService
	case treatmentdomain.KindOtherTreatment:
		detail = record.TreatmentName
	}

	label := kindLabel(record.Kind)
	if detail == "" {
		return label
	}
	return label + ": " + detail
}

func kindLabel(kind treatmentdomain.Kind) string {
	switch kind {
	case treatmentdomain.KindConsultation:
		return "Consultation"
	case treatmentdomain.KindDeworming:
		return "Deworming"
	case treatmentdomain.KindVaccination:
		return "Vaccination"
	case treatmentdomain.KindSurgery:
		return "Surgery"
	case treatmentdomain.KindGrooming:
		return "Grooming"
	case treatmentdomain.KindOtherTreatment:
		return "Treatment"
	}
	return string(kind)
}
