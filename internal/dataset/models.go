// Package dataset provides the static in-memory collection of hospitals,
// doctors, and patients that the simulation layer reads. The collection is
// generated once at startup from a seeded random source and is immutable for
// the lifetime of the process.
package dataset

import "time"

// ComplianceStatus classifies a patient's medication adherence.
type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "Compliant"
	Partial      ComplianceStatus = "Partial"
	NonCompliant ComplianceStatus = "Non-Compliant"
)

// DoseSlot is one scheduled dose of a medication.
type DoseSlot struct {
	Time  string `json:"time"`
	Taken bool   `json:"taken"`
}

// Medication is a prescribed medication with its dosing schedule.
type Medication struct {
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	Schedule     []DoseSlot `json:"schedule"`
	Instructions string     `json:"instructions"`
	Category     string     `json:"category,omitempty"`
	Condition    string     `json:"condition,omitempty"`
}

// Patient is a patient record.
type Patient struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Age               int              `json:"age"`
	Gender            string           `json:"gender"`
	LastVisit         time.Time        `json:"last_visit"`
	Compliance        int              `json:"compliance"` // percent of scheduled doses taken
	ComplianceStatus  ComplianceStatus `json:"compliance_status"`
	DoctorID          string           `json:"doctor_id"`
	HospitalID        string           `json:"hospital_id"`
	Medications       []Medication     `json:"medications"`
	MedicalConditions []string         `json:"medical_conditions"`
}

// Doctor is a prescriber record.
type Doctor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Specialty  string `json:"specialty"`
	HospitalID string `json:"hospital_id"`
}

// Hospital is a facility record.
type Hospital struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	BedCapacity int      `json:"bed_capacity"`
	DoctorIDs   []string `json:"doctor_ids"`
	PatientIDs  []string `json:"patient_ids"`
}
