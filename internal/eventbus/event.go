// Package eventbus implements the in-process domain event stream that drives
// the compliance dashboard simulation. Events are generated on a randomized
// timer or injected manually, and dispatched synchronously to subscribers.
package eventbus

import (
	"time"
)

// Type identifies the kind of domain event.
type Type string

const (
	TypeMedicationMissed   Type = "medication_missed"
	TypeMedicationTaken    Type = "medication_taken"
	TypeComplianceAlert    Type = "compliance_alert"
	TypePatientRiskChange  Type = "patient_risk_change"
	TypeAIInsightGenerated Type = "ai_insight_generated"
	TypeEmergencyContact   Type = "emergency_contact"
	TypeCareTeamAction     Type = "care_team_action"
	TypeAppointmentRemind  Type = "appointment_reminder"
	TypeVitalSignsAlert    Type = "vital_signs_alert"

	// TypeAll subscribes a handler to every event regardless of type.
	TypeAll Type = "all"
)

// Severity classifies the urgency of an event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// InsightCategory classifies a generated AI insight.
type InsightCategory string

const (
	CategoryPrediction     InsightCategory = "prediction"
	CategoryRecommendation InsightCategory = "recommendation"
	CategoryAlert          InsightCategory = "alert"
)

// Event is a single domain event. Immutable once emitted.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      Type      `json:"type"`
	Severity  Severity  `json:"severity"`
	Data      any       `json:"data"`
}

// PatientRiskData is the payload of a patient_risk_change event.
type PatientRiskData struct {
	PatientID          string   `json:"patient_id"`
	PatientName        string   `json:"patient_name"`
	DoctorID           string   `json:"doctor_id"`
	HospitalID         string   `json:"hospital_id"`
	OldRiskLevel       string   `json:"old_risk_level"`
	NewRiskLevel       string   `json:"new_risk_level"`
	Factors            []string `json:"factors"`
	Insight            string   `json:"insight"`
	RecommendedActions []string `json:"recommended_actions"`
}

// MedicationData is the payload of medication_missed and medication_taken events.
type MedicationData struct {
	PatientID      string `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	MedicationName string `json:"medication_name"`
	ScheduledTime  string `json:"scheduled_time"`
	ActualTime     string `json:"actual_time,omitempty"`
	Impact         string `json:"impact"`
}

// AIInsightData is the payload of an ai_insight_generated event.
type AIInsightData struct {
	Insight          string          `json:"insight"`
	Category         InsightCategory `json:"category"`
	AffectedPatients int             `json:"affected_patients"`
	Confidence       int             `json:"confidence"`
	ActionableSteps  []string        `json:"actionable_steps"`
}

// ComplianceData is the payload of a compliance_alert event.
type ComplianceData struct {
	Kind           string `json:"kind"`
	TotalPatients  int    `json:"total_patients"`
	ComplianceRate int    `json:"compliance_rate"`
	TrendDirection string `json:"trend_direction"`
	CriticalCases  int    `json:"critical_cases"`
}

// GenericData is the payload for event types without a dedicated generator.
type GenericData struct {
	Message string `json:"message"`
	Details string `json:"details"`
}
