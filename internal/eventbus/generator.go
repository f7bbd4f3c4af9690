package eventbus

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vocabularies for synthesized event payloads.

var riskFactorPhrases = []string{
	"Multiple missed doses",
	"Medication interaction detected",
	"Recent hospitalization",
	"Complex medication regimen",
	"Age-related factors",
	"Comorbidity management",
	"Social determinants",
	"Economic barriers",
}

var insightPhrases = []string{
	"Patients with similar profiles show 40% better outcomes with morning medication timing",
	"Predictive analysis suggests intervention needed for 12 high-risk patients this week",
	"Medication adherence patterns indicate optimal reminder timing at 8 AM and 6 PM",
	"Risk stratification identifies 3 patients requiring immediate care coordination",
	"AI analysis reveals seasonal compliance patterns affecting elderly patients",
}

var careActionPhrases = []string{
	"Schedule follow-up call",
	"Adjust medication timing",
	"Initiate care team huddle",
	"Send educational materials",
	"Coordinate with family members",
	"Review medication regimen",
	"Schedule in-person consultation",
}

var medicationNames = []string{"Metformin", "Lisinopril", "Atorvastatin", "Amlodipine", "Omeprazole"}

var doseTimes = []string{"8:00 AM", "12:00 PM", "6:00 PM", "9:00 PM"}

var generatedTypes = []Type{
	TypeMedicationMissed,
	TypePatientRiskChange,
	TypeAIInsightGenerated,
	TypeMedicationTaken,
	TypeComplianceAlert,
}

// randomSeverity draws a severity from the fixed weights
// low 0.4, medium 0.3, high 0.2, critical 0.1.
func (b *Bus) randomSeverity() Severity {
	r := b.rng.Float64()
	switch {
	case r < 0.4:
		return SeverityLow
	case r < 0.7:
		return SeverityMedium
	case r < 0.9:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// randomEvent synthesizes one event with a uniformly drawn type. Callers must
// hold b.mu (the random source is not safe for concurrent use).
func (b *Bus) randomEvent() Event {
	eventType := generatedTypes[b.rng.Intn(len(generatedTypes))]
	severity := b.randomSeverity()

	switch eventType {
	case TypePatientRiskChange:
		return b.newPatientRiskEvent(severity)
	case TypeMedicationMissed, TypeMedicationTaken:
		return b.newMedicationEvent(eventType, severity)
	case TypeAIInsightGenerated:
		return b.newInsightEvent(severity)
	case TypeComplianceAlert:
		return b.newComplianceEvent(severity)
	default:
		return b.newGenericEvent(eventType, severity)
	}
}

func riskLevelForSeverity(severity Severity) string {
	switch severity {
	case SeverityCritical:
		return "Critical"
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

func (b *Bus) newPatientRiskEvent(severity Severity) Event {
	riskLevels := []string{"Low", "Medium", "High", "Critical"}
	oldRisk := riskLevels[b.rng.Intn(len(riskLevels))]
	newRisk := riskLevelForSeverity(severity)
	factors := riskFactorPhrases[:1+b.rng.Intn(4)]
	trigger := riskFactorPhrases[b.rng.Intn(len(riskFactorPhrases))]

	return Event{
		ID:        uuid.New().String(),
		Timestamp: b.clk.Now(),
		Type:      TypePatientRiskChange,
		Severity:  severity,
		Data: &PatientRiskData{
			PatientID:          fmt.Sprintf("patient%d", 1+b.rng.Intn(100)),
			PatientName:        fmt.Sprintf("Patient %d", 1+b.rng.Intn(100)),
			DoctorID:           fmt.Sprintf("doctor%d", 1+b.rng.Intn(50)),
			HospitalID:         fmt.Sprintf("hospital%d", 1+b.rng.Intn(10)),
			OldRiskLevel:       oldRisk,
			NewRiskLevel:       newRisk,
			Factors:            factors,
			Insight:            fmt.Sprintf("AI analysis indicates %s risk due to %s", strings.ToLower(newRisk), strings.ToLower(trigger)),
			RecommendedActions: careActionPhrases[:1+b.rng.Intn(3)],
		},
	}
}

func (b *Bus) newMedicationEvent(eventType Type, severity Severity) Event {
	data := &MedicationData{
		PatientID:      fmt.Sprintf("patient%d", 1+b.rng.Intn(100)),
		PatientName:    fmt.Sprintf("Patient %d", 1+b.rng.Intn(100)),
		MedicationName: medicationNames[b.rng.Intn(len(medicationNames))],
		ScheduledTime:  doseTimes[b.rng.Intn(len(doseTimes))],
	}
	if eventType == TypeMedicationTaken {
		data.ActualTime = b.clk.Now().Format(time.Kitchen)
		data.Impact = "Positive adherence progress"
	} else {
		data.Impact = "May affect treatment effectiveness"
	}

	return Event{
		ID:        uuid.New().String(),
		Timestamp: b.clk.Now(),
		Type:      eventType,
		Severity:  severity,
		Data:      data,
	}
}

func (b *Bus) newInsightEvent(severity Severity) Event {
	categories := []InsightCategory{CategoryPrediction, CategoryRecommendation, CategoryAlert}
	return Event{
		ID:        uuid.New().String(),
		Timestamp: b.clk.Now(),
		Type:      TypeAIInsightGenerated,
		Severity:  severity,
		Data: &AIInsightData{
			Insight:          insightPhrases[b.rng.Intn(len(insightPhrases))],
			Category:         categories[b.rng.Intn(len(categories))],
			AffectedPatients: 5 + b.rng.Intn(50),
			Confidence:       70 + b.rng.Intn(30),
			ActionableSteps:  careActionPhrases[:2+b.rng.Intn(4)],
		},
	}
}

func (b *Bus) newComplianceEvent(severity Severity) Event {
	trend := "down"
	if b.rng.Float64() > 0.5 {
		trend = "up"
	}
	return Event{
		ID:        uuid.New().String(),
		Timestamp: b.clk.Now(),
		Type:      TypeComplianceAlert,
		Severity:  severity,
		Data: &ComplianceData{
			Kind:           "weekly_summary",
			TotalPatients:  50 + b.rng.Intn(100),
			ComplianceRate: 60 + b.rng.Intn(30),
			TrendDirection: trend,
			CriticalCases:  1 + b.rng.Intn(10),
		},
	}
}

func (b *Bus) newGenericEvent(eventType Type, severity Severity) Event {
	return Event{
		ID:        uuid.New().String(),
		Timestamp: b.clk.Now(),
		Type:      eventType,
		Severity:  severity,
		Data: &GenericData{
			Message: fmt.Sprintf("%s event generated", eventType),
			Details: fmt.Sprintf("Severity: %s", severity),
		},
	}
}
