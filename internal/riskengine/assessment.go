// Package riskengine computes heuristic risk assessments, predictions, and
// recommendations for patients in the static dataset, plus population-level
// insights. Assessments are recomputed wholesale on demand and cached with
// last-write-wins semantics.
package riskengine

import "time"

// RiskLevel bands a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// LevelForScore maps a risk score to its band using the fixed thresholds
// >=80 Critical, >=60 High, >=40 Medium, else Low.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// FactorCategory classifies a risk factor.
type FactorCategory string

const (
	CategoryMedication FactorCategory = "medication"
	CategoryBehavioral FactorCategory = "behavioral"
	CategoryClinical   FactorCategory = "clinical"
	CategorySocial     FactorCategory = "social"
)

// RiskFactor is one contributor to a patient's risk score.
type RiskFactor struct {
	Factor      string         `json:"factor"`
	Impact      float64        `json:"impact"` // 0-10
	Description string         `json:"description"`
	Category    FactorCategory `json:"category"`
}

// PredictionType identifies the kind of predicted outcome.
type PredictionType string

const (
	PredictAdherenceDrop   PredictionType = "adherence_drop"
	PredictHospitalization PredictionType = "hospitalization_risk"
	PredictInteraction     PredictionType = "medication_interaction"
	PredictCareGap         PredictionType = "care_gap"
)

// Prediction is a probabilistic forecast derived from the risk score.
type Prediction struct {
	Type        PredictionType `json:"type"`
	Probability float64        `json:"probability"` // 0-100
	Timeframe   string         `json:"timeframe"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"` // 0-100
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// RecommendationCategory classifies a recommended intervention.
type RecommendationCategory string

const (
	RecommendMedication       RecommendationCategory = "medication"
	RecommendLifestyle        RecommendationCategory = "lifestyle"
	RecommendMonitoring       RecommendationCategory = "monitoring"
	RecommendCareCoordination RecommendationCategory = "care_coordination"
)

// Recommendation is a suggested intervention.
type Recommendation struct {
	Action         string                 `json:"action"`
	Priority       Priority               `json:"priority"`
	Category       RecommendationCategory `json:"category"`
	Description    string                 `json:"description"`
	ExpectedImpact string                 `json:"expected_impact"`
}

// RiskAssessment is the full per-patient result.
type RiskAssessment struct {
	PatientID       string           `json:"patient_id"`
	RiskScore       float64          `json:"risk_score"` // 0-100
	RiskLevel       RiskLevel        `json:"risk_level"`
	RiskFactors     []RiskFactor     `json:"risk_factors"`
	Predictions     []Prediction     `json:"predictions"`
	Recommendations []Recommendation `json:"recommendations"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// PopulationInsight is an aggregate observation across the patient population.
type PopulationInsight struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	AffectedPatients int       `json:"affected_patients"`
	Confidence       int       `json:"confidence"`
	ActionableItems  []string  `json:"actionable_items"`
	GeneratedAt      time.Time `json:"generated_at"`
}
