package riskengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/clock"
	"github.com/mediminder/pulse/internal/dataset"
	"github.com/mediminder/pulse/pkg/workerpool"
)

// ErrPatientNotFound is returned when an assessment is requested for an id
// that does not exist in the dataset.
var ErrPatientNotFound = errors.New("patient not found")

// initSampleSize bounds how many patients are primed at startup.
const initSampleSize = 50

// Engine computes and caches risk assessments.
type Engine struct {
	store  *dataset.Store
	clk    clock.Clock
	logger *zap.Logger

	mu          sync.RWMutex
	rng         *rand.Rand
	assessments map[string]*RiskAssessment
	insights    []PopulationInsight
}

// New creates an Engine over the given dataset. The random source drives
// factor sampling and prediction jitter; pass a seeded source for
// deterministic tests.
func New(store *dataset.Store, clk clock.Clock, rng *rand.Rand, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:       store,
		clk:         clk,
		logger:      logger,
		rng:         rng,
		assessments: make(map[string]*RiskAssessment),
	}
}

// GenerateRiskAssessment recomputes the assessment for a patient and caches
// it, overwriting any prior assessment for that patient.
func (e *Engine) GenerateRiskAssessment(patientID string) (*RiskAssessment, error) {
	patient, ok := e.store.PatientByID(patientID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, patientID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	factors := e.deriveFactors(patient)
	score := scoreFromFactors(factors, patient)
	predictions := e.derivePredictions(patient, score)

	assessment := &RiskAssessment{
		PatientID:       patientID,
		RiskScore:       score,
		RiskLevel:       LevelForScore(score),
		RiskFactors:     factors,
		Predictions:     predictions,
		Recommendations: deriveRecommendations(factors, predictions),
		LastUpdated:     e.clk.Now(),
	}
	e.assessments[patientID] = assessment
	return assessment, nil
}

// GetRiskAssessment returns the cached assessment, or nil if the patient has
// not been assessed. It never recomputes.
func (e *Engine) GetRiskAssessment(patientID string) *RiskAssessment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.assessments[patientID]
}

// GetAllRiskAssessments returns every cached assessment.
func (e *Engine) GetAllRiskAssessments() []*RiskAssessment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*RiskAssessment, 0, len(e.assessments))
	for _, a := range e.assessments {
		out = append(out, a)
	}
	return out
}

// GetHighRiskPatients returns cached assessments with High or Critical level,
// sorted by risk score descending.
func (e *Engine) GetHighRiskPatients() []*RiskAssessment {
	all := e.GetAllRiskAssessments()
	var out []*RiskAssessment
	for _, a := range all {
		if a.RiskLevel == RiskHigh || a.RiskLevel == RiskCritical {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RiskScore > out[j].RiskScore })
	return out
}

// AverageRiskScore returns the rounded mean of all cached risk scores, or 0
// when no assessments exist.
func (e *Engine) AverageRiskScore() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.assessments) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range e.assessments {
		sum += a.RiskScore
	}
	return int(math.Round(sum / float64(len(e.assessments))))
}

// InitializeAllRiskAssessments primes the cache for the first
// initSampleSize patients using a bounded worker pool.
func (e *Engine) InitializeAllRiskAssessments(ctx context.Context) {
	patients := e.store.Patients()
	if len(patients) > initSampleSize {
		patients = patients[:initSampleSize]
	}

	jobs := make([]workerpool.Job, 0, len(patients))
	for _, p := range patients {
		id := p.ID
		jobs = append(jobs, workerpool.Job{
			ID: "assess-" + id,
			Do: func(context.Context) error {
				_, err := e.GenerateRiskAssessment(id)
				return err
			},
		})
	}

	pool := workerpool.New(8, e.logger)
	stats := pool.RunAll(ctx, jobs)
	e.logger.Info("risk assessment cache primed",
		zap.Int64("completed", stats.Completed),
		zap.Int64("failed", stats.Failed))
}

// deriveFactors builds the factor list for a patient: deterministic factors
// from patient attributes plus two randomly sampled catalog factors.
// Callers hold e.mu.
func (e *Engine) deriveFactors(p dataset.Patient) []RiskFactor {
	var factors []RiskFactor

	if len(p.Medications) >= 5 {
		factors = append(factors, RiskFactor{
			Factor:      "Complex Regimen",
			Impact:      math.Min(float64(len(p.Medications))*1.2, 10),
			Description: fmt.Sprintf("Managing %d different medications", len(p.Medications)),
			Category:    CategoryMedication,
		})
	}

	switch p.ComplianceStatus {
	case dataset.NonCompliant:
		factors = append(factors, RiskFactor{
			Factor:      "Poor Adherence History",
			Impact:      9,
			Description: "Consistent non-compliance with medication regimen",
			Category:    CategoryBehavioral,
		})
	case dataset.Partial:
		factors = append(factors, RiskFactor{
			Factor:      "Inconsistent Adherence",
			Impact:      6,
			Description: "Irregular medication adherence patterns",
			Category:    CategoryBehavioral,
		})
	}

	if p.Age >= 75 {
		factors = append(factors, RiskFactor{
			Factor:      "Advanced Age",
			Impact:      7,
			Description: "Age-related challenges in medication management",
			Category:    CategoryClinical,
		})
	}

	if len(p.MedicalConditions) >= 3 {
		factors = append(factors, RiskFactor{
			Factor:      "Multiple Comorbidities",
			Impact:      8,
			Description: fmt.Sprintf("Managing %d chronic conditions", len(p.MedicalConditions)),
			Category:    CategoryClinical,
		})
	}

	// Two sampled catalog factors with ±1 impact jitter.
	for i := 0; i < 2; i++ {
		tmpl := factorCatalog[e.rng.Intn(len(factorCatalog))]
		factors = append(factors, RiskFactor{
			Factor:      tmpl.Name,
			Impact:      tmpl.BaseImpact + (e.rng.Float64()*2 - 1),
			Description: tmpl.Description,
			Category:    tmpl.Category,
		})
	}

	return factors
}

// scoreFromFactors computes the clamped risk score from factor impacts and
// patient attribute adjustments.
func scoreFromFactors(factors []RiskFactor, p dataset.Patient) float64 {
	score := 0.0
	for _, f := range factors {
		score += f.Impact
	}
	score *= 2

	switch p.ComplianceStatus {
	case dataset.NonCompliant:
		score += 20
	case dataset.Partial:
		score += 10
	case dataset.Compliant:
		score -= 5
	}

	if p.Age >= 65 {
		score += 5
	}
	if p.Age >= 80 {
		score += 10
	}

	if len(p.Medications) >= 5 {
		score += float64(len(p.Medications)) * 2
	}

	return math.Max(0, math.Min(100, score))
}

// derivePredictions emits threshold-gated predictions. Callers hold e.mu.
func (e *Engine) derivePredictions(p dataset.Patient, score float64) []Prediction {
	var predictions []Prediction

	if score > 40 {
		predictions = append(predictions, Prediction{
			Type:        PredictAdherenceDrop,
			Probability: math.Min(score+e.rng.Float64()*20-10, 95),
			Timeframe:   "next 30 days",
			Description: "Risk of significant decline in medication adherence",
			Confidence:  78 + e.rng.Float64()*20,
		})
	}

	if score > 60 {
		predictions = append(predictions, Prediction{
			Type:        PredictHospitalization,
			Probability: math.Min(score*0.7+e.rng.Float64()*15, 90),
			Timeframe:   "next 90 days",
			Description: "Elevated risk of hospital readmission",
			Confidence:  72 + e.rng.Float64()*25,
		})
	}

	if len(p.Medications) >= 4 {
		predictions = append(predictions, Prediction{
			Type:        PredictInteraction,
			Probability: math.Min(float64(len(p.Medications))*8+e.rng.Float64()*20, 100),
			Timeframe:   "ongoing",
			Description: "Potential drug-drug interactions requiring monitoring",
			Confidence:  85 + e.rng.Float64()*15,
		})
	}

	return predictions
}

// deriveRecommendations maps high-impact factor categories and high-probability
// predictions to interventions. A generic care team huddle is always included.
func deriveRecommendations(factors []RiskFactor, predictions []Prediction) []Recommendation {
	var recs []Recommendation

	hasHighImpact := func(category FactorCategory) bool {
		for _, f := range factors {
			if f.Category == category && f.Impact >= 7 {
				return true
			}
		}
		return false
	}

	if hasHighImpact(CategoryMedication) {
		recs = append(recs, Recommendation{
			Action:         "Medication Reconciliation",
			Priority:       PriorityHigh,
			Category:       RecommendMedication,
			Description:    "Comprehensive review of all medications with clinical pharmacist",
			ExpectedImpact: "Reduce medication-related risks by 40-60%",
		})
	}

	if hasHighImpact(CategoryBehavioral) {
		recs = append(recs, Recommendation{
			Action:         "Enhanced Patient Education",
			Priority:       PriorityMedium,
			Category:       RecommendCareCoordination,
			Description:    "Structured education program on medication importance and adherence",
			ExpectedImpact: "Improve adherence by 25-35%",
		})
	}

	for _, p := range predictions {
		if p.Probability >= 60 {
			recs = append(recs, Recommendation{
				Action:         "Intensive Monitoring Program",
				Priority:       PriorityHigh,
				Category:       RecommendMonitoring,
				Description:    "Enroll in high-risk patient monitoring program",
				ExpectedImpact: "Reduce adverse outcomes by 45-70%",
			})
			break
		}
	}

	recs = append(recs, Recommendation{
		Action:         "Care Team Huddle",
		Priority:       PriorityMedium,
		Category:       RecommendCareCoordination,
		Description:    "Multidisciplinary team discussion for care planning",
		ExpectedImpact: "Improve care coordination and outcomes",
	})

	return recs
}
