package riskengine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/clock"
	"github.com/mediminder/pulse/internal/dataset"
)

func newTestEngine(t *testing.T) (*Engine, *dataset.Store) {
	t.Helper()
	store := dataset.Generate(dataset.GenerateConfig{Hospitals: 3, Doctors: 10, Patients: 120, Seed: 7})
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	return New(store, clk, rand.New(rand.NewSource(7)), zap.NewNop()), store
}

func TestLevelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{39.9, RiskLow},
		{40, RiskMedium},
		{59.9, RiskMedium},
		{60, RiskHigh},
		{79.9, RiskHigh},
		{80, RiskCritical},
		{100, RiskCritical},
	}
	for _, tc := range cases {
		if got := LevelForScore(tc.score); got != tc.want {
			t.Errorf("LevelForScore(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestScoreFromFactorsAdjustments(t *testing.T) {
	factors := []RiskFactor{{Impact: 10}}

	p := dataset.Patient{Age: 50, ComplianceStatus: dataset.Compliant}
	if got := scoreFromFactors(factors, p); got != 15 {
		t.Fatalf("compliant adult score = %v, want 15", got)
	}

	p = dataset.Patient{Age: 82, ComplianceStatus: dataset.NonCompliant}
	// 10*2 + 20 + 5 + 10 = 55
	if got := scoreFromFactors(factors, p); got != 55 {
		t.Fatalf("non-compliant elderly score = %v, want 55", got)
	}

	p = dataset.Patient{Age: 30, ComplianceStatus: dataset.Partial,
		Medications: make([]dataset.Medication, 6)}
	// 10*2 + 10 + 12 = 42
	if got := scoreFromFactors(factors, p); got != 42 {
		t.Fatalf("polypharmacy score = %v, want 42", got)
	}
}

func TestScoreClamped(t *testing.T) {
	huge := []RiskFactor{{Impact: 10}, {Impact: 10}, {Impact: 10}, {Impact: 10}, {Impact: 10}, {Impact: 10}}
	p := dataset.Patient{Age: 85, ComplianceStatus: dataset.NonCompliant,
		Medications: make([]dataset.Medication, 8)}
	if got := scoreFromFactors(huge, p); got != 100 {
		t.Fatalf("score = %v, want clamp to 100", got)
	}

	p = dataset.Patient{Age: 30, ComplianceStatus: dataset.Compliant}
	if got := scoreFromFactors(nil, p); got != 0 {
		t.Fatalf("score = %v, want clamp to 0", got)
	}
}

func TestDeriveFactorsDeterministicRules(t *testing.T) {
	e, _ := newTestEngine(t)

	p := dataset.Patient{
		Age:               78,
		ComplianceStatus:  dataset.NonCompliant,
		Medications:       make([]dataset.Medication, 6),
		MedicalConditions: []string{"a", "b", "c"},
	}
	factors := e.deriveFactors(p)

	// 4 deterministic factors plus 2 sampled ones.
	if len(factors) != 6 {
		t.Fatalf("got %d factors, want 6", len(factors))
	}
	byName := map[string]RiskFactor{}
	for _, f := range factors[:4] {
		byName[f.Factor] = f
	}
	if f, ok := byName["Complex Regimen"]; !ok || f.Impact != 7.2 {
		t.Errorf("Complex Regimen = %+v, want impact 7.2", f)
	}
	if f, ok := byName["Poor Adherence History"]; !ok || f.Impact != 9 {
		t.Errorf("Poor Adherence History = %+v, want impact 9", f)
	}
	if f, ok := byName["Advanced Age"]; !ok || f.Impact != 7 {
		t.Errorf("Advanced Age = %+v, want impact 7", f)
	}
	if f, ok := byName["Multiple Comorbidities"]; !ok || f.Impact != 8 {
		t.Errorf("Multiple Comorbidities = %+v, want impact 8", f)
	}
	for _, f := range factors[4:] {
		if f.Impact < 0 || f.Impact > 11 {
			t.Errorf("sampled factor %q impact %v out of range", f.Factor, f.Impact)
		}
	}
}

func TestGenerateRiskAssessmentUnknownPatient(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.GenerateRiskAssessment("no-such-patient"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("err = %v, want ErrPatientNotFound", err)
	}
}

func TestGenerateRiskAssessmentCaches(t *testing.T) {
	e, store := newTestEngine(t)
	id := store.Patients()[0].ID

	if e.GetRiskAssessment(id) != nil {
		t.Fatal("expected no cached assessment before generation")
	}
	first, err := e.GenerateRiskAssessment(id)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.GetRiskAssessment(id); got != first {
		t.Fatal("GetRiskAssessment did not return the cached assessment")
	}
	second, err := e.GenerateRiskAssessment(id)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.GetRiskAssessment(id); got != second {
		t.Fatal("regeneration did not overwrite the cache")
	}
	if len(e.GetAllRiskAssessments()) != 1 {
		t.Fatal("regeneration duplicated the cache entry")
	}
}

func TestAssessmentShape(t *testing.T) {
	e, store := newTestEngine(t)
	for _, p := range store.Patients()[:20] {
		a, err := e.GenerateRiskAssessment(p.ID)
		if err != nil {
			t.Fatal(err)
		}
		if a.RiskScore < 0 || a.RiskScore > 100 {
			t.Errorf("patient %s: score %v out of range", p.ID, a.RiskScore)
		}
		if a.RiskLevel != LevelForScore(a.RiskScore) {
			t.Errorf("patient %s: level %v inconsistent with score %v", p.ID, a.RiskLevel, a.RiskScore)
		}
		if len(a.RiskFactors) < 2 {
			t.Errorf("patient %s: expected at least the 2 sampled factors", p.ID)
		}
		if len(a.Recommendations) == 0 {
			t.Errorf("patient %s: expected at least the care team huddle recommendation", p.ID)
		}
		last := a.Recommendations[len(a.Recommendations)-1]
		if last.Action != "Care Team Huddle" {
			t.Errorf("patient %s: final recommendation %q, want Care Team Huddle", p.ID, last.Action)
		}
		for _, pr := range a.Predictions {
			if pr.Probability < 0 || pr.Probability > 100 {
				t.Errorf("patient %s: prediction probability %v out of range", p.ID, pr.Probability)
			}
		}
	}
}

func TestPredictionGates(t *testing.T) {
	e, _ := newTestEngine(t)

	p := dataset.Patient{Medications: make([]dataset.Medication, 2)}
	if got := e.derivePredictions(p, 30); len(got) != 0 {
		t.Fatalf("score 30 with 2 meds produced %d predictions, want 0", len(got))
	}
	if got := e.derivePredictions(p, 50); len(got) != 1 || got[0].Type != PredictAdherenceDrop {
		t.Fatalf("score 50 predictions = %+v, want single adherence_drop", got)
	}
	if got := e.derivePredictions(p, 70); len(got) != 2 || got[1].Type != PredictHospitalization {
		t.Fatalf("score 70 predictions = %+v, want adherence_drop + hospitalization_risk", got)
	}
	p.Medications = make([]dataset.Medication, 4)
	got := e.derivePredictions(p, 70)
	if len(got) != 3 || got[2].Type != PredictInteraction {
		t.Fatalf("score 70 with 4 meds predictions = %+v, want interaction appended", got)
	}
}

func TestHighRiskPatientsSorted(t *testing.T) {
	e, _ := newTestEngine(t)
	scores := map[string]float64{"p1": 90, "p2": 55, "p3": 70, "p4": 30}
	for id, s := range scores {
		e.assessments[id] = &RiskAssessment{PatientID: id, RiskScore: s, RiskLevel: LevelForScore(s)}
	}

	high := e.GetHighRiskPatients()
	if len(high) != 2 {
		t.Fatalf("got %d high-risk patients, want 2", len(high))
	}
	if high[0].PatientID != "p1" || high[1].PatientID != "p3" {
		t.Fatalf("order = [%s %s], want [p1 p3]", high[0].PatientID, high[1].PatientID)
	}
}

func TestAverageRiskScore(t *testing.T) {
	e, _ := newTestEngine(t)
	if got := e.AverageRiskScore(); got != 0 {
		t.Fatalf("empty cache average = %d, want 0", got)
	}
	e.assessments["a"] = &RiskAssessment{RiskScore: 40}
	e.assessments["b"] = &RiskAssessment{RiskScore: 61}
	if got := e.AverageRiskScore(); got != 51 {
		t.Fatalf("average = %d, want 51", got)
	}
}

func TestInitializeAllRiskAssessments(t *testing.T) {
	e, _ := newTestEngine(t)
	e.InitializeAllRiskAssessments(context.Background())
	if got := len(e.GetAllRiskAssessments()); got != 50 {
		t.Fatalf("cached %d assessments, want 50", got)
	}
}

func TestPopulationInsightsMemoized(t *testing.T) {
	e, _ := newTestEngine(t)
	first := e.GetPopulationInsights()
	if len(first) != 3 {
		t.Fatalf("got %d insights, want 3", len(first))
	}
	second := e.GetPopulationInsights()
	if &first[0] != &second[0] {
		t.Fatal("GetPopulationInsights recomputed instead of returning the cached slice")
	}
	regen := e.GeneratePopulationInsights()
	if &regen[0] == &first[0] {
		t.Fatal("GeneratePopulationInsights did not replace the cache")
	}
}

func TestPopulationInsightContents(t *testing.T) {
	e, store := newTestEngine(t)
	insights := e.GetPopulationInsights()

	wantCategories := []string{"adherence", "risk_factors", "care_patterns"}
	for i, want := range wantCategories {
		if insights[i].Category != want {
			t.Errorf("insight %d category = %s, want %s", i, insights[i].Category, want)
		}
	}

	nonCompliant := 0
	polypharmacy := 0
	for _, p := range store.Patients() {
		if p.ComplianceStatus == dataset.NonCompliant {
			nonCompliant++
		}
		if len(p.Medications) >= 5 {
			polypharmacy++
		}
	}
	if insights[0].AffectedPatients != nonCompliant {
		t.Errorf("adherence affected = %d, want %d non-compliant patients", insights[0].AffectedPatients, nonCompliant)
	}
	if !strings.HasPrefix(insights[0].Description, fmt.Sprintf("%d patients", nonCompliant)) {
		t.Errorf("adherence description = %q, want non-compliant count embedded", insights[0].Description)
	}
	if insights[1].AffectedPatients != polypharmacy {
		t.Errorf("risk factor affected = %d, want %d polypharmacy patients", insights[1].AffectedPatients, polypharmacy)
	}
	if want := len(store.Patients()) * 15 / 100; insights[2].AffectedPatients != want {
		t.Errorf("care pattern affected = %d, want %d", insights[2].AffectedPatients, want)
	}
}
