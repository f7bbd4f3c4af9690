package scenario

import "github.com/mediminder/pulse/internal/eventbus"

// buildCatalog defines the built-in demo scenarios. Step actions close over
// the scheduler so they share its bus and state manager.
func (s *Scheduler) buildCatalog() []Scenario {
	return []Scenario{
		{
			ID:          "hackathon_showcase",
			Name:        "Complete Hackathon Showcase",
			Description: "Full demo showing all features across all user roles",
			Duration:    120,
			Steps: []Step{
				{Delay: 0, Description: "Start real-time event stream",
					action: s.startScenarioStream},
				{Delay: 5, Description: "Generate AI prediction insight",
					action: func() { s.bus.TriggerAIInsight(eventbus.CategoryPrediction) }},
				{Delay: 10, Description: "Trigger high-risk patient alert",
					action: func() { s.bus.TriggerPatientRiskEvent("patient15", eventbus.SeverityHigh) }},
				{Delay: 18, Description: "Medication adherence issue",
					action: func() { s.bus.TriggerMedicationEvent("patient8", eventbus.TypeMedicationMissed) }},
				{Delay: 25, Description: "Generate AI care recommendation",
					action: func() { s.bus.TriggerAIInsight(eventbus.CategoryRecommendation) }},
				{Delay: 35, Description: "Critical patient risk escalation",
					action: func() { s.bus.TriggerPatientRiskEvent("patient22", eventbus.SeverityCritical) }},
				{Delay: 45, Description: "Show positive medication adherence",
					action: func() {
						s.bus.TriggerMedicationEvent("patient12", eventbus.TypeMedicationTaken)
						s.bus.TriggerMedicationEvent("patient19", eventbus.TypeMedicationTaken)
					}},
				{Delay: 55, Description: "Population-level AI insight",
					action: func() { s.bus.TriggerAIInsight(eventbus.CategoryAlert) }},
				{Delay: 70, Description: "Multiple medication crisis events",
					action: func() { s.states.TriggerDemoScenario("medication_crisis") }},
				{Delay: 85, Description: "Final predictive insight",
					action: func() { s.bus.TriggerAIInsight(eventbus.CategoryPrediction) }},
			},
		},
		{
			ID:          "patient_crisis",
			Name:        "Patient Crisis Response",
			Description: "Demonstrates rapid response to patient crisis",
			Duration:    60,
			Steps: []Step{
				{Delay: 0, Description: "Initial patient risk escalation",
					action: func() {
						s.startScenarioStream()
						s.bus.TriggerPatientRiskEvent("patient5", eventbus.SeverityHigh)
					}},
				{Delay: 8, Description: "Patient misses critical medication",
					action: func() { s.bus.TriggerMedicationEvent("patient5", eventbus.TypeMedicationMissed) }},
				{Delay: 15, Description: "Risk escalates to critical, AI generates alert",
					action: func() {
						s.bus.TriggerPatientRiskEvent("patient5", eventbus.SeverityCritical)
						s.bus.TriggerAIInsight(eventbus.CategoryAlert)
					}},
				{Delay: 25, Description: "AI provides intervention recommendations",
					action: func() { s.bus.TriggerAIInsight(eventbus.CategoryRecommendation) }},
				{Delay: 40, Description: "Patient takes medication after intervention",
					action: func() { s.bus.TriggerMedicationEvent("patient5", eventbus.TypeMedicationTaken) }},
			},
		},
		{
			ID:          "ai_insights",
			Name:        "AI Intelligence Showcase",
			Description: "Highlights AI-powered insights and predictions",
			Duration:    45,
			Steps: []Step{
				{Delay: 0, Description: "AI generates predictive insight",
					action: func() {
						s.startScenarioStream()
						s.bus.TriggerAIInsight(eventbus.CategoryPrediction)
					}},
				{Delay: 10, Description: "AI suggests care optimization",
					action: func() { s.bus.TriggerAIInsight(eventbus.CategoryRecommendation) }},
				{Delay: 20, Description: "Risk change validates AI prediction",
					action: func() { s.bus.TriggerPatientRiskEvent("patient10", eventbus.SeverityMedium) }},
				{Delay: 30, Description: "AI identifies population trend",
					action: func() { s.bus.TriggerAIInsight(eventbus.CategoryAlert) }},
			},
		},
	}
}
