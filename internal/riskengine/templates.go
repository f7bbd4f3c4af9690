package riskengine

// factorTemplate is a catalog entry used for random factor sampling.
type factorTemplate struct {
	Name        string
	BaseImpact  float64
	Description string
	Category    FactorCategory
}

var factorCatalog = []factorTemplate{
	// medication
	{"Complex Regimen", 7, "Multiple medications with different schedules", CategoryMedication},
	{"Recent Medication Changes", 6, "Medication adjustments in last 30 days", CategoryMedication},
	{"Missed Doses Pattern", 8, "Consistent pattern of missed medications", CategoryMedication},
	{"Drug Interactions", 9, "Potential interactions between prescribed medications", CategoryMedication},
	// behavioral
	{"Low Health Literacy", 6, "Limited understanding of medication importance", CategoryBehavioral},
	{"Poor Engagement", 7, "Low interaction with healthcare team", CategoryBehavioral},
	{"Irregular Schedule", 5, "Inconsistent daily routines affecting medication timing", CategoryBehavioral},
	// clinical
	{"Multiple Comorbidities", 8, "Several chronic conditions requiring management", CategoryClinical},
	{"Recent Hospitalization", 9, "Hospital admission within last 90 days", CategoryClinical},
	{"Age-Related Factors", 6, "Advanced age affecting medication management", CategoryClinical},
	{"Cognitive Impairment", 9, "Memory or cognitive issues affecting adherence", CategoryClinical},
	// social
	{"Social Isolation", 6, "Limited family or social support system", CategorySocial},
	{"Economic Barriers", 8, "Financial constraints affecting medication access", CategorySocial},
	{"Transportation Issues", 5, "Difficulty accessing healthcare services", CategorySocial},
}
