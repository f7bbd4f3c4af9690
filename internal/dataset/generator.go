package dataset

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateConfig controls the size and reproducibility of the generated
// collection.
type GenerateConfig struct {
	Hospitals int
	Doctors   int
	Patients  int
	Seed      int64
}

// DefaultGenerateConfig mirrors the demo dataset proportions: roughly ten
// doctors per hospital and four patients per doctor.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Hospitals: 50,
		Doctors:   500,
		Patients:  2000,
		Seed:      1,
	}
}

// Generate builds a Store from the given config using a seeded random source.
// The same config always produces the same collection.
func Generate(cfg GenerateConfig) *Store {
	if cfg.Hospitals <= 0 {
		cfg.Hospitals = DefaultGenerateConfig().Hospitals
	}
	if cfg.Doctors <= 0 {
		cfg.Doctors = DefaultGenerateConfig().Doctors
	}
	if cfg.Patients <= 0 {
		cfg.Patients = DefaultGenerateConfig().Patients
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	now := time.Now()

	hospitals := make([]Hospital, 0, cfg.Hospitals)
	for i := 1; i <= cfg.Hospitals; i++ {
		hospitals = append(hospitals, Hospital{
			ID:          fmt.Sprintf("hospital%d", i),
			Name:        pick(rng, hospitalNames),
			Location:    pick(rng, cities),
			Type:        pick(rng, hospitalTypes),
			BedCapacity: 200 + rng.Intn(800),
		})
	}

	doctors := make([]Doctor, 0, cfg.Doctors)
	for i := 1; i <= cfg.Doctors; i++ {
		h := &hospitals[rng.Intn(len(hospitals))]
		d := generateDoctor(rng, i, h.ID)
		doctors = append(doctors, d)
		h.DoctorIDs = append(h.DoctorIDs, d.ID)
	}

	patients := make([]Patient, 0, cfg.Patients)
	for i := 1; i <= cfg.Patients; i++ {
		doc := doctors[rng.Intn(len(doctors))]
		p := generatePatient(rng, now, i, doc.ID, doc.HospitalID)
		patients = append(patients, p)
		for j := range hospitals {
			if hospitals[j].ID == doc.HospitalID {
				hospitals[j].PatientIDs = append(hospitals[j].PatientIDs, p.ID)
				break
			}
		}
	}

	return newStore(hospitals, doctors, patients)
}

func generateDoctor(rng *rand.Rand, id int, hospitalID string) Doctor {
	gender := "male"
	first := maleFirstNames
	if rng.Float64() > 0.7 {
		gender = "female"
		first = femaleFirstNames
	}
	return Doctor{
		ID:         fmt.Sprintf("doctor%d", id),
		Name:       fmt.Sprintf("Dr. %s %s", pick(rng, first), pick(rng, lastNames)),
		Gender:     gender,
		Specialty:  pick(rng, specialties),
		HospitalID: hospitalID,
	}
}

func generatePatient(rng *rand.Rand, now time.Time, id int, doctorID, hospitalID string) Patient {
	gender := "male"
	first := maleFirstNames
	if rng.Float64() > 0.5 {
		gender = "female"
		first = femaleFirstNames
	}

	age := 25 + rng.Intn(56) // 25-80
	conditionCount := 1 + rng.Intn(2)
	if age > 60 {
		conditionCount = 1 + rng.Intn(3)
	}
	conditions := pickN(rng, medicalConditions, conditionCount)

	medications := make([]Medication, 0, len(conditions))
	for _, condition := range conditions {
		tmpl, ok := medicationForCondition(rng, condition)
		if !ok {
			continue
		}
		frequency := pick(rng, frequencyNames)
		medications = append(medications, Medication{
			Name:         tmpl.Name,
			Dosage:       pick(rng, tmpl.Dosages),
			Schedule:     generateSchedule(rng, frequency),
			Instructions: fmt.Sprintf("Take %s with food. %s for %s.", frequency, tmpl.Category, condition),
			Category:     tmpl.Category,
			Condition:    condition,
		})
	}

	// Compliance percent is derived from the dose schedule itself.
	totalDoses, takenDoses := 0, 0
	for _, m := range medications {
		for _, s := range m.Schedule {
			totalDoses++
			if s.Taken {
				takenDoses++
			}
		}
	}
	compliance := 100
	if totalDoses > 0 {
		compliance = int(float64(takenDoses)/float64(totalDoses)*100 + 0.5)
	}

	return Patient{
		ID:                fmt.Sprintf("patient%d", id),
		Name:              fmt.Sprintf("%s %s", pick(rng, first), pick(rng, lastNames)),
		Age:               age,
		Gender:            gender,
		LastVisit:         now.AddDate(0, 0, -rng.Intn(60)),
		Compliance:        compliance,
		ComplianceStatus:  statusForCompliance(compliance),
		DoctorID:          doctorID,
		HospitalID:        hospitalID,
		Medications:       medications,
		MedicalConditions: conditions,
	}
}

// statusForCompliance maps a compliance percentage to its status band.
func statusForCompliance(compliance int) ComplianceStatus {
	switch {
	case compliance >= 90:
		return Compliant
	case compliance >= 70:
		return Partial
	default:
		return NonCompliant
	}
}

func generateSchedule(rng *rand.Rand, frequency string) []DoseSlot {
	times, ok := doseFrequencies[frequency]
	if !ok {
		times = doseFrequencies["Once daily"]
	}
	slots := make([]DoseSlot, 0, len(times))
	for _, t := range times {
		slots = append(slots, DoseSlot{Time: t, Taken: rng.Float64() > 0.2})
	}
	return slots
}

func medicationForCondition(rng *rand.Rand, condition string) (medicationTemplate, bool) {
	var matches []medicationTemplate
	for _, tmpl := range medicationCatalog {
		for _, c := range tmpl.Conditions {
			if c == condition {
				matches = append(matches, tmpl)
				break
			}
		}
	}
	if len(matches) == 0 {
		return medicationTemplate{}, false
	}
	return matches[rng.Intn(len(matches))], true
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

func pickN[T any](rng *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	idx := rng.Perm(len(items))[:n]
	out := make([]T, 0, n)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}
