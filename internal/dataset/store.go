package dataset

// Store is a read-only, indexed view over the generated collection.
// It is safe for concurrent use because nothing mutates it after construction.
type Store struct {
	hospitals []Hospital
	doctors   []Doctor
	patients  []Patient

	hospitalByID map[string]int
	doctorByID   map[string]int
	patientByID  map[string]int
}

func newStore(hospitals []Hospital, doctors []Doctor, patients []Patient) *Store {
	s := &Store{
		hospitals:    hospitals,
		doctors:      doctors,
		patients:     patients,
		hospitalByID: make(map[string]int, len(hospitals)),
		doctorByID:   make(map[string]int, len(doctors)),
		patientByID:  make(map[string]int, len(patients)),
	}
	for i, h := range hospitals {
		s.hospitalByID[h.ID] = i
	}
	for i, d := range doctors {
		s.doctorByID[d.ID] = i
	}
	for i, p := range patients {
		s.patientByID[p.ID] = i
	}
	return s
}

// Hospitals returns all hospitals in generation order.
func (s *Store) Hospitals() []Hospital { return s.hospitals }

// Doctors returns all doctors in generation order.
func (s *Store) Doctors() []Doctor { return s.doctors }

// Patients returns all patients in generation order.
func (s *Store) Patients() []Patient { return s.patients }

// TotalPatients reports the patient count.
func (s *Store) TotalPatients() int { return len(s.patients) }

// PatientByID looks up a patient by id.
func (s *Store) PatientByID(id string) (Patient, bool) {
	i, ok := s.patientByID[id]
	if !ok {
		return Patient{}, false
	}
	return s.patients[i], true
}

// DoctorByID looks up a doctor by id.
func (s *Store) DoctorByID(id string) (Doctor, bool) {
	i, ok := s.doctorByID[id]
	if !ok {
		return Doctor{}, false
	}
	return s.doctors[i], true
}

// HospitalByID looks up a hospital by id.
func (s *Store) HospitalByID(id string) (Hospital, bool) {
	i, ok := s.hospitalByID[id]
	if !ok {
		return Hospital{}, false
	}
	return s.hospitals[i], true
}

// PatientsByDoctor returns the patients assigned to a doctor.
func (s *Store) PatientsByDoctor(doctorID string) []Patient {
	var out []Patient
	for _, p := range s.patients {
		if p.DoctorID == doctorID {
			out = append(out, p)
		}
	}
	return out
}

// PatientsByHospital returns the patients assigned to a hospital.
func (s *Store) PatientsByHospital(hospitalID string) []Patient {
	var out []Patient
	for _, p := range s.patients {
		if p.HospitalID == hospitalID {
			out = append(out, p)
		}
	}
	return out
}

// ComplianceRate reports the percentage of patients with Compliant status,
// rounded to the nearest integer.
func (s *Store) ComplianceRate() int {
	if len(s.patients) == 0 {
		return 0
	}
	compliant := 0
	for _, p := range s.patients {
		if p.ComplianceStatus == Compliant {
			compliant++
		}
	}
	return int(float64(compliant)/float64(len(s.patients))*100 + 0.5)
}
