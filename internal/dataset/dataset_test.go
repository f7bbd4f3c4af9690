package dataset

import "testing"

func TestGenerateDeterministic(t *testing.T) {
	cfg := GenerateConfig{Hospitals: 5, Doctors: 20, Patients: 100, Seed: 42}
	a := Generate(cfg)
	b := Generate(cfg)

	if a.TotalPatients() != 100 {
		t.Fatalf("TotalPatients = %d, want 100", a.TotalPatients())
	}
	for i, p := range a.Patients() {
		q := b.Patients()[i]
		if p.ID != q.ID || p.Name != q.Name || p.ComplianceStatus != q.ComplianceStatus {
			t.Fatalf("patient %d differs across identically seeded runs: %+v vs %+v", i, p, q)
		}
	}
}

func TestGenerateReferentialIntegrity(t *testing.T) {
	s := Generate(GenerateConfig{Hospitals: 3, Doctors: 10, Patients: 40, Seed: 7})

	for _, p := range s.Patients() {
		doc, ok := s.DoctorByID(p.DoctorID)
		if !ok {
			t.Fatalf("patient %s references unknown doctor %s", p.ID, p.DoctorID)
		}
		if doc.HospitalID != p.HospitalID {
			t.Errorf("patient %s hospital %s differs from doctor's hospital %s", p.ID, p.HospitalID, doc.HospitalID)
		}
		if _, ok := s.HospitalByID(p.HospitalID); !ok {
			t.Errorf("patient %s references unknown hospital %s", p.ID, p.HospitalID)
		}
	}
}

func TestStatusForComplianceBands(t *testing.T) {
	cases := []struct {
		compliance int
		want       ComplianceStatus
	}{
		{100, Compliant},
		{90, Compliant},
		{89, Partial},
		{70, Partial},
		{69, NonCompliant},
		{0, NonCompliant},
	}
	for _, tc := range cases {
		if got := statusForCompliance(tc.compliance); got != tc.want {
			t.Errorf("statusForCompliance(%d) = %s, want %s", tc.compliance, got, tc.want)
		}
	}
}

func TestStoreLookups(t *testing.T) {
	s := Generate(GenerateConfig{Hospitals: 2, Doctors: 4, Patients: 20, Seed: 3})

	p := s.Patients()[0]
	got, ok := s.PatientByID(p.ID)
	if !ok || got.ID != p.ID {
		t.Fatalf("PatientByID(%s) = %v, %v", p.ID, got.ID, ok)
	}

	if _, ok := s.PatientByID("nope"); ok {
		t.Error("PatientByID should miss on unknown id")
	}

	byDoctor := s.PatientsByDoctor(p.DoctorID)
	found := false
	for _, q := range byDoctor {
		if q.ID == p.ID {
			found = true
		}
		if q.DoctorID != p.DoctorID {
			t.Errorf("PatientsByDoctor returned patient %s with doctor %s", q.ID, q.DoctorID)
		}
	}
	if !found {
		t.Errorf("PatientsByDoctor(%s) missing patient %s", p.DoctorID, p.ID)
	}

	rate := s.ComplianceRate()
	if rate < 0 || rate > 100 {
		t.Errorf("ComplianceRate = %d, want within [0,100]", rate)
	}
}
