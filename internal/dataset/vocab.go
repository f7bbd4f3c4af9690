package dataset

// Fixed vocabularies used by the generator.

var medicalConditions = []string{
	"Type 2 Diabetes", "Hypertension", "Hyperlipidemia", "Asthma", "COPD", "Depression",
	"Anxiety Disorder", "Osteoarthritis", "Rheumatoid Arthritis", "Coronary Artery Disease",
	"Heart Failure", "Atrial Fibrillation", "Stroke", "Chronic Kidney Disease", "Hypothyroidism",
	"Gastroesophageal Reflux", "Migraine", "Epilepsy", "Parkinson's Disease", "Alzheimer's Disease",
}

type medicationTemplate struct {
	Name       string
	Dosages    []string
	Category   string
	Conditions []string
}

var medicationCatalog = []medicationTemplate{
	{"Metformin", []string{"500mg", "850mg", "1000mg"}, "Antidiabetic", []string{"Type 2 Diabetes"}},
	{"Lisinopril", []string{"5mg", "10mg", "20mg"}, "ACE Inhibitor", []string{"Hypertension", "Heart Failure"}},
	{"Atorvastatin", []string{"10mg", "20mg", "40mg", "80mg"}, "Statin", []string{"Hyperlipidemia"}},
	{"Amlodipine", []string{"2.5mg", "5mg", "10mg"}, "Calcium Channel Blocker", []string{"Hypertension"}},
	{"Omeprazole", []string{"20mg", "40mg"}, "Proton Pump Inhibitor", []string{"Gastroesophageal Reflux"}},
	{"Levothyroxine", []string{"25mcg", "50mcg", "75mcg", "100mcg", "125mcg"}, "Thyroid Hormone", []string{"Hypothyroidism"}},
	{"Sertraline", []string{"25mg", "50mg", "100mg"}, "SSRI", []string{"Depression", "Anxiety Disorder"}},
	{"Albuterol", []string{"90mcg/inhaler"}, "Bronchodilator", []string{"Asthma", "COPD"}},
	{"Warfarin", []string{"1mg", "2mg", "5mg"}, "Anticoagulant", []string{"Atrial Fibrillation", "Stroke"}},
	{"Furosemide", []string{"20mg", "40mg", "80mg"}, "Diuretic", []string{"Heart Failure", "Hypertension"}},
	{"Aspirin", []string{"81mg", "325mg"}, "Antiplatelet", []string{"Coronary Artery Disease", "Stroke"}},
	{"Ibuprofen", []string{"200mg", "400mg", "600mg"}, "NSAID", []string{"Osteoarthritis", "Rheumatoid Arthritis"}},
	{"Sumatriptan", []string{"25mg", "50mg", "100mg"}, "Triptan", []string{"Migraine"}},
	{"Phenytoin", []string{"100mg", "200mg"}, "Anticonvulsant", []string{"Epilepsy"}},
	{"Carbidopa-Levodopa", []string{"25-100mg", "25-250mg"}, "Dopamine Precursor", []string{"Parkinson's Disease"}},
}

var specialties = []string{
	"Internal Medicine", "Family Medicine", "Cardiology", "Endocrinology", "Pulmonology",
	"Gastroenterology", "Nephrology", "Neurology", "Psychiatry", "Rheumatology",
	"Dermatology", "Ophthalmology", "Orthopedics", "Urology", "Oncology",
}

var hospitalNames = []string{
	"Apollo Hospital", "Fortis Healthcare", "Max Super Speciality Hospital", "Medanta - The Medicity",
	"Christian Medical College", "Tata Memorial Hospital", "Narayana Health", "Manipal Hospital",
	"Columbia Asia Hospital", "Sir Ganga Ram Hospital", "Ruby Hall Clinic", "Jaslok Hospital",
	"Hinduja Hospital", "Lilavati Hospital", "King Edward Memorial Hospital",
}

var hospitalTypes = []string{
	"Multi-specialty", "Super-specialty", "Teaching Hospital", "Government Hospital", "Private Hospital",
}

var cities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata", "Hyderabad", "Pune", "Ahmedabad",
	"Jaipur", "Lucknow", "Kanpur", "Nagpur", "Indore", "Bhopal", "Patna", "Vadodara",
}

var maleFirstNames = []string{
	"Aarav", "Vivaan", "Aditya", "Vihaan", "Arjun", "Sai", "Reyansh", "Ayaan", "Krishna", "Ishaan",
	"Atharv", "Arnav", "Kiaan", "Shivansh", "Abhinav", "Rudra",
}

var femaleFirstNames = []string{
	"Saanvi", "Aanya", "Aadhya", "Aaradhya", "Ananya", "Pari", "Diya", "Myra", "Anika", "Avni",
	"Kavya", "Riya", "Kiara", "Aditi", "Shreya", "Priya",
}

var lastNames = []string{
	"Sharma", "Verma", "Singh", "Kumar", "Gupta", "Patel", "Jain", "Agarwal", "Yadav", "Shah",
	"Mehta", "Reddy", "Rao", "Iyer", "Menon", "Nair",
}

var doseFrequencies = map[string][]string{
	"Once daily":        {"8:00 AM"},
	"Twice daily":       {"8:00 AM", "8:00 PM"},
	"Three times daily": {"8:00 AM", "2:00 PM", "8:00 PM"},
}

var frequencyNames = []string{"Once daily", "Twice daily", "Three times daily"}
