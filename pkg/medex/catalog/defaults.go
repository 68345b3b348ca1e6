package catalog

// Default returns a fresh copy of the built-in medical catalog.
// The Hypertension rule's self-referential symptom and the Bronchitis
// Wheezing symptom are kept as authored.
func Default() *Catalog {
	return &Catalog{
		Symptoms: []string{
			"Fever", "Cough", "Headache", "SoreThroat", "Fatigue", "MuscleAches", "RunnyNose",
			"ShortnessOfBreath", "LossOfTaste", "LossOfSmell", "ChestPain", "Nausea", "Diarrhea",
			"Dizziness", "DifficultySwallowing", "JointPain", "SkinRash", "SwollenLymphNodes", "AbdominalPain",
		},
		Illnesses: []Illness{
			{Name: "CommonCold", Symptoms: []string{"Fever", "Cough"}},
			{Name: "Flu", Symptoms: []string{"Fever", "Cough", "Headache"}},
			{Name: "StrepThroat", Symptoms: []string{"SoreThroat", "Fever"}},
			{Name: "Allergies", Symptoms: []string{"RunnyNose"}},
			{Name: "COVID19", Symptoms: []string{"Fever", "Cough", "Fatigue", "MuscleAches"}},
			{Name: "Pneumonia", Symptoms: []string{"Fever", "Cough", "ShortnessOfBreath"}},
			{Name: "Asthma", Symptoms: []string{"Cough", "ChestPain", "ShortnessOfBreath"}},
			{Name: "Bronchitis", Symptoms: []string{"Fever", "Cough", "Wheezing"}},
			{Name: "Gastroenteritis", Symptoms: []string{"Fever", "Nausea", "Diarrhea"}},
			{Name: "Sinusitis", Symptoms: []string{"Fever", "RunnyNose"}},
			{Name: "Migraine", Symptoms: []string{"Headache", "Nausea"}},
			{Name: "LymeDisease", Symptoms: []string{"Fever", "JointPain", "SkinRash"}},
			{Name: "Mononucleosis", Symptoms: []string{"Fever", "Headache", "SwollenLymphNodes"}},
			{Name: "Hypertension", Symptoms: []string{"Fatigue", "Headache", "Hypertension"}},
			{Name: "GERD", Symptoms: []string{"AbdominalPain", "Nausea"}},
			{Name: "UTI", Symptoms: []string{"Fever", "PainDuringUrination"}},
			{Name: "OtisMedia", Symptoms: []string{"EarPain", "Fever"}},
		},
		Rules: []string{
			"CommonCold(Fever) & CommonCold(Cough) ==> CommonCold(x)",
			"Flu(Fever) & Flu(Cough) & Flu(Headache) ==> Flu(x)",
			"StrepThroat(SoreThroat) & StrepThroat(Fever) ==> StrepThroat(x)",
			"Allergies(RunnyNose) ==> Allergies(x)",
			"COVID19(Fever) & COVID19(Cough) & COVID19(Fatigue) & COVID19(MuscleAches) ==> COVID19(x)",
			"Pneumonia(Fever) & Pneumonia(Cough) & Pneumonia(ShortnessOfBreath) & Pneumonia(Fatigue) ==> Pneumonia(x)",
			"COVID19(Fever) & COVID19(Cough) & COVID19(LossOfTaste) & COVID19(LossOfSmell) ==> COVID19(x)",
			"Asthma(Cough) & Asthma(ChestPain) & Asthma(ShortnessOfBreath) ==> Asthma(x)",
			"Gastroenteritis(Fever) & Gastroenteritis(MuscleAches) & Gastroenteritis(Diarrhea) ==> Gastroenteritis(x)",
			"Sinusitis(Fever) & Sinusitis(RunnyNose) ==> Sinusitis(x)",
			"Migraine(Headache) & Migraine(Nausea) ==> Migraine(x)",
			"Mononucleosis(Fever) & Mononucleosis(Headache) & Mononucleosis(SwollenLymphNodes) ==> Mononucleosis(x)",
			"LymeDisease(Fever) & LymeDisease(JointPain) & LymeDisease(SkinRash) ==> LymeDisease(x)",
			"StrepThroat(Fever) & StrepThroat(Headache) & StrepThroat(DifficultySwallowing) ==> StrepThroat(x)",
			"Pneumonia(Fever) & Pneumonia(Cough) & Pneumonia(Dizziness) ==> Pneumonia(x)",
			"GERD(AbdominalPain) & GERD(Nausea) ==> GERD(x)",
			"UTI(Fever) & UTI(PainDuringUrination) ==> UTI(x)",
			"Bronchitis(Fever) & Bronchitis(Cough) & Bronchitis(Wheezing) ==> Bronchitis(x)",
			"Hypertension(Fatigue) & Hypertension(Headache) & Hypertension(Hypertension) ==> Hypertension(x)",
		},
	}
}
