package directory

// Reference dataset. The slot sets below are each practitioner's full daily
// capacity; availability is always derived against these, never stored.

func seedProviders() []Provider {
	return []Provider{
		{ID: "eps_1", Name: "Sura EPS", Code: "SURA"},
		{ID: "eps_2", Name: "Sanitas EPS", Code: "SANITAS"},
		{ID: "eps_3", Name: "Compensar EPS", Code: "COMPENSAR"},
		{ID: "eps_4", Name: "Nueva EPS", Code: "NUEVA"},
		{ID: "eps_5", Name: "Famisanar EPS", Code: "FAMISANAR"},
	}
}

func seedSpecialties() []Specialty {
	return []Specialty{
		{ID: "spec_1", Name: "Medicina General", Description: "Consulta médica general"},
		{ID: "spec_2", Name: "Cardiología", Description: "Especialista en corazón"},
		{ID: "spec_3", Name: "Dermatología", Description: "Especialista en piel"},
		{ID: "spec_4", Name: "Ginecología", Description: "Especialista en salud femenina"},
		{ID: "spec_5", Name: "Pediatría", Description: "Especialista en niños"},
		{ID: "spec_6", Name: "Oftalmología", Description: "Especialista en ojos"},
		{ID: "spec_7", Name: "Psicología", Description: "Salud mental"},
		{ID: "spec_8", Name: "Ortopedia", Description: "Especialista en huesos y articulaciones"},
		{ID: "spec_9", Name: "Neurología", Description: "Especialista en sistema nervioso"},
	}
}

func seedPractitioners() []Practitioner {
	return []Practitioner{
		{ID: "doc_1", Name: "Dr. Juan Pérez", SpecialtyID: "spec_1", Slots: []string{"09:00", "10:00", "11:00", "14:00", "15:00"}},
		{ID: "doc_2", Name: "Dr. María González", SpecialtyID: "spec_2", Slots: []string{"08:00", "09:00", "10:00", "16:00"}},
		{ID: "doc_3", Name: "Dr. Carlos Rodríguez", SpecialtyID: "spec_3", Slots: []string{"10:00", "11:00", "14:00", "15:00", "16:00"}},
		{ID: "doc_4", Name: "Dra. Ana López", SpecialtyID: "spec_4", Slots: []string{"08:00", "09:00", "14:00", "15:00"}},
		{ID: "doc_5", Name: "Dr. Luis Martínez", SpecialtyID: "spec_5", Slots: []string{"09:00", "10:00", "11:00", "15:00", "16:00"}},
		{ID: "doc_6", Name: "Dra. Sofia Hernández", SpecialtyID: "spec_6", Slots: []string{"08:00", "10:00", "11:00", "14:00"}},
		{ID: "doc_7", Name: "Dr. Roberto Silva", SpecialtyID: "spec_7", Slots: []string{"09:00", "10:00", "15:00", "16:00", "17:00"}},
	}
}
