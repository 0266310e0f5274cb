package directory

// Provider is an insurance payer (EPS) patients book through.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Specialty is a medical specialty patients can request.
type Specialty struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Practitioner is a doctor attached to one specialty. Slots is the canonical
// ordered set of daily times ("HH:MM") and doubles as the maximum daily capacity.
type Practitioner struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SpecialtyID string   `json:"specialty_id"`
	Slots       []string `json:"available_hours"`
}
