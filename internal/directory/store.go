package directory

// Store exposes read-only lookups over the reference dataset.
type Store interface {
	Providers() []Provider
	Specialties() []Specialty
	Practitioners() []Practitioner
	PractitionersBySpecialty(specialtyID string) []Practitioner
	ProviderByID(id string) (Provider, bool)
	SpecialtyByID(id string) (Specialty, bool)
	PractitionerByID(id string) (Practitioner, bool)
	SimilarProviders(query string, n int) []Match
	SimilarSpecialties(query string, n int) []Match
	SimilarPractitioners(query string, n int) []Match
}

// InMemoryStore holds the static reference collections. The data never
// changes after construction, so reads need no synchronization.
type InMemoryStore struct {
	providers     []Provider
	specialties   []Specialty
	practitioners []Practitioner

	providerIdx     map[string]int
	specialtyIdx    map[string]int
	practitionerIdx map[string]int
}

// NewInMemoryStore builds a store over the given collections.
func NewInMemoryStore(providers []Provider, specialties []Specialty, practitioners []Practitioner) *InMemoryStore {
	s := &InMemoryStore{
		providers:       providers,
		specialties:     specialties,
		practitioners:   practitioners,
		providerIdx:     make(map[string]int, len(providers)),
		specialtyIdx:    make(map[string]int, len(specialties)),
		practitionerIdx: make(map[string]int, len(practitioners)),
	}
	for i, p := range providers {
		s.providerIdx[p.ID] = i
	}
	for i, sp := range specialties {
		s.specialtyIdx[sp.ID] = i
	}
	for i, d := range practitioners {
		s.practitionerIdx[d.ID] = i
	}
	return s
}

// NewSeededStore builds a store preloaded with the reference dataset.
func NewSeededStore() *InMemoryStore {
	return NewInMemoryStore(seedProviders(), seedSpecialties(), seedPractitioners())
}

// Providers returns all insurance providers.
func (s *InMemoryStore) Providers() []Provider {
	out := make([]Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// Specialties returns all specialties.
func (s *InMemoryStore) Specialties() []Specialty {
	out := make([]Specialty, len(s.specialties))
	copy(out, s.specialties)
	return out
}

// Practitioners returns all practitioners.
func (s *InMemoryStore) Practitioners() []Practitioner {
	out := make([]Practitioner, len(s.practitioners))
	copy(out, s.practitioners)
	return out
}

// PractitionersBySpecialty returns the practitioners under a specialty,
// in seed order. Unknown specialties yield an empty slice.
func (s *InMemoryStore) PractitionersBySpecialty(specialtyID string) []Practitioner {
	var out []Practitioner
	for _, d := range s.practitioners {
		if d.SpecialtyID == specialtyID {
			out = append(out, d)
		}
	}
	return out
}

// ProviderByID looks up a provider.
func (s *InMemoryStore) ProviderByID(id string) (Provider, bool) {
	i, ok := s.providerIdx[id]
	if !ok {
		return Provider{}, false
	}
	return s.providers[i], true
}

// SpecialtyByID looks up a specialty.
func (s *InMemoryStore) SpecialtyByID(id string) (Specialty, bool) {
	i, ok := s.specialtyIdx[id]
	if !ok {
		return Specialty{}, false
	}
	return s.specialties[i], true
}

// PractitionerByID looks up a practitioner.
func (s *InMemoryStore) PractitionerByID(id string) (Practitioner, bool) {
	i, ok := s.practitionerIdx[id]
	if !ok {
		return Practitioner{}, false
	}
	return s.practitioners[i], true
}
