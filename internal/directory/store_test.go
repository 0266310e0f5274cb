package directory

import "testing"

func TestSeededStoreLookups(t *testing.T) {
	store := NewSeededStore()

	if got := len(store.Providers()); got != 5 {
		t.Fatalf("expected 5 providers, got %d", got)
	}
	if got := len(store.Specialties()); got != 9 {
		t.Fatalf("expected 9 specialties, got %d", got)
	}
	if got := len(store.Practitioners()); got != 7 {
		t.Fatalf("expected 7 practitioners, got %d", got)
	}

	p, ok := store.ProviderByID("eps_1")
	if !ok || p.Code != "SURA" {
		t.Fatalf("unexpected provider lookup result: %+v ok=%v", p, ok)
	}

	d, ok := store.PractitionerByID("doc_1")
	if !ok || d.SpecialtyID != "spec_1" {
		t.Fatalf("unexpected practitioner lookup result: %+v ok=%v", d, ok)
	}
	if len(d.Slots) != 5 || d.Slots[0] != "09:00" {
		t.Fatalf("unexpected canonical slots for doc_1: %v", d.Slots)
	}
}

func TestLookupMissesAreNotErrors(t *testing.T) {
	store := NewSeededStore()

	if _, ok := store.ProviderByID("eps_999"); ok {
		t.Fatal("expected missing provider to report ok=false")
	}
	if _, ok := store.SpecialtyByID(""); ok {
		t.Fatal("expected missing specialty to report ok=false")
	}
	if docs := store.PractitionersBySpecialty("spec_999"); len(docs) != 0 {
		t.Fatalf("expected no practitioners for unknown specialty, got %d", len(docs))
	}
}

func TestPractitionersBySpecialtyFilters(t *testing.T) {
	store := NewSeededStore()

	docs := store.PractitionersBySpecialty("spec_1")
	if len(docs) != 1 || docs[0].ID != "doc_1" {
		t.Fatalf("unexpected practitioners for spec_1: %+v", docs)
	}
}

func TestListingsAreCopies(t *testing.T) {
	store := NewSeededStore()

	providers := store.Providers()
	providers[0].Name = "mutated"

	fresh, _ := store.ProviderByID(providers[0].ID)
	if fresh.Name == "mutated" {
		t.Fatal("mutating a listing should not affect the store")
	}
}
