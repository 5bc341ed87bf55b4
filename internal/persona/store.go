package persona

import (
	"encoding/json"
	"fmt"
	"os"
)

// Persona describes a single assistant identity from the persona
// document. Only id is required; every other field degrades gracefully
// when absent.
type Persona struct {
	ID               string           `json:"id"`
	DisplayName      string           `json:"display_name,omitempty"`
	Description      string           `json:"description,omitempty"`
	VoiceProfile     *VoiceProfile    `json:"voice_profile,omitempty"`
	PrimaryFunctions []string         `json:"primary_functions,omitempty"`
	CommonQueries    []string         `json:"common_queries,omitempty"`
	EscalationRules  *EscalationRules `json:"escalation_rules,omitempty"`
	ResponseStyle    string           `json:"response_style,omitempty"`
}

// VoiceProfile tunes how the persona should sound on a call.
type VoiceProfile struct {
	Tone  string `json:"tone,omitempty"`
	Pace  string `json:"pace,omitempty"`
	Style string `json:"style,omitempty"`
}

// EscalationRules lists keywords that require immediate escalation and
// the action to take.
type EscalationRules struct {
	EmergencyKeywords []string `json:"emergency_keywords,omitempty"`
	Action            string   `json:"action,omitempty"`
}

// GlobalRules apply to every persona regardless of identity.
type GlobalRules struct {
	NoDiagnosis                      bool   `json:"no_diagnosis,omitempty"`
	NoPrescription                   bool   `json:"no_prescription,omitempty"`
	AlwaysDisclaimerForMedicalAdvice bool   `json:"always_disclaimer_for_medical_advice,omitempty"`
	EmergencyRedirect                string `json:"emergency_redirect,omitempty"`
	ToneRequirement                  string `json:"tone_requirement,omitempty"`
}

// Document is the full persona file: the persona list plus the global
// rules shared by all of them.
type Document struct {
	Personas    []Persona   `json:"personas"`
	GlobalRules GlobalRules `json:"global_rules"`
}

// Resolve returns the persona with the given id, or nil if absent.
func (d *Document) Resolve(personaID string) *Persona {
	for i := range d.Personas {
		if d.Personas[i].ID == personaID {
			return &d.Personas[i]
		}
	}
	return nil
}

// Name returns the display name, falling back to the id.
func (p *Persona) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

// Store loads persona documents from a JSON file. The file is re-read
// on every lookup so edits take effect without a restart; the document
// is small and lookups are rare (one per call).
type Store struct {
	path string
}

// NewStore creates a store backed by the given JSON file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and parses the persona document.
func (s *Store) Load() (*Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse persona file %s: %w", s.path, err)
	}

	for i := range doc.Personas {
		if doc.Personas[i].ID == "" {
			return nil, fmt.Errorf("persona file %s: persona at index %d has no id", s.path, i)
		}
	}

	return &doc, nil
}

// Resolve loads the document and returns the persona with the given id,
// or nil if no such persona exists.
func (s *Store) Resolve(personaID string) (*Persona, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return doc.Resolve(personaID), nil
}

// List loads the document and returns all personas.
func (s *Store) List() ([]Persona, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return doc.Personas, nil
}
