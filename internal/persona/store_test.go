package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `{
  "personas": [
    {
      "id": "vet_care_assistant",
      "display_name": "Vet Care Assistant",
      "voice_profile": {"tone": "warm", "pace": "moderate", "style": "reassuring"},
      "primary_functions": ["answer pet care questions", "book clinic appointments"],
      "common_queries": ["vaccination schedules", "diet advice"],
      "escalation_rules": {
        "emergency_keywords": ["poisoned", "seizure"],
        "action": "Advise the caller to contact an emergency vet clinic immediately."
      },
      "response_style": "Short, calm sentences."
    },
    {
      "id": "minimal"
    }
  ],
  "global_rules": {
    "no_diagnosis": true,
    "no_prescription": true,
    "always_disclaimer_for_medical_advice": true,
    "emergency_redirect": "For emergencies, tell the caller to hang up and dial their local emergency number.",
    "tone_requirement": "professional and empathetic"
  }
}`

func writeTestDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personas.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_Load(t *testing.T) {
	store := NewStore(writeTestDocument(t, testDocument))

	doc, err := store.Load()
	require.NoError(t, err)

	assert.Len(t, doc.Personas, 2)
	assert.True(t, doc.GlobalRules.NoDiagnosis)
	assert.Equal(t, "professional and empathetic", doc.GlobalRules.ToneRequirement)
}

func TestStore_LoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "nope.json"))
		_, err := store.Load()
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		store := NewStore(writeTestDocument(t, "{not json"))
		_, err := store.Load()
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("persona without id", func(t *testing.T) {
		store := NewStore(writeTestDocument(t, `{"personas": [{"display_name": "x"}]}`))
		_, err := store.Load()
		assert.ErrorContains(t, err, "has no id")
	})
}

func TestStore_Resolve(t *testing.T) {
	store := NewStore(writeTestDocument(t, testDocument))

	p, err := store.Resolve("vet_care_assistant")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Vet Care Assistant", p.Name())

	missing, err := store.Resolve("does_not_exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ReloadPicksUpEdits(t *testing.T) {
	path := writeTestDocument(t, testDocument)
	store := NewStore(path)

	p, err := store.Resolve("late_addition")
	require.NoError(t, err)
	assert.Nil(t, p)

	updated := `{"personas": [{"id": "late_addition"}], "global_rules": {}}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	p, err = store.Resolve("late_addition")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "late_addition", p.Name())
}

func TestPersona_NameFallsBackToID(t *testing.T) {
	store := NewStore(writeTestDocument(t, testDocument))

	p, err := store.Resolve("minimal")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "minimal", p.Name())
}
