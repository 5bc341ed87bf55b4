package persona

import (
	"fmt"
	"strings"
)

// ErrUnknownPersona is returned when a prompt is requested for a
// persona id that does not exist in the document.
type ErrUnknownPersona struct {
	PersonaID string
}

func (e *ErrUnknownPersona) Error() string {
	return fmt.Sprintf("unknown persona: %s", e.PersonaID)
}

// BuildSystemInstruction assembles the system instruction for a persona.
// Global rules come first, then the persona identity, voice profile,
// functions, queries, escalation rules and response style, closing with
// the voice-suitability directive. Line order is deterministic; callers
// rely on identical personas producing identical prompts.
func BuildSystemInstruction(doc *Document, personaID string) (string, error) {
	p := doc.Resolve(personaID)
	if p == nil {
		return "", &ErrUnknownPersona{PersonaID: personaID}
	}

	rules := doc.GlobalRules
	parts := []string{"You are a telephonic voice AI assistant. IMPORTANT RULES:"}

	if rules.NoDiagnosis {
		parts = append(parts, "- Never diagnose medical conditions.")
	}
	if rules.NoPrescription {
		parts = append(parts, "- Never prescribe medications.")
	}
	if rules.AlwaysDisclaimerForMedicalAdvice {
		parts = append(parts,
			"- Always include an appropriate disclaimer when giving medical-related "+
				"guidance (e.g., 'This is general guidance, not medical advice. "+
				"Please consult a healthcare provider.')")
	}
	if rules.EmergencyRedirect != "" {
		parts = append(parts, "- "+rules.EmergencyRedirect)
	}
	if rules.ToneRequirement != "" {
		parts = append(parts, "- Tone: "+rules.ToneRequirement)
	}

	parts = append(parts, fmt.Sprintf("\nYou are acting as the %s.", p.Name()))

	if vp := p.VoiceProfile; vp != nil {
		var vpParts []string
		if vp.Tone != "" {
			vpParts = append(vpParts, "tone: "+vp.Tone)
		}
		if vp.Pace != "" {
			vpParts = append(vpParts, "pace: "+vp.Pace)
		}
		if vp.Style != "" {
			vpParts = append(vpParts, "style: "+vp.Style)
		}
		if len(vpParts) > 0 {
			parts = append(parts, "Voice profile: "+strings.Join(vpParts, ", "))
		}
	}

	if len(p.PrimaryFunctions) > 0 {
		parts = append(parts, "\nYour primary functions: "+strings.Join(p.PrimaryFunctions, "; "))
	}

	if len(p.CommonQueries) > 0 {
		parts = append(parts, "\nYou often help with queries like: "+strings.Join(p.CommonQueries, "; "))
	}

	if esc := p.EscalationRules; esc != nil {
		if len(esc.EmergencyKeywords) > 0 {
			parts = append(parts,
				fmt.Sprintf("\nEmergency keywords (escalate immediately): %s",
					strings.Join(esc.EmergencyKeywords, ", ")))
		}
		if esc.Action != "" {
			parts = append(parts, "Emergency action: "+esc.Action)
		}
	}

	if p.ResponseStyle != "" {
		parts = append(parts, "\nResponse style: "+p.ResponseStyle)
	}

	parts = append(parts,
		"\nKeep responses concise and suitable for voice (1-2 sentences when possible). "+
			"Avoid special characters or complex formatting. "+
			"Prioritize brevity for faster turn-taking.")

	return strings.Join(parts, "\n"), nil
}
