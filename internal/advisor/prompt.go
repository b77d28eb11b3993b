package advisor

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const baseInstruction = `You are the senior support lead of a SaaS platform. Your job is to coach support agents on how to handle tickets under a strict four-level protocol.

**Support levels:**
- L0 (Self-service): tutorials, FAQ, basic setup. Goal: deflect tickets.
- L1 (Basic): non-technical agents. Simple questions, plan questions, installation help.
- L2 (Technical): API problems, integrations, bugs, instability.
- L3 (Engineering): critical architecture failures, system outage.

**Golden rules:**
1. **SLA:** first response < 10 mins. Resolution < 24h.
2. **Refund policy:** NEVER refund immediately.
   - Step 1: Diagnose.
   - Step 2: Fix.
   - Step 3: Offer an upgrade or temporary credit.
   - A refund is the absolute last resort. 80% of people want results, not their money back.
3. **Checklists:** always provide a checklist covering the basics (connection? API key? ban? quota?) to avoid needless escalations.

**Output:**
Analyse the customer's situation and return structured JSON containing:
- Classification (level/urgency)
- The protocol (technical checklist)
- The script (what to say: professional, empathetic, solution oriented)
- The "never say" list (phrases that sound unprofessional or admit fault before diagnosis)
- Retention strategy (how to turn this into a win)`

const noKnowledge = "No additional internal documents loaded."

// SystemInstruction combines the fixed protocol with the rendered knowledge
// base.
func SystemInstruction(knowledge string) string {
	if strings.TrimSpace(knowledge) == "" {
		knowledge = noKnowledge
	}
	return fmt.Sprintf(`%s

**INTERNAL KNOWLEDGE BASE (UPDATED RULES):**
Use the information below to replace or extend the default rules where it applies:
%s`, baseInstruction, knowledge)
}

// UserContent wraps the situation the agent typed.
func UserContent(situation string) string {
	return fmt.Sprintf("Situation: %q", situation)
}

// responseSchema constrains the model output to the Advice shape.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"level":     {Type: genai.TypeString, Description: "Suggested support level (L0, L1, L2 or L3)"},
				"urgency":   {Type: genai.TypeString, Description: "Suggested urgency (low, medium, high, critical)"},
				"rootCause": {Type: genai.TypeString, Description: "Short diagnosis of the problem"},
			},
		},
		"protocol": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"checklist":       stringList("Technical diagnosis checklist items"),
				"internalActions": stringList("Steps the agent performs in the system"),
			},
		},
		"communication": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"script":   {Type: genai.TypeString, Description: "The exact text to send to the customer"},
				"tone":     {Type: genai.TypeString, Description: "Recommended tone (empathetic, technical, firm)"},
				"neverSay": stringList("Phrases or excuses to strictly avoid"),
			},
		},
		"retention": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"strategy":   {Type: genai.TypeString, Description: "Specific tactic to keep the customer (upgrade offer, call, setup help)"},
				"refundRisk": {Type: genai.TypeString, Enum: []string{"low", "medium", "high"}},
			},
		},
	},
	Required: []string{"analysis", "protocol", "communication", "retention"},
}

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: description,
	}
}
