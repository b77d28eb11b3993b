package domain

// RefundRisk grades how likely a customer is to demand a refund.
type RefundRisk string

const (
	RefundRiskLow    RefundRisk = "low"
	RefundRiskMedium RefundRisk = "medium"
	RefundRiskHigh   RefundRisk = "high"
)

// Valid reports whether r is one of the allowed grades.
func (r RefundRisk) Valid() bool {
	switch r {
	case RefundRiskLow, RefundRiskMedium, RefundRiskHigh:
		return true
	}
	return false
}

// Advice is the structured protocol guidance returned by the advice service.
type Advice struct {
	Analysis      AdviceAnalysis      `json:"analysis"`
	Protocol      AdviceProtocol      `json:"protocol"`
	Communication AdviceCommunication `json:"communication"`
	Retention     AdviceRetention     `json:"retention"`
}

// AdviceAnalysis classifies the situation.
type AdviceAnalysis struct {
	Level     string `json:"level"`
	Urgency   string `json:"urgency"`
	RootCause string `json:"rootCause"`
}

// AdviceProtocol lists what the agent should check and do.
type AdviceProtocol struct {
	Checklist       []string `json:"checklist"`
	InternalActions []string `json:"internalActions"`
}

// AdviceCommunication is the customer-facing script.
type AdviceCommunication struct {
	Script   string   `json:"script"`
	Tone     string   `json:"tone"`
	NeverSay []string `json:"neverSay"`
}

// AdviceRetention describes how to keep the customer.
type AdviceRetention struct {
	Strategy   string     `json:"strategy"`
	RefundRisk RefundRisk `json:"refundRisk"`
}
