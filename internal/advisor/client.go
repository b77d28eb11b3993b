// Package advisor talks to the generative-language API that turns a
// customer situation into structured protocol advice.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/spec-kit/support-desk/internal/domain"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.4
)

var (
	ErrNoCredential      = errors.New("advisor api key not configured")
	ErrEmptySituation    = errors.New("situation is empty")
	ErrMalformedResponse = errors.New("malformed advice response")
)

// Config configures a Client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	HTTPClient  *http.Client
}

// Client issues single-attempt advice requests through the Gemini SDK. It
// is safe for concurrent use; requests share nothing but the knowledge base.
type Client struct {
	model       string
	temperature float32
	genai       *genai.Client
	initErr     error
	knowledge   *KnowledgeBase
}

// NewClient creates a client reading context from knowledge. Without an API
// key no SDK client is built and every request fails with ErrNoCredential.
func NewClient(cfg Config, knowledge *KnowledgeBase) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if knowledge == nil {
		knowledge = NewKnowledgeBase(0, 0)
	}

	c := &Client{
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		knowledge:   knowledge,
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		c.genai, c.initErr = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:     key,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: cfg.HTTPClient,
			HTTPOptions: genai.HTTPOptions{
				BaseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
				APIVersion: "v1beta",
			},
		})
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.genai != nil || c.initErr != nil
}

// Model returns the model id requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Advise requests protocol advice for situation.
func (c *Client) Advise(ctx context.Context, situation string) (*domain.Advice, error) {
	if !c.Configured() {
		return nil, ErrNoCredential
	}
	if c.initErr != nil {
		return nil, fmt.Errorf("creating genai client: %w", c.initErr)
	}
	if strings.TrimSpace(situation) == "" {
		return nil, ErrEmptySituation
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(UserContent(situation)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(c.knowledge.Render()), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
		Temperature:       genai.Ptr(c.temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("calling advice API: %w", err)
	}
	return ParseAdvice(resp.Text())
}

// ParseAdvice decodes the model's JSON text. All four sections must be
// present and the refund risk must be a known grade.
func ParseAdvice(text string) (*domain.Advice, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}

	var raw struct {
		Analysis      *domain.AdviceAnalysis      `json:"analysis"`
		Protocol      *domain.AdviceProtocol      `json:"protocol"`
		Communication *domain.AdviceCommunication `json:"communication"`
		Retention     *domain.AdviceRetention     `json:"retention"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.Analysis == nil || raw.Protocol == nil || raw.Communication == nil || raw.Retention == nil {
		return nil, fmt.Errorf("%w: missing section", ErrMalformedResponse)
	}

	risk := domain.RefundRisk(strings.ToLower(strings.TrimSpace(string(raw.Retention.RefundRisk))))
	if !risk.Valid() {
		return nil, fmt.Errorf("%w: refund risk %q", ErrMalformedResponse, raw.Retention.RefundRisk)
	}
	raw.Retention.RefundRisk = risk

	advice := &domain.Advice{
		Analysis:      *raw.Analysis,
		Protocol:      *raw.Protocol,
		Communication: *raw.Communication,
		Retention:     *raw.Retention,
	}
	if advice.Protocol.Checklist == nil {
		advice.Protocol.Checklist = []string{}
	}
	if advice.Protocol.InternalActions == nil {
		advice.Protocol.InternalActions = []string{}
	}
	if advice.Communication.NeverSay == nil {
		advice.Communication.NeverSay = []string{}
	}
	return advice, nil
}
