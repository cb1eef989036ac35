package outbound

import "context"

// AIClient is the text-completion provider behind every AI action. A single
// completion is attempted per request; retry policy, if any, belongs to the
// implementation, not the orchestrator.
type AIClient interface {
	// Complete sends a system/user prompt pair and returns the raw
	// completion text exactly as the provider produced it.
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}
