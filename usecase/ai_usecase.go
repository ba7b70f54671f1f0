package usecase

import (
	"context"
	"math/rand/v2"

	"ecobarter-backend/pkg/gemini"
	"ecobarter-backend/pkg/llm"

	"github.com/zeromicro/go-zero/core/logx"
)

// imageDescriber is the subset of the Gemini client the descriptor needs.
type imageDescriber interface {
	DescribeImage(ctx context.Context, instruction, mediaType string, data []byte) (string, error)
	Close() error
}

// AIUsecase holds the model-backed operations. Each call takes the remote
// settings explicitly and falls back to local rules when the remote side is
// unconfigured or fails; none of them return an error.
type AIUsecase struct {
	intn      func(n int) int
	newGemini func(ctx context.Context, apiKey, model string) (imageDescriber, error)
}

func NewAIUsecase() *AIUsecase {
	return &AIUsecase{
		intn: rand.IntN,
		newGemini: func(ctx context.Context, apiKey, model string) (imageDescriber, error) {
			return gemini.NewClient(ctx, apiKey, model)
		},
	}
}

// complete runs one remote chat completion. ok is false when the caller
// should use its fallback.
func (u *AIUsecase) complete(ctx context.Context, s llm.Settings, req llm.ChatRequest, op string) (string, bool) {
	log := logx.WithContext(ctx)
	if !s.Enabled() {
		log.Infof("%s: AI credential not configured, using fallback", op)
		return "", false
	}
	client, err := llm.NewClient(s)
	if err != nil {
		log.Errorf("%s: init client failed: %v", op, err)
		return "", false
	}
	text, err := client.CompleteWithin(ctx, req)
	if err != nil {
		log.Errorf("%s: completion failed (status %d), using fallback: %v", op, llm.StatusCode(err), err)
		return "", false
	}
	return text, true
}
