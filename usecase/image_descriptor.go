package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ecobarter-backend/model"
	"ecobarter-backend/pkg/gemini"
	"ecobarter-backend/pkg/llm"

	"github.com/tidwall/gjson"
	"github.com/zeromicro/go-zero/core/logx"
)

// MaxImageSize is the largest upload sent to a vision model.
const MaxImageSize = 10 << 20

const defaultVisionConfidence = 85

var errNoJSON = errors.New("no JSON object in reply")

const visionSystemPrompt = `You are an expert item appraiser and cataloger for EcoBarter AI. Analyze the provided image and extract detailed information about the item.

Available categories: Electronics, Musical Instruments, Kitchen, Books, Clothing, Sports, Tools, Art & Crafts, Home & Garden, Toys & Games

Available conditions: excellent (like new), good (minor wear), fair (some wear), poor (functional but worn)

Respond with a valid JSON object containing:
{
  "title": "Specific item name (e.g., 'Vintage Acoustic Guitar', 'iPhone 12 Pro')",
  "description": "Detailed description highlighting key features, brand, model, and visible condition",
  "category": "One of the available categories",
  "condition": "One of the available conditions based on visible wear",
  "value": "Estimated market value in USD (number only)",
  "confidence": "Confidence level (1-100) in the analysis"
}

Be specific with titles and descriptions. Include brand names if visible. Base value estimates on current market prices for similar items in the observed condition.`

const visionUserPrompt = "Please analyze this image and provide detailed item information in the specified JSON format."

const errAllModelsFailed = "all vision models failed"

// visionProvider is one remote model able to describe an image.
type visionProvider struct {
	name     string
	describe func(ctx context.Context, blob model.ImageBlob) (string, error)
}

// Analyze returns attribute guesses for an uploaded image. It never fails:
// invalid uploads, missing credentials and remote errors all end in the
// filename heuristics.
func (u *AIUsecase) Analyze(ctx context.Context, s llm.Settings, blob model.ImageBlob) model.ImageAnalysisResult {
	log := logx.WithContext(ctx)

	if !strings.HasPrefix(blob.MediaType, "image/") {
		log.Errorf("analyze image: %q is not an image type", blob.MediaType)
		return u.analyzeFilename(blob.Name)
	}
	if blob.Size() == 0 || blob.Size() > MaxImageSize {
		log.Errorf("analyze image: size %d outside (0, %d]", blob.Size(), MaxImageSize)
		return u.analyzeFilename(blob.Name)
	}
	if !s.Enabled() {
		log.Infof("analyze image: AI credential not configured, using filename analysis")
		return u.analyzeFilename(blob.Name)
	}

	providers, cleanup := u.visionProviders(ctx, s)
	defer cleanup()

	for _, p := range providers {
		reply, err := p.describe(ctx, blob)
		if err != nil {
			log.Infof("analyze image: model %s failed (status %d): %v", p.name, llm.StatusCode(err), err)
			continue
		}
		result, err := parseVisionReply(reply)
		if err != nil {
			log.Errorf("analyze image: unusable reply from %s: %v", p.name, err)
			result := u.analyzeFilename(blob.Name)
			result.Error = err.Error()
			return result
		}
		result.AnalyzedBy = p.name
		log.Infof("analyze image: analyzed by %s", p.name)
		return result
	}

	log.Errorf("analyze image: all vision models failed, using filename analysis")
	result := u.analyzeFilename(blob.Name)
	result.Error = errAllModelsFailed
	return result
}

// visionProviders lists the OpenAI-compatible vision models in order,
// followed by Gemini when it has its own key.
func (u *AIUsecase) visionProviders(ctx context.Context, s llm.Settings) ([]visionProvider, func()) {
	var providers []visionProvider
	cleanup := func() {}

	client, err := llm.NewClient(s)
	if err == nil {
		models := s.VisionModels
		if len(models) == 0 {
			models = llm.DefaultVisionModels
		}
		for _, m := range models {
			providers = append(providers, visionProvider{
				name: m,
				describe: func(ctx context.Context, blob model.ImageBlob) (string, error) {
					return client.CompleteWithin(ctx, llm.ChatRequest{
						Model:       m,
						System:      visionSystemPrompt,
						User:        visionUserPrompt,
						Image:       &llm.Image{MediaType: blob.MediaType, Data: blob.Data},
						MaxTokens:   800,
						Temperature: 0.3,
					})
				},
			})
		}
	}

	if key := strings.TrimSpace(s.GeminiAPIKey); key != "" && u.newGemini != nil {
		g, err := u.newGemini(ctx, key, s.GeminiModel)
		if err != nil {
			logx.WithContext(ctx).Errorf("analyze image: init gemini failed: %v", err)
		} else {
			name := s.GeminiModel
			if name == "" {
				name = gemini.DefaultModel
			}
			providers = append(providers, visionProvider{
				name: name,
				describe: func(ctx context.Context, blob model.ImageBlob) (string, error) {
					return g.DescribeImage(ctx, visionSystemPrompt+"\n\n"+visionUserPrompt, blob.MediaType, blob.Data)
				},
			})
			cleanup = func() { _ = g.Close() }
		}
	}
	return providers, cleanup
}

// parseVisionReply pulls the outermost JSON object out of a model reply and
// checks that the required attributes are present.
func parseVisionReply(reply string) (model.ImageAnalysisResult, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return model.ImageAnalysisResult{}, errNoJSON
	}
	raw := reply[start : end+1]
	if !gjson.Valid(raw) {
		return model.ImageAnalysisResult{}, fmt.Errorf("invalid JSON object in reply")
	}
	doc := gjson.Parse(raw)

	title := doc.Get("title").String()
	category := doc.Get("category").String()
	condition := doc.Get("condition").String()
	value := doc.Get("value")
	if title == "" || category == "" || condition == "" || !truthy(value) {
		return model.ImageAnalysisResult{}, fmt.Errorf("missing required fields in %s", raw)
	}

	confidence := defaultVisionConfidence
	if c := int(coerceNumber(doc.Get("confidence"))); c != 0 {
		confidence = min(max(c, 0), 100)
	}

	return model.ImageAnalysisResult{
		Title:       title,
		Description: doc.Get("description").String(),
		Category:    category,
		Condition:   condition,
		Value:       model.NonNegative(coerceNumber(value)),
		Confidence:  confidence,
	}, nil
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	}
	return r.Exists()
}

// coerceNumber reads numbers and numeric-prefixed strings such as "450 USD".
func coerceNumber(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(r.Str), "$"))
		end := 0
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || (end == 0 && s[end] == '-')) {
			end++
		}
		for end > 0 {
			if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
				return v
			}
			end--
		}
	}
	return 0
}
