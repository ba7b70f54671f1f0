package usecase

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"ecobarter-backend/model"
	"ecobarter-backend/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func TestAnalyze_NonImageUsesFilename(t *testing.T) {
	res := newTestAI().Analyze(context.Background(), llm.Settings{APIKey: "gsk_test"}, model.ImageBlob{
		Name:      "guitar.txt",
		MediaType: "text/plain",
		Data:      []byte("hello"),
	})
	assert.LessOrEqual(t, res.Confidence, 65)
	assert.Equal(t, "Guitar", res.Title)
	assert.Equal(t, "Musical Instruments", res.Category)
	assert.Equal(t, 300.0, res.Value)
	assert.Equal(t, filenameNote, res.Note)
}

func TestAnalyze_NonImageWithoutKeywordIsRandom(t *testing.T) {
	res := newTestAI().Analyze(context.Background(), llm.Settings{}, model.ImageBlob{
		Name:      "upload.bin",
		MediaType: "application/octet-stream",
		Data:      []byte{1, 2, 3},
	})
	assert.Equal(t, "Smartphone", res.Title)
	assert.Equal(t, "Electronics", res.Category)
	assert.Equal(t, 250.0, res.Value)
	assert.Equal(t, 50, res.Confidence)
	assert.Equal(t, randomNote, res.Note)
}

func TestAnalyze_OversizedUsesFilename(t *testing.T) {
	s, calls := fakeChat(t, func(string) (int, string) { return http.StatusOK, "{}" })
	res := newTestAI().Analyze(context.Background(), s, model.ImageBlob{
		Name:      "lamp.jpg",
		MediaType: "image/jpeg",
		Data:      bytes.Repeat([]byte{0}, MaxImageSize+1),
	})
	assert.Empty(t, *calls)
	assert.Equal(t, "Lamp", res.Title)
	assert.Equal(t, 65, res.Confidence)
}

func TestAnalyze_NoCredentialUsesFilename(t *testing.T) {
	res := newTestAI().Analyze(context.Background(), llm.Settings{}, model.ImageBlob{
		Name: "vintage_violin.png", MediaType: "image/png", Data: pngBytes,
	})
	assert.Equal(t, "Violin", res.Title)
	assert.Equal(t, model.ConditionGood, res.Condition)
	assert.Equal(t, 400.0, res.Value)
}

func TestAnalyze_VisionRoundTrip(t *testing.T) {
	reply := "Here is the analysis:\n```json\n" +
		`{"title":"Fender Stratocaster","description":"Sunburst electric guitar","category":"Musical Instruments","condition":"excellent","value":"650","confidence":92}` +
		"\n```"
	s, calls := fakeChat(t, func(m string) (int, string) {
		if m == "first" {
			return http.StatusServiceUnavailable, ""
		}
		return http.StatusOK, reply
	})
	s.VisionModels = []string{"first", "second", "third"}

	res := newTestAI().Analyze(context.Background(), s, model.ImageBlob{Name: "x.png", MediaType: "image/png", Data: pngBytes})

	assert.Equal(t, []string{"first", "second"}, *calls)
	assert.Equal(t, model.ImageAnalysisResult{
		Title:       "Fender Stratocaster",
		Description: "Sunburst electric guitar",
		Category:    "Musical Instruments",
		Condition:   "excellent",
		Value:       650,
		Confidence:  92,
		AnalyzedBy:  "second",
	}, res)
}

func TestAnalyze_UnparseableReplyUsesFilename(t *testing.T) {
	s, calls := fakeChat(t, func(string) (int, string) {
		return http.StatusOK, `{"title":"Bike","category":"Sports","value":120}`
	})
	s.VisionModels = []string{"first", "second"}

	res := newTestAI().Analyze(context.Background(), s, model.ImageBlob{Name: "bike.png", MediaType: "image/png", Data: pngBytes})

	assert.Equal(t, []string{"first"}, *calls)
	assert.Equal(t, "Bike", res.Title)
	assert.Equal(t, 400.0, res.Value)
	assert.Equal(t, 65, res.Confidence)
	assert.Empty(t, res.AnalyzedBy)
	assert.Contains(t, res.Error, "missing required fields")
}

func TestAnalyze_AllModelsFail(t *testing.T) {
	s, calls := fakeChat(t, func(string) (int, string) { return http.StatusInternalServerError, "" })
	res := newTestAI().Analyze(context.Background(), s, model.ImageBlob{Name: "IMG_0001.png", MediaType: "image/png", Data: pngBytes})
	assert.Len(t, *calls, len(llm.DefaultVisionModels))
	assert.Equal(t, 50, res.Confidence)
	assert.Equal(t, errAllModelsFailed, res.Error)
}

type stubDescriber struct {
	reply  string
	err    error
	closed bool
}

func (s *stubDescriber) DescribeImage(context.Context, string, string, []byte) (string, error) {
	return s.reply, s.err
}

func (s *stubDescriber) Close() error {
	s.closed = true
	return nil
}

func TestAnalyze_GeminiAfterChatModels(t *testing.T) {
	s, _ := fakeChat(t, func(string) (int, string) { return http.StatusBadGateway, "" })
	s.VisionModels = []string{"only"}
	s.GeminiAPIKey = "gemini-key"
	s.GeminiModel = "gemini-test"

	stub := &stubDescriber{reply: `{"title":"Desk","category":"Home & Garden","condition":"fair","value":90}`}
	u := newTestAI()
	u.newGemini = func(_ context.Context, apiKey, model string) (imageDescriber, error) {
		assert.Equal(t, "gemini-key", apiKey)
		assert.Equal(t, "gemini-test", model)
		return stub, nil
	}

	res := u.Analyze(context.Background(), s, model.ImageBlob{Name: "a.png", MediaType: "image/png", Data: pngBytes})
	assert.Equal(t, "Desk", res.Title)
	assert.Equal(t, 85, res.Confidence)
	assert.Equal(t, "gemini-test", res.AnalyzedBy)
	assert.True(t, stub.closed)
}

func TestAnalyze_GeminiInitFailure(t *testing.T) {
	s, _ := fakeChat(t, func(string) (int, string) { return http.StatusBadGateway, "" })
	s.VisionModels = []string{"only"}
	s.GeminiAPIKey = "gemini-key"

	u := newTestAI()
	u.newGemini = func(context.Context, string, string) (imageDescriber, error) {
		return nil, errors.New("no network")
	}
	res := u.Analyze(context.Background(), s, model.ImageBlob{Name: "desk.png", MediaType: "image/png", Data: pngBytes})
	assert.Equal(t, "Desk", res.Title)
	assert.Equal(t, 65, res.Confidence)
}

func TestParseVisionReply(t *testing.T) {
	res, err := parseVisionReply(`{"title":"Mixer","category":"Kitchen","condition":"good","value":"150 USD","confidence":"140"}`)
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.Value)
	assert.Equal(t, 100, res.Confidence)
	assert.Equal(t, "", res.Description)

	for _, reply := range []string{
		"no json here",
		"{not json}",
		`{"title":"Mixer","category":"Kitchen","condition":"good","value":0}`,
		`{"title":"","category":"Kitchen","condition":"good","value":10}`,
		`{"title":"Mixer","category":"Kitchen","condition":"good"}`,
		`} backwards {`,
	} {
		_, err := parseVisionReply(reply)
		assert.Error(t, err, reply)
	}
}

func TestAnalyzeFilename(t *testing.T) {
	u := newTestAI()
	tests := []struct {
		name      string
		title     string
		category  string
		condition string
		value     float64
	}{
		{"Mint_Sony_Camera.JPG", "Sony Camera", "Electronics", model.ConditionExcellent, 420},
		{"old_fair_drill.png", "Drill", "Tools", model.ConditionFair, 64},
		{"poor-sofa.jpg", "Sofa", "Home & Garden", model.ConditionPoor, 240},
		{"running-shoes.jpg", "Running", "Sports", model.ConditionGood, 100},
		{"nintendo-switch-game.jpg", "Nintendo Game", "Toys & Games", model.ConditionGood, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := u.analyzeFilename(tt.name)
			assert.Equal(t, tt.title, res.Title)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.condition, res.Condition)
			assert.Equal(t, tt.value, res.Value)
			assert.Equal(t, tt.title+" uploaded via image. Please add more details about condition, features, and specifications.", res.Description)
		})
	}
}
