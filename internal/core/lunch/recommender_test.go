package lunch

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"lunch-mate/internal/core/ai/provider"
	"lunch-mate/internal/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int32
	last  *provider.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Text: f.text}, nil
}

type offlineGenerator struct {
	fakeGenerator
}

func (*offlineGenerator) Available() bool { return false }

func sampleFoods() []catalog.FoodItem {
	return []catalog.FoodItem{
		{ID: "1", Name: "雞腿便當", Category: catalog.CategoryBento, Emoji: "🍗"},
		{ID: "2", Name: "牛肉麵", Category: catalog.CategoryNoodles, Emoji: "🍜"},
		{ID: "3", Name: "壽司", Category: catalog.CategoryJapanese, Emoji: "🍣"},
	}
}

func TestRecommendUsesAIResult(t *testing.T) {
	gen := &fakeGenerator{text: `{"foodName":"雞腿便當","reason":"外皮酥脆，肉汁滿滿！","foodEmoji":"🍗"}`}
	r := NewRecommender(gen)

	rec := r.Recommend(context.Background(), sampleFoods(), "想吃飽一點")

	assert.Equal(t, Recommendation{FoodName: "雞腿便當", Reason: "外皮酥脆，肉汁滿滿！", FoodEmoji: "🍗"}, rec)
	require.NotNil(t, gen.last)
	assert.True(t, gen.last.Structured())
	assert.Equal(t, recommendationSchemaName, gen.last.SchemaName)
	assert.Contains(t, gen.last.Prompt, "雞腿便當、牛肉麵、壽司")
	assert.Contains(t, gen.last.Prompt, `"想吃飽一點"`)
}

func TestRecommendAcceptsWrappedJSON(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"foodName\":\"壽司\",\"reason\":\"清爽\",\"foodEmoji\":\"🍣\"}\n```"}
	rec := NewRecommender(gen).Recommend(context.Background(), sampleFoods(), "")

	assert.Equal(t, "壽司", rec.FoodName)
	assert.Equal(t, "🍣", rec.FoodEmoji)
}

func TestRecommendAcceptsNamesOutsideCatalog(t *testing.T) {
	gen := &fakeGenerator{text: `{"foodName":"滷肉飯","reason":"台灣味","foodEmoji":"🍚"}`}
	rec := NewRecommender(gen).Recommend(context.Background(), sampleFoods(), "")

	assert.Equal(t, "滷肉飯", rec.FoodName)
	assert.Equal(t, "台灣味", rec.Reason)
}

func TestRecommendFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"error", &fakeGenerator{err: errors.New("boom")}},
		{"empty", &fakeGenerator{text: "   "}},
		{"not json", &fakeGenerator{text: "我推薦壽司"}},
		{"missing emoji", &fakeGenerator{text: `{"foodName":"壽司","reason":"好吃"}`}},
		{"blank name", &fakeGenerator{text: `{"foodName":" ","reason":"好吃","foodEmoji":"🍣"}`}},
	}

	foods := sampleFoods()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecommender(tt.gen)
			r.pick = func(n int) int { return n - 1 }

			rec := r.Recommend(context.Background(), foods, "")

			assert.Equal(t, int32(1), tt.gen.calls)
			assert.Equal(t, Recommendation{FoodName: "壽司", Reason: FallbackReason, FoodEmoji: "🍣"}, rec)
		})
	}
}

func TestRecommendWithoutAINeverCalls(t *testing.T) {
	gen := &offlineGenerator{}
	r := NewRecommender(gen)
	r.pick = func(int) int { return 0 }

	rec := r.Recommend(context.Background(), sampleFoods(), "任何")

	assert.Equal(t, int32(0), gen.calls)
	assert.Equal(t, Recommendation{FoodName: "雞腿便當", Reason: FallbackReason, FoodEmoji: "🍗"}, rec)
}

func TestRecommendNilGenerator(t *testing.T) {
	rec := NewRecommender(nil).Recommend(context.Background(), sampleFoods()[:1], "")
	assert.Equal(t, Recommendation{FoodName: "雞腿便當", Reason: FallbackReason, FoodEmoji: "🍗"}, rec)
}

func TestFallbackAlwaysFromCatalog(t *testing.T) {
	foods := catalog.Default().All()
	r := NewRecommender(nil)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		rec := r.Recommend(context.Background(), foods, "")
		food, ok := catalog.FindByName(foods, rec.FoodName)
		require.True(t, ok, rec.FoodName)
		assert.Equal(t, food.Emoji, rec.FoodEmoji)
		assert.Equal(t, FallbackReason, rec.Reason)
		seen[rec.FoodName] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestRecommendEmptyCatalog(t *testing.T) {
	gen := &fakeGenerator{text: `{}`}
	rec := NewRecommender(gen).Recommend(context.Background(), nil, "")

	assert.Equal(t, int32(0), gen.calls)
	assert.Empty(t, rec.FoodName)
	assert.Equal(t, FallbackReason, rec.Reason)
	assert.NotEmpty(t, rec.FoodEmoji)
}

func TestBuildRecommendationPrompt(t *testing.T) {
	prompt := BuildRecommendationPrompt([]string{"拉麵", "咖哩飯"}, "  ")
	assert.Contains(t, prompt, "拉麵、咖哩飯")
	assert.Contains(t, prompt, DefaultPreference)

	prompt = BuildRecommendationPrompt([]string{"拉麵"}, "下雨天")
	assert.Contains(t, prompt, `"下雨天"`)
	assert.NotContains(t, prompt, DefaultPreference)
}

func TestRecommendationSchema(t *testing.T) {
	schema := NewRecommender(nil).schema
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"foodName", "reason", "foodEmoji"}, schema.Required)

	prop, ok := schema.Properties.Get("reason")
	require.True(t, ok)
	assert.True(t, strings.Contains(prop.Description, "max 2 sentences"))
}

func TestFetchQuote(t *testing.T) {
	t.Run("trimmed", func(t *testing.T) {
		gen := &fakeGenerator{text: "  人是鐵，飯是鋼。\n"}
		assert.Equal(t, "人是鐵，飯是鋼。", NewRecommender(gen).FetchQuote(context.Background()))
		assert.False(t, gen.last.Structured())
	})

	t.Run("error", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("x")}
		assert.Equal(t, DefaultQuote, NewRecommender(gen).FetchQuote(context.Background()))
	})

	t.Run("blank", func(t *testing.T) {
		gen := &fakeGenerator{text: " "}
		assert.Equal(t, DefaultQuote, NewRecommender(gen).FetchQuote(context.Background()))
	})

	t.Run("offline", func(t *testing.T) {
		gen := &offlineGenerator{}
		assert.Equal(t, DefaultQuote, NewRecommender(gen).FetchQuote(context.Background()))
		assert.Equal(t, int32(0), gen.calls)
	})
}
