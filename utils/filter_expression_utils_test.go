package utils

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kabar-app/kabar/model"
	"github.com/stretchr/testify/require"
)

const filterExpressionJSONForTest = `{"id":"1","expr":{"allOf":[{"id":"1.1","expr":{"anyOf":[{"id":"1.1.1","expr":{"pred":{"type":"LITERAL","param":{"text":"golang"}}}},{"id":"1.1.2","expr":{"pred":{"type":"TAG","param":{"text":"backend"}}}}]}},{"id":"1.2","expr":{"notTrue":{"id":"1.2.1","expr":{"pred":{"type":"LITERAL","param":{"text":"sponsored"}}}}}}]}}`

func TestFilterExpressionUnmarshal(t *testing.T) {
	t.Run("Test unmarshal round trip", func(t *testing.T) {
		// Check  marshal - unmarshal are consistent
		var wrap model.FilterExpressionWrap
		require.NoError(t, json.Unmarshal([]byte(filterExpressionJSONForTest), &wrap))

		bytes, _ := json.Marshal(wrap)
		var newWrap model.FilterExpressionWrap
		require.NoError(t, json.Unmarshal(bytes, &newWrap))

		newBytes, _ := json.Marshal(newWrap)

		require.True(t, cmp.Equal(wrap, newWrap))
		require.Equal(t, bytes, newBytes)
	})

	t.Run("Test pure id expression is skipped", func(t *testing.T) {
		var wrap model.FilterExpressionWrap
		require.NoError(t, json.Unmarshal([]byte(`{"id":"1"}`), &wrap))
		require.True(t, wrap.IsEmpty())
	})
}

func TestFilterExpressionMatch(t *testing.T) {
	post := &model.PostSummary{
		Title:   "Shipping a Golang service",
		Excerpt: "notes from production",
		Tags:    []string{"infra"},
	}

	t.Run("Test matching function", func(t *testing.T) {
		matched, err := FilterExpressionMatchPost(filterExpressionJSONForTest, post)
		require.NoError(t, err)
		require.True(t, matched)
	})

	t.Run("Test notTrue rejects", func(t *testing.T) {
		sponsored := &model.PostSummary{
			Title:   "Sponsored: golang hosting",
			Excerpt: "",
		}
		matched, err := FilterExpressionMatchPost(filterExpressionJSONForTest, sponsored)
		require.NoError(t, err)
		require.False(t, matched)
	})

	t.Run("Test tag predicate", func(t *testing.T) {
		wrap := model.FilterExpressionWrap{
			ID: "1",
			Expr: model.PredicateWrap{
				Predicate: model.Predicate{
					Type:  model.PredicateTypeTag,
					Param: model.Literal{Text: "infra"},
				},
			},
		}
		matched, err := FilterExpressionMatch(wrap, post)
		require.NoError(t, err)
		require.True(t, matched)
	})

	t.Run("Test empty expression matches everything", func(t *testing.T) {
		matched, err := FilterExpressionMatchPost("", post)
		require.NoError(t, err)
		require.True(t, matched)
	})

	t.Run("Test unknown predicate type errors", func(t *testing.T) {
		wrap := model.FilterExpressionWrap{
			ID: "1",
			Expr: model.PredicateWrap{
				Predicate: model.Predicate{Type: "REGEX", Param: model.Literal{Text: ".*"}},
			},
		}
		_, err := FilterExpressionMatch(wrap, post)
		require.Error(t, err)
	})
}
