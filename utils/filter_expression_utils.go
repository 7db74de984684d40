package utils

import (
	"encoding/json"
	"strings"

	"github.com/kabar-app/kabar/model"
	Logger "github.com/kabar-app/kabar/utils/log"
	"github.com/pkg/errors"
)

// FilterExpressionMatchPost parses the serialized filter expression and
// evaluates it against a single feed entry. An empty expression matches
// everything.
func FilterExpressionMatchPost(jsonStr string, post *model.PostSummary) (bool, error) {
	if len(jsonStr) == 0 {
		return true, nil
	}

	var wrap model.FilterExpressionWrap
	if err := json.Unmarshal([]byte(jsonStr), &wrap); err != nil {
		Logger.Log.Error("filter expression can't be unmarshaled, error :", err)
		return false, err
	}

	matched, err := FilterExpressionMatch(wrap, post)
	if err != nil {
		return false, errors.Wrap(err, "filter expression match failed")
	}
	return matched, nil
}

func FilterExpressionMatch(wrap model.FilterExpressionWrap, post *model.PostSummary) (bool, error) {
	// Empty expression should match all posts.
	if wrap.IsEmpty() {
		return true, nil
	}
	switch expr := wrap.Expr.(type) {
	case model.AllOf:
		if len(expr.AllOf) == 0 {
			return true, nil
		}
		for _, child := range expr.AllOf {
			match, err := FilterExpressionMatch(child, post)
			if err != nil {
				return false, err
			}
			if !match {
				return false, nil
			}
		}
		return true, nil
	case model.AnyOf:
		if len(expr.AnyOf) == 0 {
			return true, nil
		}
		for _, child := range expr.AnyOf {
			match, err := FilterExpressionMatch(child, post)
			if err != nil {
				return false, err
			}
			if match {
				return true, nil
			}
		}
		return false, nil
	case model.NotTrue:
		match, err := FilterExpressionMatch(expr.NotTrue, post)
		if err != nil {
			return false, err
		}
		return !match, nil
	case model.PredicateWrap:
		return matchPredicate(expr.Predicate, post)
	default:
		return false, errors.New("unknown node type when matching filter expression")
	}
}

func matchPredicate(pred model.Predicate, post *model.PostSummary) (bool, error) {
	switch pred.Type {
	case model.PredicateTypeLiteral:
		needle := strings.ToLower(pred.Param.Text)
		return strings.Contains(strings.ToLower(post.Title), needle) ||
			strings.Contains(strings.ToLower(post.Excerpt), needle), nil
	case model.PredicateTypeTag:
		return ContainsString(post.Tags, pred.Param.Text), nil
	default:
		return false, errors.New("unknown predicate type: " + pred.Type)
	}
}
