package model

import (
	"encoding/json"
)

/*
FilterExpression is the data model for a user defined feed filter. A filter is
a recursive tree of boolean combinators over leaf predicates, e.g.

	{"id":"1","expr":{"allOf":[
	  {"id":"2","expr":{"pred":{"type":"LITERAL","param":{"text":"golang"}}}},
	  {"id":"3","expr":{"notTrue":{"id":"4","expr":{"pred":{"type":"TAG","param":{"text":"ads"}}}}}}
	]}}
*/
type FilterExpressionWrap struct {
	ID   string     `json:"id"`
	Expr FilterNode `json:"expr"`
}

// A wrap without an expression has no semantic meaning and matches everything.
// The filter editor emits such pure id nodes as insertion placeholders.
func (w FilterExpressionWrap) IsEmpty() bool {
	return w.Expr == nil
}

// FilterNode is the abstract container for one tree node. The concrete
// variants below form a sealed set.
type FilterNode interface {
	isFilterNode() bool
}

// AllOf matches iff every child matches.
type AllOf struct {
	FilterNode
	AllOf []FilterExpressionWrap `json:"allOf"`
}

// AnyOf matches iff at least one child matches.
type AnyOf struct {
	FilterNode
	AnyOf []FilterExpressionWrap `json:"anyOf"`
}

// NotTrue inverts its single child.
type NotTrue struct {
	FilterNode
	NotTrue FilterExpressionWrap `json:"notTrue"`
}

// PredicateWrap is a leaf condition.
type PredicateWrap struct {
	FilterNode
	Predicate Predicate `json:"pred"`
}

func (AllOf) isFilterNode() bool         { return true }
func (AnyOf) isFilterNode() bool         { return true }
func (NotTrue) isFilterNode() bool       { return true }
func (PredicateWrap) isFilterNode() bool { return true }

const (
	// PredicateTypeLiteral matches a case-insensitive substring of the post's
	// title or excerpt.
	PredicateTypeLiteral = "LITERAL"
	// PredicateTypeTag matches an exact tag name on the post.
	PredicateTypeTag = "TAG"
)

type Predicate struct {
	Type  string  `json:"type"`
	Param Literal `json:"param"`
}

type Literal struct {
	Text string `json:"text"`
}

// Custom unmarshal for FilterExpressionWrap. The wrap contains the FilterNode
// interface, so decoding needs to look ahead one level to decide which
// concrete variant to unmarshal into.
func (target *FilterExpressionWrap) UnmarshalJSON(b []byte) error {
	var objMap map[string]*json.RawMessage
	if err := json.Unmarshal(b, &objMap); err != nil {
		return err
	}

	if _, ok := objMap["expr"]; !ok {
		// Pure id expression, skip. See IsEmpty.
		return nil
	}

	if err := json.Unmarshal(*objMap["id"], &target.ID); err != nil {
		return err
	}

	var expr map[string]*json.RawMessage
	if err := json.Unmarshal(*objMap["expr"], &expr); err != nil {
		return err
	}

	if val, ok := expr["allOf"]; ok {
		children, err := unmarshalChildren(val)
		if err != nil {
			return err
		}
		target.Expr = AllOf{AllOf: children}
	} else if val, ok := expr["anyOf"]; ok {
		children, err := unmarshalChildren(val)
		if err != nil {
			return err
		}
		target.Expr = AnyOf{AnyOf: children}
	} else if val, ok := expr["notTrue"]; ok {
		var node NotTrue
		if err := json.Unmarshal(*val, &node.NotTrue); err != nil {
			return err
		}
		if !node.NotTrue.IsEmpty() {
			target.Expr = node
		}
	} else if val, ok := expr["pred"]; ok {
		var node PredicateWrap
		if err := json.Unmarshal(*val, &node.Predicate); err != nil {
			return err
		}
		target.Expr = node
	}
	return nil
}

func unmarshalChildren(val *json.RawMessage) ([]FilterExpressionWrap, error) {
	var raw []*json.RawMessage
	if err := json.Unmarshal(*val, &raw); err != nil {
		return nil, err
	}
	children := []FilterExpressionWrap{}
	for _, r := range raw {
		var child FilterExpressionWrap
		if err := json.Unmarshal(*r, &child); err != nil {
			return nil, err
		}
		if !child.IsEmpty() {
			children = append(children, child)
		}
	}
	return children, nil
}
