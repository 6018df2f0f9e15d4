package service

import (
	"context"

	"github.com/kotechile/trend-analisys-sub006/pkg/keyword"
	"github.com/kotechile/trend-analisys-sub006/pkg/trend"
)

type KeywordService interface {
	GetKeywords(ctx context.Context, q keyword.Query) (*keyword.Result, error)
}

type TrendService interface {
	GetTrendData(ctx context.Context, subtopics []string, location, timeRange string) (*trend.Result, error)
	GetSuggestions(ctx context.Context, baseSubtopics []string, location string, maxSuggestions int) (*trend.SuggestionsResult, error)
}
