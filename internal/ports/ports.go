package ports

import (
	"context"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
)

// QueryParser turns a natural-language question into a structured query.
// Implementations are fallible collaborators; callers normalize the result.
type QueryParser interface {
	ParseQuery(ctx context.Context, text string) (domain.QueryDescription, error)
}

// AnswerRenderer produces the final prose answer from retrieved data.
type AnswerRenderer interface {
	GenerateAnswer(ctx context.Context, userQuery, dataContext string, results map[string]any) (string, error)
}

// CropSource fetches district-wise crop production records.
type CropSource interface {
	FetchCropProduction(ctx context.Context, q datagov.CropQuery) ([]datagov.CropRecord, error)
	CropDataset() datagov.Dataset
}

// RainfallSource fetches subdivision rainfall records.
type RainfallSource interface {
	FetchRainfall(ctx context.Context, q datagov.RainfallQuery) ([]datagov.RainfallRecord, error)
	RainfallDataset() datagov.Dataset
}

// DataSource is the full surface the aggregation engine consumes.
type DataSource interface {
	CropSource
	RainfallSource
}
