package services

import "context"

// noopRetriever satisfies the retrieval contract when no document index is
// configured: every query returns nothing and the pipeline carries on with
// memory and history context only.
type noopRetriever struct{}

func NewNoopRetriever() DocumentRetriever {
	return noopRetriever{}
}

func (noopRetriever) Query(_ context.Context, _ string, _ string, _ int) ([]RetrievedDocument, error) {
	return nil, nil
}
