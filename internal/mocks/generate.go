// Package mocks provides gomock implementations of the pipeline's collaborator interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=augmenter_mock.go github.com/joseph-ayodele/resume-parser/internal/llm Augmenter
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=extractor_mock.go github.com/joseph-ayodele/resume-parser/internal/extract TextExtractor,FieldExtractor
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=queue_mock.go github.com/joseph-ayodele/resume-parser/internal/async Queue
