package scheduler_test

import (
	"testing"

	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/internal/storage"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/stretchr/testify/mock"
)

type storageMock struct {
	mock.Mock
}

func (s *storageMock) Configure(param storage.SinkParam) {
	s.Called(param)
}

func (s *storageMock) Write(
	normalizedDoc normalize.NormalizedMarkdownDoc,
) (storage.WriteResult, failure.ClassifiedError) {
	args := s.Called(normalizedDoc)
	res := args.Get(0).(storage.WriteResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return res, err
}

func (s *storageMock) Close() error {
	args := s.Called()
	if args.Get(0) != nil {
		return args.Get(0).(error)
	}
	return nil
}

func newStorageMockForTest(t *testing.T) *storageMock {
	t.Helper()
	m := new(storageMock)
	m.On("Configure", mock.Anything).Return().Maybe()
	m.On("Close").Return(nil).Maybe()
	return m
}
