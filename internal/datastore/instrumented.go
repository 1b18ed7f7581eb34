package datastore

import (
	"time"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/observability/metrics"
)

// InstrumentedStore records the outcome and latency of every call on the
// wrapped store.
type InstrumentedStore struct {
	Interface
	recorder metrics.Recorder
}

// NewInstrumentedStore wraps store. A nil recorder returns store unchanged.
func NewInstrumentedStore(store Interface, recorder metrics.Recorder) Interface {
	if recorder == nil {
		return store
	}
	return &InstrumentedStore{Interface: store, recorder: recorder}
}

func (s *InstrumentedStore) observe(operation string, start time.Time, err error) {
	s.recorder.RecordDuration(operation, time.Since(start).Seconds())
	if err != nil {
		s.recorder.RecordOperation(operation, metrics.StatusError)
		s.recorder.RecordError(operation, errorType(err))
		return
	}
	s.recorder.RecordOperation(operation, metrics.StatusSuccess)
}

func errorType(err error) string {
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.GetCategory()
	}
	return string(errors.CategoryGeneric)
}

func (s *InstrumentedStore) Open() error {
	start := time.Now()
	err := s.Interface.Open()
	s.observe(metrics.OpOpen, start, err)
	return err
}

func (s *InstrumentedStore) Get(key string) ([]byte, bool, error) {
	start := time.Now()
	v, ok, err := s.Interface.Get(key)
	s.observe(metrics.OpGet, start, err)
	return v, ok, err
}

func (s *InstrumentedStore) Set(key string, value []byte) error {
	start := time.Now()
	err := s.Interface.Set(key, value)
	s.observe(metrics.OpSet, start, err)
	return err
}

func (s *InstrumentedStore) Delete(key string) error {
	start := time.Now()
	err := s.Interface.Delete(key)
	s.observe(metrics.OpDelete, start, err)
	return err
}

func (s *InstrumentedStore) Keys() ([]string, error) {
	start := time.Now()
	keys, err := s.Interface.Keys()
	s.observe(metrics.OpKeys, start, err)
	return keys, err
}

func (s *InstrumentedStore) Close() error {
	start := time.Now()
	err := s.Interface.Close()
	s.observe(metrics.OpClose, start, err)
	return err
}
