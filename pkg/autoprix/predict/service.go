// Package predict validates prediction requests, runs every registered
// predictor and combines their estimates.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/features"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/models"
)

// Outcome classifies a prediction request.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
	OutcomeCached  Outcome = "cached"
)

// Recorder receives prediction measurements.
type Recorder interface {
	ObservePrediction(outcome Outcome, d time.Duration)
	ObserveEstimate(variant string, price float64)
}

type nopRecorder struct{}

func (nopRecorder) ObservePrediction(Outcome, time.Duration) {}
func (nopRecorder) ObserveEstimate(string, float64)          {}

// Result holds the rounded estimate of every variant and their rounded mean.
type Result struct {
	Estimates map[models.Variant]float64
	Average   float64
}

// Service is the prediction aggregator. It only reads its registry and is
// safe for concurrent use.
type Service struct {
	registry  *models.Registry
	validator *Validator
	currency  string
	minYear   int
	now       func() time.Time
	log       *zap.Logger
	recorder  Recorder
	cache     Cache
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option       { return func(s *Service) { s.log = l } }
func WithCurrency(c string) Option          { return func(s *Service) { s.currency = c } }
func WithMinYear(y int) Option              { return func(s *Service) { s.minYear = y } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }
func WithRecorder(r Recorder) Option        { return func(s *Service) { s.recorder = r } }
func WithCache(c Cache) Option              { return func(s *Service) { s.cache = c } }

// NewService returns an aggregator over reg.
func NewService(reg *models.Registry, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, errors.New("predict: nil registry")
	}
	s := &Service{
		registry: reg,
		currency: "DH",
		minYear:  1970,
		now:      time.Now,
		log:      zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = NewValidator(s.minYear, s.now)
	return s, nil
}

// Predict validates form values and returns the formatted estimates. It never
// panics and never returns a partial success: on any failure the response
// carries Success false and an error message.
func (s *Service) Predict(ctx context.Context, values url.Values) (dal.PredictionResponse, Outcome) {
	start := time.Now()

	in, err := s.validator.Parse(values)
	if err != nil {
		s.recorder.ObservePrediction(OutcomeInvalid, time.Since(start))
		return dal.Failure(err.Error()), OutcomeInvalid
	}

	key := CacheKey(in, s.currency, s.registry.Fingerprint())
	if resp, ok := s.cached(ctx, key); ok {
		s.recorder.ObservePrediction(OutcomeCached, time.Since(start))
		return resp, OutcomeSuccess
	}

	res, err := s.Estimate(in)
	if err != nil {
		s.log.Error("prediction failed", zap.Error(err))
		s.recorder.ObservePrediction(OutcomeFailed, time.Since(start))
		return dal.Failure("prediction failed: " + err.Error()), OutcomeFailed
	}

	resp := s.Format(res)
	s.store(ctx, key, resp)
	s.recorder.ObservePrediction(OutcomeSuccess, time.Since(start))
	return resp, OutcomeSuccess
}

// Estimate runs every registered variant on in. Encoding errors, predictor
// errors and panics are all returned as errors.
func (s *Service) Estimate(in dal.RawInput) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected fault: %v", r)
		}
	}()

	entries := s.registry.Entries()
	res.Estimates = make(map[models.Variant]float64, len(entries))
	prices := make([]float64, 0, len(entries))

	for _, e := range entries {
		price, err := s.estimateOne(in, e)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", e.Variant, err)
		}
		res.Estimates[e.Variant] = price
		prices = append(prices, price)
		s.recorder.ObserveEstimate(e.Variant.String(), price)
	}
	res.Average = RoundPrice(stat.Mean(prices, nil))
	return res, nil
}

func (s *Service) estimateOne(in dal.RawInput, e models.Entry) (float64, error) {
	x, err := features.Encode(in, e.Schema, e.Options()...)
	if err != nil {
		return 0, err
	}
	if ce := s.log.Check(zap.DebugLevel, "encoded input"); ce != nil {
		ce.Write(
			zap.Stringer("variant", e.Variant),
			zap.Int("columns", len(x)),
			zap.Strings("unmatched", features.Unmatched(features.NewRecord(in), e.Schema)),
		)
	}

	raw, err := e.Predictor.Predict(x)
	if err != nil {
		return 0, err
	}
	price := math.Max(0, e.Output.Apply(raw))
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("non-finite estimate from raw output %v", raw)
	}
	s.log.Debug("raw prediction",
		zap.Stringer("variant", e.Variant), zap.Float64("raw", raw), zap.Float64("price", price))
	return RoundPrice(price), nil
}

// Format renders res with thousands separators and the service currency.
func (s *Service) Format(res Result) dal.PredictionResponse {
	resp := dal.PredictionResponse{
		Success: true,
		Average: FormatPrice(res.Average, s.currency),
	}
	for v, price := range res.Estimates {
		formatted := FormatPrice(price, s.currency)
		switch v {
		case models.Linear:
			resp.Linear = formatted
		case models.Lasso:
			resp.Lasso = formatted
		case models.XGBoost:
			resp.XGBoost = formatted
		}
	}
	return resp
}

func (s *Service) cached(ctx context.Context, key string) (dal.PredictionResponse, bool) {
	if s.cache == nil {
		return dal.PredictionResponse{}, false
	}
	resp, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("prediction cache read failed", zap.Error(err))
		return dal.PredictionResponse{}, false
	}
	return resp, ok && resp.Success
}

func (s *Service) store(ctx context.Context, key string, resp dal.PredictionResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.log.Warn("prediction cache write failed", zap.Error(err))
	}
}
