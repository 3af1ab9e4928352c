package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/catalog"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/predict"
)

// Predictor is the prediction contract consumed by the HTTP layer.
type Predictor interface {
	Predict(ctx context.Context, values url.Values) (dal.PredictionResponse, predict.Outcome)
}

// Options wires the server to its collaborators. A nil Predictor means the
// models failed to load; the server then reports itself unavailable.
type Options struct {
	Catalog      *catalog.Catalog
	Predictor    Predictor
	Metrics      http.Handler
	Log          *zap.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(addr string, opts Options) *http.Server {
	server := newHTTPServer(opts)
	return &http.Server{
		Addr:         addr,
		Handler:      server.router(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
}

type httpServer struct {
	log       *zap.Logger
	catalog   *catalog.Catalog
	predictor Predictor
	metrics   http.Handler
}

func newHTTPServer(opts Options) *httpServer {
	h := &httpServer{
		log:       opts.Log,
		catalog:   opts.Catalog,
		predictor: opts.Predictor,
		metrics:   opts.Metrics,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.catalog == nil {
		h.catalog = catalog.Empty()
	}
	return h
}

func (h *httpServer) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.requestLogger)
	r.HandleFunc("/", h.GetIndex).Methods(http.MethodGet)
	r.HandleFunc("/car-models/{make}", h.GetCarModels).Methods(http.MethodGet)
	r.HandleFunc("/predict", h.PostPredict).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.GetHealth).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics).Methods(http.MethodGet)
	}
	return r
}
