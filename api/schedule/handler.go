// Package schedule exposes the scheduling service over HTTP.
package schedule

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/hallsched/app"
	"github.com/kilianp07/hallsched/core/generator"
	"github.com/kilianp07/hallsched/core/model"
	"github.com/kilianp07/hallsched/core/scheduler"
)

// DefaultMaxHalls caps request hall counts unless WithMaxHalls is given.
const DefaultMaxHalls = 1024

// Handler serves the /v1 endpoints.
type Handler struct {
	svc      *app.Service
	gen      generator.Config
	gatherer prometheus.Gatherer
	maxHalls int
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxHalls rejects requests asking for more than n halls.
func WithMaxHalls(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxHalls = n
		}
	}
}

// NewHandler creates a Handler. gen supplies the defaults and the count cap
// for /v1/generate and a nil gatherer serves the default Prometheus registry.
func NewHandler(svc *app.Service, gen generator.Config, gatherer prometheus.Gatherer, opts ...Option) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	gen.SetDefaults()
	h := &Handler{svc: svc, gen: gen, gatherer: gatherer, maxHalls: DefaultMaxHalls}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter returns a gin engine with every route registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)
	return r
}

// Register mounts the routes on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	v1 := r.Group("/v1")
	{
		v1.POST("/validate", h.handleValidate)
		v1.POST("/normalize", h.handleNormalize)
		v1.POST("/schedule", h.handleSchedule)
		v1.POST("/generate", h.handleGenerate)
	}
}

type batchRequest struct {
	Events []model.Event `json:"events"`
	Halls  *int          `json:"halls"`
}

type scheduleRequest struct {
	batchRequest
	Algorithm string `json:"algorithm"`
	BudgetMS  *int   `json:"budget_ms"`
}

type runResponse struct {
	Result     model.Result           `json:"result"`
	ElapsedMS  float64                `json:"elapsed_ms"`
	Summary    app.UtilizationSummary `json:"utilization_summary"`
	Complexity *scheduler.Complexity  `json:"complexity,omitempty"`
}

type compareResponse struct {
	Greedy       runResponse `json:"greedy"`
	Backtracking runResponse `json:"backtracking"`
	Gain         int         `json:"gain"`
}

// halls resolves the requested hall count. Counts above maxHalls are
// refused before any per-hall state is allocated.
func (h *Handler) halls(req batchRequest) (int, error) {
	if req.Halls == nil {
		return h.svc.Config().DefaultHalls, nil
	}
	if *req.Halls > h.maxHalls {
		return 0, fmt.Errorf("halls must not exceed %d", h.maxHalls)
	}
	return *req.Halls, nil
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().Unix()})
}

func (h *Handler) handleValidate(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	halls, err := h.halls(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Validate(req.Events, halls); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *Handler) handleNormalize(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": h.svc.Normalize(req.Events)})
}

func (h *Handler) handleSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	budget := h.svc.Config().Budget()
	if req.BudgetMS != nil {
		if *req.BudgetMS < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "budget_ms must not be negative"})
			return
		}
		budget = time.Duration(*req.BudgetMS) * time.Millisecond
	}
	halls, err := h.halls(req.batchRequest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Algorithm == "" || req.Algorithm == "both" {
		cmp, err := h.svc.Compare(req.Events, halls, budget)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, compareResponse{
			Greedy:       newRunResponse(cmp.Greedy),
			Backtracking: newRunResponse(cmp.Backtracking),
			Gain:         cmp.Gain,
		})
		return
	}
	alg, err := model.ParseAlgorithm(req.Algorithm)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var res model.Result
	if alg == model.AlgorithmGreedy {
		res, err = h.svc.Greedy(req.Events, halls)
	} else {
		res, err = h.svc.Backtracking(req.Events, halls, budget)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunResponse(res))
}

func (h *Handler) handleGenerate(c *gin.Context) {
	cfg := h.gen
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cfg.MaxCount = h.gen.MaxCount
	g, err := generator.New(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": g.Events()})
}

func newRunResponse(res model.Result) runResponse {
	out := runResponse{
		Result:    res,
		ElapsedMS: res.ElapsedMS(),
		Summary:   app.Summarize(res.Utilization),
	}
	if cx, ok := scheduler.ComplexityOf(res.Algorithm); ok {
		out.Complexity = &cx
	}
	return out
}

// writeError maps validation failures to 422 with the message unchanged.
func writeError(c *gin.Context, err error) {
	var verr *scheduler.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
