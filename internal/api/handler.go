package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jescojido/partition-balancer/internal/partition"
	"github.com/jescojido/partition-balancer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Output selectors accepted by the partition endpoints.
const (
	outputPartition        = "partition"
	outputSums             = "sums"
	outputLargestSum       = "largest_sum"
	outputPartitionAndSums = "partition_and_sums"
)

const (
	defaultRandomBits = 16
	maxRandomBits     = 48
	maxBulkJobs       = 32
	bulkConcurrency   = 4
)

var (
	errNoInput       = errors.New("exactly one of values or weights must be provided")
	errTooManyItems  = errors.New("item count exceeds the configured maximum")
	errUnknownOutput = errors.New("output must be one of partition, sums, largest_sum, partition_and_sums")
	errInvalidRandom = errors.New("bits must be between 1 and 48")
)

// Handler wires solver and storage dependencies into HTTP handlers.
type Handler struct {
	solver  partition.Service
	storage storage.Storage

	clock func() time.Time

	mu                sync.RWMutex
	settingsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(solver partition.Service, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		solver:  solver,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.settingsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := settingsResponse{
		DefaultBins: settings.DefaultBins,
		MaxItems:    settings.MaxItems,
		UpdatedAt:   h.currentSettingsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	settings := storage.Settings{
		DefaultBins: req.DefaultBins,
		MaxItems:    req.MaxItems,
	}
	if err := h.storage.SetSettings(settings); err != nil {
		if errors.Is(err, storage.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markSettingsUpdated()

	stored, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := settingsResponse{
		DefaultBins: stored.DefaultBins,
		MaxItems:    stored.MaxItems,
		UpdatedAt:   h.currentSettingsUpdatedAt(),
		Message:     "Settings updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePartition(w http.ResponseWriter, r *http.Request) {
	var req partitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp, solveErr := h.solve(req, settings)
	if solveErr != nil {
		writeSolveError(w, solveErr, settings)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRandomPartition(w http.ResponseWriter, r *http.Request) {
	var req randomPartitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	if req.Items < 1 {
		writeError(w, http.StatusBadRequest, "Invalid request", "items must be a positive integer")
		return
	}
	if req.Items > settings.MaxItems {
		writeSolveError(w, errTooManyItems, settings)
		return
	}

	bits := req.Bits
	if bits == 0 {
		bits = defaultRandomBits
	}
	if bits < 1 || bits > maxRandomBits {
		writeError(w, http.StatusBadRequest, "Invalid request", errInvalidRandom.Error())
		return
	}

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewPCG(*req.Seed, *req.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	values := partition.RandomValues(rng, req.Items, bits)

	resp, solveErr := h.solve(partitionRequest{
		Values: values,
		Bins:   req.Bins,
		Output: req.Output,
	}, settings)
	if solveErr != nil {
		writeSolveError(w, solveErr, settings)
		return
	}

	writeJSON(w, http.StatusOK, randomPartitionResponse{
		Values:            values,
		partitionResponse: resp,
	})
}

func (h *Handler) handleBulkPartition(w http.ResponseWriter, r *http.Request) {
	var req bulkPartitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Jobs) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "jobs must contain at least one entry")
		return
	}
	if len(req.Jobs) > maxBulkJobs {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("jobs must contain at most %d entries", maxBulkJobs))
		return
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	// Each job is an independent solve with exclusively-owned state, so
	// running them concurrently is safe. Failures are reported per job
	// rather than aborting the batch.
	results := make([]bulkResult, len(req.Jobs))
	eg, _ := errgroup.WithContext(r.Context())
	eg.SetLimit(bulkConcurrency)
	for i, job := range req.Jobs {
		eg.Go(func() error {
			resp, solveErr := h.solve(job, settings)
			if solveErr != nil {
				results[i] = bulkResult{Error: solveErr.Error()}
				return nil
			}
			results[i] = bulkResult{Result: &resp}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bulkPartitionResponse{Results: results})
}

// solve validates a single partition request against the current settings
// and runs the solver, shaping the response per the requested output.
func (h *Handler) solve(req partitionRequest, settings storage.Settings) (partitionResponse, error) {
	hasValues := len(req.Values) > 0
	hasWeights := len(req.Weights) > 0
	if hasValues == hasWeights {
		return partitionResponse{}, errNoInput
	}

	itemCount := len(req.Values)
	if hasWeights {
		itemCount = len(req.Weights)
	}
	if itemCount > settings.MaxItems {
		return partitionResponse{}, errTooManyItems
	}

	numBins := req.Bins
	if numBins == 0 {
		numBins = settings.DefaultBins
	}

	output := req.Output
	if output == "" {
		output = outputPartitionAndSums
	}
	switch output {
	case outputPartition, outputSums, outputLargestSum, outputPartitionAndSums:
	default:
		return partitionResponse{}, errUnknownOutput
	}

	start := time.Now()

	var (
		groups      [][]float64
		labelGroups [][]string
		sums        []float64
	)
	switch {
	case hasWeights:
		summary, err := h.solver.PartitionLabels(numBins, req.Weights)
		if err != nil {
			return partitionResponse{}, err
		}
		labelGroups = summary.Groups
		sums = summary.Sums
	case output == outputSums || output == outputLargestSum:
		var err error
		sums, err = h.solver.PartitionSums(numBins, req.Values)
		if err != nil {
			return partitionResponse{}, err
		}
	default:
		summary, err := h.solver.PartitionValues(numBins, req.Values)
		if err != nil {
			return partitionResponse{}, err
		}
		groups = summary.Groups
		sums = summary.Sums
	}

	elapsed := time.Since(start)

	resp := partitionResponse{
		Bins:              numBins,
		Items:             itemCount,
		Merges:            itemCount - 1,
		LargestSum:        sums[len(sums)-1],
		Spread:            partition.Spread(sums),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	switch output {
	case outputPartition:
		resp.Groups = groups
		resp.LabelGroups = labelGroups
	case outputSums:
		resp.Sums = sums
	case outputPartitionAndSums:
		resp.Groups = groups
		resp.LabelGroups = labelGroups
		resp.Sums = sums
	}

	return resp, nil
}

// writeSolveError maps solver and validation failures to HTTP statuses.
func writeSolveError(w http.ResponseWriter, err error, settings storage.Settings) {
	switch {
	case errors.Is(err, errTooManyItems):
		suggestion := fmt.Sprintf("Submit at most %d items or raise the limit via PUT /api/settings", settings.MaxItems)
		writeError(w, http.StatusUnprocessableEntity, "Too many items", err.Error(), suggestion)
	case errors.Is(err, errNoInput), errors.Is(err, errUnknownOutput):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, partition.ErrInvalidBinCount),
		errors.Is(err, partition.ErrEmptyInput),
		errors.Is(err, partition.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func (h *Handler) currentSettingsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settingsUpdatedAt
}

func (h *Handler) markSettingsUpdated() {
	h.mu.Lock()
	h.settingsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type settingsRequest struct {
	DefaultBins int `json:"defaultBins"`
	MaxItems    int `json:"maxItems"`
}

type settingsResponse struct {
	DefaultBins int       `json:"defaultBins"`
	MaxItems    int       `json:"maxItems"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Message     string    `json:"message,omitempty"`
}

type partitionRequest struct {
	Values  []float64          `json:"values,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
	Bins    int                `json:"bins,omitempty"`
	Output  string             `json:"output,omitempty"`
}

type partitionResponse struct {
	Bins              int         `json:"bins"`
	Items             int         `json:"items"`
	Merges            int         `json:"merges"`
	Groups            [][]float64 `json:"groups,omitempty"`
	LabelGroups       [][]string  `json:"labelGroups,omitempty"`
	Sums              []float64   `json:"sums,omitempty"`
	LargestSum        float64     `json:"largestSum"`
	Spread            float64     `json:"spread"`
	CalculationTimeMs int64       `json:"calculationTimeMs"`
}

type randomPartitionRequest struct {
	Items  int     `json:"items"`
	Bits   int     `json:"bits,omitempty"`
	Bins   int     `json:"bins,omitempty"`
	Output string  `json:"output,omitempty"`
	Seed   *uint64 `json:"seed,omitempty"`
}

type randomPartitionResponse struct {
	Values []float64 `json:"values"`
	partitionResponse
}

type bulkPartitionRequest struct {
	Jobs []partitionRequest `json:"jobs"`
}

type bulkResult struct {
	Result *partitionResponse `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

type bulkPartitionResponse struct {
	Results []bulkResult `json:"results"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
