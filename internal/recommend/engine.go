// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Note: This package has no dependencies on other internal packages except
// the generic cache. Metrics reach the engine through the Observer interface.

// anonymousUser replaces an empty user ID.
const anonymousUser = "anonymous"

// Route labels a Predict outcome for logs and metrics.
const (
	RouteCache     = "cache"
	RouteHeuristic = "heuristic"
	RouteEnsemble  = "ensemble"
	RouteFallback  = "fallback"
	RouteEmergency = "emergency"
)

// Observer receives engine events. Implementations must be safe for concurrent use.
type Observer interface {
	ObservePredict(route string, latency time.Duration, results int)
	ObserveScorer(source SourceKind, candidates int, err error)
	ObserveCache(hit bool)
	ObserveFeedback(kind FeedbackKind)
	ObserveInteraction()
	ObserveMatrixRebuild(latency time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObservePredict(string, time.Duration, int) {}
func (noopObserver) ObserveScorer(SourceKind, int, error)      {}
func (noopObserver) ObserveCache(bool)                         {}
func (noopObserver) ObserveFeedback(FeedbackKind)              {}
func (noopObserver) ObserveInteraction()                       {}
func (noopObserver) ObserveMatrixRebuild(time.Duration)        {}

// Engine owns all recommendation state and coordinates the scorers, the
// ensemble ranker, the fallback chain and the cache.
//
// A single mutex guards every piece of mutable state. Scorers run outside the
// lock on immutable snapshots taken under it. Engine is safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	// config is replaced, never mutated, so a pointer read under the lock
	// stays valid after the lock is released.
	config   *Config
	logger   zerolog.Logger
	observer Observer

	store    *InteractionStore
	catalog  *ItemCatalog
	matrix   *MatrixSnapshot
	profiles *ProfileStore
	feedback *FeedbackLog
	cache    *RecommendationCache

	// cacheGen changes on every invalidation; results computed under an
	// older generation are not cached.
	cacheGen uint64

	// refitNeeded forces a rebuild when the catalog changed.
	refitNeeded   bool
	lastRebuildAt time.Time

	popularity        map[string]ItemPopularity
	popularityVersion uint64

	scorers      []Scorer
	domainScorer DomainScorer

	requestCount   atomic.Int64
	emergencyCount atomic.Int64
	totalLatencyNS atomic.Int64

	slowLog rate.Sometimes
	now     func() time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg = cfg.Clone()
	cfg.Weights = cfg.Weights.Normalize()

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		observer: noopObserver{},
		store:    NewInteractionStore(),
		catalog:  NewItemCatalog(cfg.Catalog.TFIDFMaxFeatures),
		profiles: NewProfileStore(),
		feedback: NewFeedbackLog(cfg.Feedback.SequenceLimit, cfg.Feedback.SignalLimit),
		cache:    NewRecommendationCache(cfg.Cache),
		slowLog:  rate.Sometimes{Interval: time.Minute},
		now:      time.Now,
	}, nil
}

// RegisterScorer adds a scorer to the general pipeline.
func (e *Engine) RegisterScorer(s Scorer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scorers = append(e.scorers, s)
	e.refitNeeded = true
	e.invalidateAllLocked()

	e.logger.Info().
		Str("scorer", s.Name()).
		Str("source", s.Source().String()).
		Msg("registered scorer")
}

// SetDomainScorer installs the rule-based wellness scorer.
func (e *Engine) SetDomainScorer(d DomainScorer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.domainScorer = d
	e.invalidateAllLocked()
}

// SetObserver installs an event observer. A nil observer disables events.
func (e *Engine) SetObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if o == nil {
		o = noopObserver{}
	}
	e.observer = o
}

// LoadCatalog adds items to the catalog and rebuilds every embedding.
func (e *Engine) LoadCatalog(items []Item) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.catalog.Load(items)
	e.refitNeeded = true
	e.invalidateAllLocked()

	e.logger.Info().
		Int("items", e.catalog.Len()).
		Int("dim", e.catalog.Snapshot().Layout().Dim).
		Msg("catalog loaded")
}

// Predict returns between 1 and min(req.Count, MaxRecommendations) records.
// It never fails: any fault in the pipeline is answered with the emergency
// default list.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Predict(ctx context.Context, req Request) (recs []Recommendation) {
	start := time.Now()
	e.requestCount.Add(1)

	cfg, observer := e.settings()
	req = normalizeRequest(req, cfg)
	logger := e.logger.With().
		Str("user_id", req.UserID).
		Int("count", req.Count).
		Str("domain", req.Domain).
		Logger()
	route := RouteEmergency

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Msg("prediction pipeline failed, serving emergency default")
			recs = EmergencyDefault(req.Count)
			route = RouteEmergency
		}
		e.finishRequest(logger, cfg, observer, route, start, len(recs))
	}()

	key := Fingerprint(req)
	if cached, ok := e.cache.Get(key); ok {
		observer.ObserveCache(true)
		route = RouteCache
		logger.Debug().Msg("cache hit")
		return cached
	}
	if e.cache.Enabled() {
		observer.ObserveCache(false)
	}

	p := e.predictUncached(ctx, req, cfg, observer, logger)
	recs, route = p.recs, p.route
	if len(recs) > req.Count {
		recs = recs[:req.Count]
	}
	if len(recs) == 0 {
		recs = EmergencyDefault(req.Count)
		route = RouteEmergency
	}

	if p.degraded || ctx.Err() != nil {
		logger.Debug().Str("route", route).Msg("degraded result not cached")
		return recs
	}
	e.storeCached(key, p.gen, recs)
	return recs
}

// settings returns the current config and observer.
func (e *Engine) settings() (*Config, Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config, e.observer
}

// normalizeRequest applies the default user and clamps the count.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func normalizeRequest(req Request, cfg *Config) Request {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		req.UserID = anonymousUser
	}
	if req.Count <= 0 {
		req.Count = cfg.Limits.DefaultRecommendations
	}
	req.Count = max(cfg.Limits.MinRecommendations, min(req.Count, cfg.Limits.MaxRecommendations))
	req.Domain = strings.ToLower(strings.TrimSpace(req.Domain))
	if !cfg.Learned.Enabled {
		req.DisableLearned = true
	}
	return req
}

// scoringPlan is assembled under the engine lock and consumed outside it.
type scoringPlan struct {
	gen       uint64
	refitErr  bool
	heuristic bool
	coldStart bool
	goals     map[string][]string
	domain    DomainScorer
	scorers   []Scorer
	input     *ScoreInput
	fallback  FallbackInput
}

// prediction is the outcome of one uncached request.
type prediction struct {
	recs  []Recommendation
	route string
	// gen is the cache generation the result was computed under.
	gen uint64
	// degraded is set when a refit or a scorer failed, so the result must
	// not outlive the request.
	degraded bool
}

// predictUncached routes a request through the heuristic, cold-start or
// ensemble path.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) predictUncached(ctx context.Context, req Request, cfg *Config, observer Observer, logger zerolog.Logger) prediction {
	plan := e.plan(ctx, req, cfg, logger)

	if plan.heuristic {
		if recs := heuristicRecommendations(req, plan); len(recs) > 0 {
			return prediction{recs: recs, route: RouteHeuristic, gen: plan.gen}
		}
		logger.Debug().Msg("domain scorer produced nothing, continuing with general pipeline")
	}

	if plan.coldStart {
		recs, strategy := RunFallbackChain(plan.fallback)
		logger.Debug().Str("strategy", string(strategy)).Msg("cold-start user routed to fallback chain")
		return prediction{recs: recs, route: fallbackRoute(strategy), gen: plan.gen}
	}

	candidates, disabled, failed := e.runScorers(ctx, req, plan, cfg, observer, logger)
	degraded := failed || plan.refitErr

	recs, naive := RankEnsemble(EnsembleInput{
		Candidates:  candidates,
		Weights:     cfg.Weights,
		Disabled:    disabled,
		Count:       req.Count,
		CategoryCap: CategoryCap(req.Count, cfg.Objectives.Diversity),
		Catalog:     plan.input.Catalog,
	})
	if naive {
		logger.Warn().Msg("adaptive ensemble failed, used naive average")
	}
	if len(recs) > 0 {
		return prediction{recs: recs, route: RouteEnsemble, gen: plan.gen, degraded: degraded}
	}

	recs, strategy := RunFallbackChain(plan.fallback)
	logger.Debug().Str("strategy", string(strategy)).Msg("scorers produced nothing, used fallback chain")
	return prediction{recs: recs, route: fallbackRoute(strategy), gen: plan.gen, degraded: degraded}
}

func fallbackRoute(strategy FallbackStrategy) string {
	if strategy == FallbackEmergency {
		return RouteEmergency
	}
	return RouteFallback
}

// plan snapshots everything a request needs under the engine lock.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) plan(ctx context.Context, req Request, cfg *Config, logger zerolog.Logger) scoringPlan {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := e.store.History(req.UserID)
	catalog := e.catalog.Snapshot()

	p := scoringPlan{
		gen:    e.cacheGen,
		domain: e.domainScorer,
		fallback: FallbackInput{
			Popularity: e.popularityLocked(),
			Catalog:    catalog,
			Count:      req.Count,
			Exclude:    history,
		},
	}

	wantsDomain := req.Domain != "" || (req.Context != nil && !req.Context.IsZero())
	if cfg.Heuristic.Enabled && e.domainScorer != nil && wantsDomain {
		p.heuristic = true
		p.goals = make(map[string][]string)
		for domain, profile := range e.profiles.Get(req.UserID) {
			p.goals[domain] = profile.Goals
		}
	}

	if len(history) == 0 {
		p.coldStart = true
		return p
	}

	// A refit outlives the request that triggered it.
	if err := e.ensureCurrentLocked(context.WithoutCancel(ctx)); err != nil {
		logger.Warn().Err(err).Msg("model refit failed, affected scorers contribute nothing")
		p.refitErr = true
	}

	p.scorers = append([]Scorer(nil), e.scorers...)
	p.input = &ScoreInput{
		UserID:  req.UserID,
		Count:   req.Count,
		History: history,
		Matrix:  e.matrix,
		Catalog: catalog,
	}
	return p
}

// heuristicRecommendations scores one domain, or every domain merged by
// wellness score when none is named.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func heuristicRecommendations(req Request, plan scoringPlan) []Recommendation {
	var wctx RequestContext
	if req.Context != nil {
		wctx = *req.Context
	}

	if req.Domain != "" {
		recs := plan.domain.ScoreDomain(DomainRequest{
			Domain:  req.Domain,
			Context: wctx,
			Goals:   mergeGoals(wctx.Goals, plan.goals[req.Domain]),
			Count:   req.Count,
		})
		// ScoreDomain returns at most Count records; Predict trims again.
		return recs
	}

	domains := plan.domain.Domains()
	if len(domains) == 0 {
		return nil
	}
	perDomain := max(1, req.Count/len(domains))

	var all []Recommendation
	for _, domain := range domains {
		recs := plan.domain.ScoreDomain(DomainRequest{
			Domain:  domain,
			Context: wctx,
			Goals:   mergeGoals(wctx.Goals, plan.goals[domain]),
			Count:   perDomain,
		})
		all = append(all, recs...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		wi, wj := wellnessOf(all[i]), wellnessOf(all[j])
		if wi != wj {
			return wi > wj
		}
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].ItemID < all[j].ItemID
	})
	if len(all) > req.Count {
		all = all[:req.Count]
	}
	return all
}

func wellnessOf(r Recommendation) float64 {
	if r.WellnessScore != nil {
		return *r.WellnessScore
	}
	return r.Score / MaxScore
}

// mergeGoals unions request goals with stored profile goals, keeping order.
func mergeGoals(request, stored []string) []string {
	seen := make(map[string]struct{}, len(request)+len(stored))
	var out []string
	for _, g := range append(append([]string{}, request...), stored...) {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// scorerOutcome holds the result of a single scorer run.
type scorerOutcome struct {
	name    string
	source  SourceKind
	result  ScoreResult
	err     error
	skipped bool
}

// runScorers fans out to every scorer in parallel under a soft deadline.
// A scorer that fails, panics or misses the deadline contributes nothing and
// its source is disabled for this request; failed reports whether any did.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runScorers(ctx context.Context, req Request, plan scoringPlan, cfg *Config, observer Observer, logger zerolog.Logger) (candidates map[SourceKind][]Candidate, disabled map[SourceKind]bool, failed bool) {
	outcomes := make([]scorerOutcome, len(plan.scorers))
	g, gctx := errgroup.WithContext(ctx)

	for i, s := range plan.scorers {
		if req.DisableLearned && s.Source() == SourceLearned {
			outcomes[i] = scorerOutcome{name: s.Name(), source: s.Source(), skipped: true}
			continue
		}
		g.Go(func() error {
			outcomes[i] = runScorer(gctx, s, plan.input, cfg.Limits.ScorerTimeout)
			return nil
		})
	}
	_ = g.Wait()

	candidates = make(map[SourceKind][]Candidate)
	disabled = make(map[SourceKind]bool)
	for _, out := range outcomes {
		if out.skipped {
			disabled[out.source] = true
			continue
		}
		observer.ObserveScorer(out.source, len(out.result.Candidates), out.err)
		if out.err != nil {
			logger.Warn().
				Str("scorer", out.name).
				Err(out.err).
				Msg("scorer failed, disabled for this request")
			disabled[out.source] = true
			failed = true
			continue
		}
		if out.result.Disabled {
			disabled[out.source] = true
		}
		if len(out.result.Candidates) > 0 {
			candidates[out.source] = append(candidates[out.source], out.result.Candidates...)
		}
	}
	return candidates, disabled, failed
}

// runScorer runs one scorer with its own deadline and converts panics and
// late answers into errors.
func runScorer(ctx context.Context, s Scorer, in *ScoreInput, timeout time.Duration) (out scorerOutcome) {
	out.name = s.Name()
	out.source = s.Source()

	sctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			out.result = ScoreResult{}
			out.err = fmt.Errorf("scorer %s panicked: %v", s.Name(), r)
		}
	}()

	res, err := s.Score(sctx, in)
	if err == nil && sctx.Err() != nil {
		err = fmt.Errorf("scorer %s missed deadline: %w", s.Name(), sctx.Err())
	}
	if err != nil {
		res = ScoreResult{}
	}
	out.result, out.err = res, err
	return out
}

// storeCached caches recs unless the cache was invalidated after the
// request was planned.
func (e *Engine) storeCached(key string, gen uint64, recs []Recommendation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.cacheGen {
		return
	}
	e.cache.Put(key, recs)
}

// finishRequest records latency, logs slow requests and notifies the observer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (e *Engine) finishRequest(logger zerolog.Logger, cfg *Config, observer Observer, route string, start time.Time, results int) {
	elapsed := time.Since(start)
	e.totalLatencyNS.Add(elapsed.Nanoseconds())
	if route == RouteEmergency {
		e.emergencyCount.Add(1)
	}
	observer.ObservePredict(route, elapsed, results)

	if cfg.Limits.SlowRequestThreshold > 0 && elapsed > cfg.Limits.SlowRequestThreshold {
		e.slowLog.Do(func() {
			logger.Warn().
				Dur("latency", elapsed).
				Str("route", route).
				Msg("slow recommendation request")
		})
	}

	logger.Debug().
		Str("route", route).
		Int("returned", results).
		Int64("latency_ms", elapsed.Milliseconds()).
		Msg("recommendation complete")
}

// EnsureCurrent rebuilds the user-item matrix and refits dependent scorers
// if any interaction was recorded since the last build.
func (e *Engine) EnsureCurrent(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureCurrentLocked(ctx)
}

// ensureCurrentLocked must be called with mu held. A failed fit leaves the
// engine marked for refit.
func (e *Engine) ensureCurrentLocked(ctx context.Context) error {
	if e.matrix.current(e.store) && !e.refitNeeded {
		return nil
	}

	start := time.Now()
	e.matrix = buildMatrix(e.store, e.now())
	e.lastRebuildAt = e.matrix.BuiltAt()
	e.refitNeeded = false
	catalog := e.catalog.Snapshot()

	var errs []error
	for _, s := range e.scorers {
		f, ok := s.(Fitter)
		if !ok {
			continue
		}
		if err := f.Fit(ctx, e.matrix, catalog); err != nil {
			errs = append(errs, fmt.Errorf("fit %s: %w", s.Name(), err))
		}
	}

	if len(errs) > 0 {
		e.refitNeeded = true
	}

	elapsed := time.Since(start)
	e.observer.ObserveMatrixRebuild(elapsed)
	e.logger.Debug().
		Int("users", e.matrix.UserCount()).
		Int("items", e.matrix.ItemCount()).
		Uint64("version", e.matrix.Version()).
		Dur("latency", elapsed).
		Msg("matrix rebuilt")

	return errors.Join(errs...)
}

// Refresh brings the matrix and fitted models up to date and drops expired
// cache entries. It is called periodically by the refresh service.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureCurrentLocked(ctx); err != nil {
		return err
	}
	e.cache.CleanupExpired()
	return nil
}

// popularityLocked returns per-item rating aggregates, recomputed only
// after writes.
func (e *Engine) popularityLocked() map[string]ItemPopularity {
	if e.popularity == nil || e.popularityVersion != e.store.Version() {
		e.popularity = e.store.Popularity()
		e.popularityVersion = e.store.Version()
	}
	return e.popularity
}

// RecordInteraction stores a rating clamped to [1, 5]. The write is visible
// to the next Predict: the matrix is rebuilt lazily and the user's cached
// lists are dropped.
func (e *Engine) RecordInteraction(userID, itemID string, rating float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.recordLocked(userID, itemID, rating)
}

// RecordInteractions stores a batch of ratings.
func (e *Engine) RecordInteractions(interactions []Interaction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, in := range interactions {
		e.recordLocked(in.UserID, in.ItemID, in.Rating)
	}
}

func (e *Engine) recordLocked(userID, itemID string, rating float64) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = anonymousUser
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		e.logger.Warn().Str("user_id", userID).Msg("ignoring interaction without item")
		return
	}

	e.store.Record(userID, itemID, rating)
	e.cache.InvalidateUser(userID)
	e.cacheGen++
	e.observer.ObserveInteraction()
}

// RecordFeedback translates a feedback event into a rating change and
// appends it to the user's sequence. Positive weights raise the stored
// rating; every known kind is recorded regardless of sign.
func (e *Engine) RecordFeedback(userID, itemID string, kind FeedbackKind, fctx map[string]string) error {
	weight, ok := kind.Weight()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFeedback, kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = anonymousUser
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return ErrMissingItem
	}

	if weight > 0 {
		current, _ := e.store.Rating(userID, itemID)
		e.recordLocked(userID, itemID, current+weight)
	}

	e.feedback.Append(newFeedbackEvent(userID, itemID, kind, weight, fctx, e.now()))
	e.observer.ObserveFeedback(kind)

	e.logger.Debug().
		Str("user_id", userID).
		Str("item_id", itemID).
		Str("kind", string(kind)).
		Float64("weight", weight).
		Msg("feedback recorded")
	return nil
}

// AddImplicitSignal records a passive signal such as dwell time.
func (e *Engine) AddImplicitSignal(userID, kind string, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.feedback.AddSignal(userID, ImplicitSignal{Kind: kind, Value: value, Timestamp: e.now()})
}

// FeedbackSequence returns the user's recorded feedback, oldest first.
func (e *Engine) FeedbackSequence(userID string) []FeedbackEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback.Sequence(userID)
}

// ImplicitSignals returns the user's retained signals of one kind.
func (e *Engine) ImplicitSignals(userID, kind string) []ImplicitSignal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback.Signals(userID, kind)
}

// ConfigureEnsembleWeights validates, normalizes and installs new base
// weights, then clears the cache.
func (e *Engine) ConfigureEnsembleWeights(weights map[string]float64) error {
	parsed, err := ParseEnsembleWeights(weights)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.config.Clone()
	cfg.Weights = parsed
	e.config = cfg
	e.invalidateAllLocked()

	e.logger.Info().
		Float64("collaborative", parsed.Collaborative).
		Float64("content", parsed.Content).
		Float64("learned", parsed.Learned).
		Msg("ensemble weights updated")
	return nil
}

// ConfigureBusinessObjectives validates, normalizes and installs a new
// objective mix, then clears the cache.
func (e *Engine) ConfigureBusinessObjectives(objectives map[string]float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	parsed, err := ParseBusinessObjectives(e.config.Objectives, objectives)
	if err != nil {
		return err
	}

	cfg := e.config.Clone()
	cfg.Objectives = parsed
	e.config = cfg
	e.invalidateAllLocked()

	e.logger.Info().Interface("objectives", parsed.ToMap()).Msg("business objectives updated")
	return nil
}

// UpdateConfig validates and installs a new configuration, then clears the
// cache. Cache sizing takes effect on the next restart.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	next := cfg.Clone()
	next.Weights = next.Weights.Normalize()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.config = next
	e.refitNeeded = true
	e.invalidateAllLocked()
	e.logger.Info().Msg("configuration updated")
	return nil
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Clone()
}

// invalidateAllLocked clears the cache. Must be called with mu held.
func (e *Engine) invalidateAllLocked() {
	e.cache.Clear()
	e.cacheGen++
}

// History returns a copy of the user's item -> rating map.
func (e *Engine) History(userID string) map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.History(userID)
}

// WellnessProfile returns a copy of every domain profile of the user.
func (e *Engine) WellnessProfile(userID string) map[string]WellnessProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profiles.Get(userID)
}

// UpdateWellnessProfile merges update into one domain profile of the user.
// Other domains and unspecified fields are left untouched.
func (e *Engine) UpdateWellnessProfile(userID, domain string, update WellnessUpdate) WellnessProfile {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.profiles.Merge(userID, domain, update, e.now())
	e.cache.InvalidateUser(userID)
	e.cacheGen++
	return p
}

// GetModelStatus reports which scorers are enabled and available along with
// data and cache statistics.
func (e *Engine) GetModelStatus() ModelStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := ModelStatus{
		HeuristicEnabled: e.config.Heuristic.Enabled && e.domainScorer != nil,
		Weights:          e.config.Weights.ToMap(),
		Objectives:       e.config.Objectives.ToMap(),
		Users:            e.store.UserCount(),
		Items:            e.catalog.Len(),
		Interactions:     e.store.Len(),
		MatrixVersion:    int64(e.matrix.Version()),
		MatrixDirty:      !e.matrix.current(e.store) || e.refitNeeded,
		LastRebuildAt:    e.lastRebuildAt,
		Cache:            e.cache.Stats(),
		Scorers:          make([]ScorerStatus, 0, len(e.scorers)),
	}

	for _, s := range e.scorers {
		available := true
		if r, ok := s.(StatusReporter); ok {
			available = r.Available()
		}
		enabled := true
		if s.Source() == SourceLearned {
			enabled = e.config.Learned.Enabled
		}
		status.Scorers = append(status.Scorers, ScorerStatus{
			Name:      s.Name(),
			Source:    s.Source(),
			Enabled:   enabled,
			Available: available,
		})
	}

	status.Performance = e.performanceLocked(status.Cache)
	return status
}

// PerformanceStats summarizes request handling since start.
func (e *Engine) PerformanceStats() PerformanceStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.performanceLocked(e.cache.Stats())
}

func (e *Engine) performanceLocked(cache CacheStats) PerformanceStats {
	total := e.requestCount.Load()
	stats := PerformanceStats{
		TotalRequests: total,
		CacheHitRate:  cache.HitRate,
		CacheSize:     cache.Size,
	}
	if total > 0 {
		stats.AverageLatencyMS = float64(e.totalLatencyNS.Load()) / float64(total) / float64(time.Millisecond)
		stats.ErrorRate = float64(e.emergencyCount.Load()) / float64(total)
	}
	return stats
}
