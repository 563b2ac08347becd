// Package scheduler executes a validated phenotype library by walking its
// dependency graph topologically with a bounded worker pool.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.phenora.dev/phenoql/internal/engine/eval"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// NodeStatus represents the status of a graph node during a run.
type NodeStatus string

const (
	// StatusPending indicates the node is waiting to be executed.
	StatusPending NodeStatus = "Pending"
	// StatusRunning indicates the node is currently executing.
	StatusRunning NodeStatus = "Running"
	// StatusCompleted indicates the node finished successfully.
	StatusCompleted NodeStatus = "Completed"
	// StatusFailed indicates the node execution failed.
	StatusFailed NodeStatus = "Failed"
)

// Options configures one run.
type Options struct {
	// Parallelism bounds the worker pool. Values below one mean one.
	Parallelism int
	// TaskTimeout bounds each task dispatch. Zero means no deadline.
	TaskTimeout time.Duration
	// NoCache bypasses the result cache entirely.
	NoCache bool
}

// Outcome is the product of a run: the published result sets plus the
// per-subject error manifest.
type Outcome struct {
	Env           *eval.Environment
	Subjects      []domain.SubjectID
	SubjectErrors []domain.SubjectError
	CacheHits     int
	CacheMisses   int
}

// Scheduler drives task runners and the expression evaluator over the
// dependency graph. The cache is the only shared resource it mutates;
// concurrent identical computations coalesce through a single-flight group.
type Scheduler struct {
	registry ports.TaskRegistry
	docs     ports.DocumentStore
	cohorts  ports.CohortResolver
	cache    ports.ResultCache
	prints   ports.Fingerprinter
	logger   ports.Logger

	flight singleflight.Group

	mu     sync.RWMutex
	status map[string]NodeStatus
}

// New creates a Scheduler with the given collaborators.
func New(
	registry ports.TaskRegistry,
	docs ports.DocumentStore,
	cohorts ports.CohortResolver,
	cache ports.ResultCache,
	prints ports.Fingerprinter,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		registry: registry,
		docs:     docs,
		cohorts:  cohorts,
		cache:    cache,
		prints:   prints,
		logger:   logger,
		status:   make(map[string]NodeStatus),
	}
}

// Status returns the current status of a node.
func (s *Scheduler) Status(name string) NodeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[name]
}

func (s *Scheduler) updateStatus(name string, status NodeStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// Run executes the library. Leaf entities are resolved once and shared by
// all dependents; define nodes execute as soon as their producers have
// published. Per-subject task failures land in the outcome manifest without
// aborting sibling work; a failed collaborator during leaf resolution fails
// the whole run before any dispatch.
func (s *Scheduler) Run(
	ctx context.Context,
	lib *domain.Library,
	graph *domain.Graph,
	opts Options,
) (*Outcome, error) {
	if !graph.Validated() {
		if err := graph.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}

	state, err := s.newRunState(ctx, lib, graph, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for name := range state.defines {
		s.status[name] = StatusPending
	}
	s.mu.Unlock()

	if err := state.runExecutionLoop(); err != nil {
		return nil, err
	}

	return &Outcome{
		Env:           state.env,
		Subjects:      state.subjects,
		SubjectErrors: state.subjectErrs,
		CacheHits:     state.cacheHits,
		CacheMisses:   state.cacheMisses,
	}, nil
}

type nodeResult struct {
	name string
	set  *domain.ResultSet
	errs []domain.SubjectError
	hit  bool
	miss bool
}

type runState struct {
	s     *Scheduler
	ctx   context.Context
	lib   *domain.Library
	graph *domain.Graph
	opts  Options

	// Hydrated leaves, shared by all dependents.
	docSets  map[string][]domain.DocumentHandle
	cohorts  map[string][]domain.SubjectID
	allDocs  []domain.DocumentHandle
	subjects []domain.SubjectID

	defines  map[string]*domain.Define
	inDegree map[string]int
	ready    []string
	active   int

	resultsCh chan nodeResult
	env       *eval.Environment

	subjectErrs []domain.SubjectError
	cacheHits   int
	cacheMisses int
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	lib *domain.Library,
	graph *domain.Graph,
	opts Options,
) (*runState, error) {
	state := &runState{
		s:         s,
		ctx:       ctx,
		lib:       lib,
		graph:     graph,
		opts:      opts,
		docSets:   make(map[string][]domain.DocumentHandle),
		cohorts:   make(map[string][]domain.SubjectID),
		defines:   make(map[string]*domain.Define),
		inDegree:  make(map[string]int),
		resultsCh: make(chan nodeResult, opts.Parallelism),
		env:       eval.NewEnvironment(lib.Context),
	}

	if err := state.hydrateLeaves(ctx); err != nil {
		return nil, err
	}

	// Only define nodes are scheduled; leaf dependencies are satisfied by
	// hydration, so in-degree counts define-to-define edges only.
	for _, def := range lib.Defines {
		state.defines[def.Name] = def
		degree := 0
		for _, dep := range def.DependsOn {
			if node, ok := graph.Node(dep); ok && node.Kind == domain.NodeDefine {
				degree++
			}
		}
		state.inDegree[def.Name] = degree
		if degree == 0 {
			state.ready = append(state.ready, def.Name)
		}
	}
	sort.Strings(state.ready)

	return state, nil
}

// hydrateLeaves resolves every term set, document set and cohort once per
// run, concurrently. Any failure here aborts the run before task dispatch.
func (state *runState) hydrateLeaves(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(state.opts.Parallelism)

	var mu sync.Mutex

	g.Go(func() error {
		docs, err := state.s.docs.ResolveDocumentSet(ctx, domain.DocumentCriteria{})
		if err != nil {
			return errors.Join(domain.ErrCollaboratorUnavailable, err)
		}
		mu.Lock()
		state.allDocs = docs
		mu.Unlock()
		return nil
	})

	for _, ds := range state.lib.DocumentSets {
		g.Go(func() error {
			docs, err := state.s.docs.ResolveDocumentSet(ctx, ds.Criteria)
			if err != nil {
				return errors.Join(
					domain.ErrCollaboratorUnavailable,
					zerr.With(err, "documentset", ds.Name),
				)
			}
			mu.Lock()
			state.docSets[ds.Name] = docs
			mu.Unlock()
			return nil
		})
	}

	for _, c := range state.lib.Cohorts {
		g.Go(func() error {
			subjects, err := state.s.cohorts.ResolveCohort(ctx, c.Ref)
			if err != nil {
				return errors.Join(
					domain.ErrCollaboratorUnavailable,
					zerr.With(err, "cohort", c.Name),
				)
			}
			mu.Lock()
			state.cohorts[c.Name] = subjects
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return state.resolveRunSubjects(ctx)
}

// resolveRunSubjects fixes the subject universe for the run: the union of
// all declared cohorts, or every subject in the document store when the
// library declares none. The limit statement caps the universe.
func (state *runState) resolveRunSubjects(ctx context.Context) error {
	var subjects []domain.SubjectID
	if len(state.lib.Cohorts) > 0 {
		seen := make(map[domain.SubjectID]bool)
		for _, c := range state.lib.Cohorts {
			for _, id := range state.cohorts[c.Name] {
				if !seen[id] {
					seen[id] = true
					subjects = append(subjects, id)
				}
			}
		}
	} else {
		var err error
		subjects, err = state.s.docs.Subjects(ctx)
		if err != nil {
			return errors.Join(domain.ErrCollaboratorUnavailable, err)
		}
	}

	sort.Slice(subjects, func(i, j int) bool { return subjects[i] < subjects[j] })
	if state.lib.Limit > 0 && len(subjects) > state.lib.Limit {
		subjects = subjects[:state.lib.Limit]
	}
	state.subjects = subjects
	return nil
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) runExecutionLoop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return state.ctx.Err()
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	return state.ctx.Err()
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.opts.Parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(name, StatusRunning)

		def := state.defines[name]
		go state.executeDefine(def)
	}
}

func (state *runState) executeDefine(def *domain.Define) {
	var res nodeResult
	if def.Kind == domain.DefineTask {
		res = state.runTask(def)
	} else {
		res = state.runExpression(def)
	}
	res.name = def.Name
	state.resultsCh <- res
}

func (state *runState) handleResult(res nodeResult) {
	state.active--

	if res.hit {
		state.cacheHits++
	}
	if res.miss {
		state.cacheMisses++
	}
	state.subjectErrs = append(state.subjectErrs, res.errs...)

	if res.set != nil {
		state.env.Publish(res.set)
		state.s.updateStatus(res.name, StatusCompleted)
	} else {
		// The define failed wholly. Publish an empty set so dependents
		// observe absent values rather than blocking.
		state.env.Publish(&domain.ResultSet{Define: res.name})
		state.s.updateStatus(res.name, StatusFailed)
	}

	unlocked := make([]string, 0, 2)
	for _, dep := range state.graph.Dependents(res.name) {
		if _, ok := state.defines[dep]; !ok {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			unlocked = append(unlocked, dep)
		}
	}
	sort.Strings(unlocked)
	state.ready = append(state.ready, unlocked...)
}

// runTask resolves the invocation's scope, consults the cache, and invokes
// the runner at most once per fingerprint.
func (state *runState) runTask(def *domain.Define) nodeResult {
	req := state.buildRequest(def)
	fp := state.s.prints.Fingerprint(req)

	if !state.opts.NoCache {
		rows, err := state.s.cache.Get(state.ctx, fp)
		if err != nil {
			state.s.logger.Warn("cache read failed: " + err.Error())
		} else if rows != nil {
			state.s.logger.Debug("cache hit for " + def.Name)
			return nodeResult{set: &domain.ResultSet{Define: def.Name, Rows: rows}, hit: true}
		}
	}

	rows, err := state.invokeOnce(fp, req)
	if err != nil {
		taskErr := errors.Join(
			domain.ErrTaskExecution,
			zerr.With(zerr.With(err, "define", def.Name), "task", req.Task),
		)
		state.s.logger.Error(taskErr)
		return nodeResult{
			errs: []domain.SubjectError{{Define: def.Name, Message: taskErr.Error()}},
			miss: true,
		}
	}

	if !state.opts.NoCache {
		if err := state.s.cache.PutIfAbsent(state.ctx, fp, rows); err != nil {
			state.s.logger.Warn("cache write failed: " + err.Error())
		}
	}
	return nodeResult{set: &domain.ResultSet{Define: def.Name, Rows: rows}, miss: true}
}

// invokeOnce dispatches to the task runner, coalescing concurrent requests
// for the same fingerprint into a single execution.
func (state *runState) invokeOnce(fp string, req domain.TaskRequest) ([]domain.ExecutionRow, error) {
	v, err, _ := state.s.flight.Do(fp, func() (any, error) {
		runner, ok := state.s.registry.Lookup(req.Task)
		if !ok {
			// Unknown tasks are rejected at validation; reaching this
			// branch means the registry changed underneath the run.
			return nil, domain.Annotate(domain.ErrUnknownTask, "task", req.Task)
		}

		ctx := state.ctx
		if state.opts.TaskTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, state.opts.TaskTimeout)
			defer cancel()
		}

		rows, err := runner.Invoke(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, zerr.Wrap(err, "task deadline exceeded")
			}
			return nil, err
		}
		if rows == nil {
			rows = []domain.ExecutionRow{}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ExecutionRow), nil
}

// buildRequest resolves the invocation's references against the hydrated
// leaves. Document scope defaults to the whole store, subject scope to the
// run universe. A cohort parameter narrows that universe, never widens it,
// so subjects trimmed by a limit statement stay out of dispatch.
func (state *runState) buildRequest(def *domain.Define) domain.TaskRequest {
	inv := def.Task
	req := domain.TaskRequest{
		Task:    inv.Task,
		Define:  def.Name,
		Params:  make(map[string]domain.Value),
		Context: state.lib.Context,
	}

	for name, param := range inv.Params {
		if param.Kind == domain.ParamLiteral {
			req.Params[name] = param.Literal
		}
	}

	for _, name := range inv.TermSets {
		if ts, ok := state.lib.TermSet(name); ok {
			req.TermSets = append(req.TermSets, ts)
		}
	}
	sort.Slice(req.TermSets, func(i, j int) bool {
		return req.TermSets[i].Name < req.TermSets[j].Name
	})

	if len(inv.DocumentSets) == 0 {
		req.Documents = state.allDocs
	} else {
		seen := make(map[string]bool)
		for _, name := range inv.DocumentSets {
			for _, h := range state.docSets[name] {
				if !seen[h.ID] {
					seen[h.ID] = true
					req.Documents = append(req.Documents, h)
				}
			}
		}
	}
	sort.Slice(req.Documents, func(i, j int) bool {
		return req.Documents[i].ID < req.Documents[j].ID
	})

	if len(inv.Cohorts) == 0 {
		req.Subjects = state.subjects
	} else {
		universe := make(map[domain.SubjectID]bool, len(state.subjects))
		for _, id := range state.subjects {
			universe[id] = true
		}
		seen := make(map[domain.SubjectID]bool)
		var subjects []domain.SubjectID
		for _, name := range inv.Cohorts {
			for _, id := range state.cohorts[name] {
				if universe[id] && !seen[id] {
					seen[id] = true
					subjects = append(subjects, id)
				}
			}
		}
		sort.Slice(subjects, func(i, j int) bool { return subjects[i] < subjects[j] })
		req.Subjects = subjects
	}

	return req
}

// runExpression evaluates the define for every subject in the run universe.
// Evaluation failures are isolated per subject.
func (state *runState) runExpression(def *domain.Define) nodeResult {
	set := &domain.ResultSet{Define: def.Name}
	var errs []domain.SubjectError

	for _, subject := range state.subjects {
		v, err := eval.Evaluate(state.env, def.Expr, subject)
		if err != nil {
			errs = append(errs, domain.SubjectError{
				Subject: subject,
				Define:  def.Name,
				Message: err.Error(),
			})
			continue
		}
		if v.IsAbsent() {
			continue
		}
		set.Rows = append(set.Rows, domain.ExecutionRow{Subject: subject, Value: v})
	}

	return nodeResult{set: set, errs: errs}
}
