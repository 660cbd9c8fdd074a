package registry

import (
	"context"
	"sync"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// VariantSource supplies the variant list of a module. Implementations may
// block (for example on a remote catalog service) and may fail.
type VariantSource interface {
	Variants(ctx context.Context, moduleID string) ([]model.VariantDefinition, error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFailureHook registers a callback invoked whenever a resolution fails.
func WithFailureHook(fn func(moduleID string, err error)) ResolverOption {
	return func(r *Resolver) { r.onFailure = fn }
}

// WithTracer overrides the tracer used for resolution spans.
func WithTracer(t trace.Tracer) ResolverOption {
	return func(r *Resolver) { r.tracer = t }
}

// Resolver resolves the variant list of a module. Successful results are
// cached until Reset, and concurrent lookups for the
// same module share a single call to the source.
type Resolver struct {
	source    VariantSource
	group     singleflight.Group
	tracer    trace.Tracer
	onFailure func(moduleID string, err error)

	mu    sync.RWMutex
	cache map[string][]model.VariantDefinition
}

// NewResolver creates a resolver over source.
func NewResolver(source VariantSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source: source,
		tracer: otel.Tracer("github.com/vk/pipecanvas/internal/registry"),
		cache:  make(map[string][]model.VariantDefinition),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the variants of a module. It never fails: when the source
// errors the failure is logged and an empty list is returned, so callers can
// still create a node with no ports.
func (r *Resolver) Resolve(ctx context.Context, moduleID string) []model.VariantDefinition {
	r.mu.RLock()
	cached, ok := r.cache[moduleID]
	r.mu.RUnlock()
	if ok {
		return model.CloneVariants(cached)
	}

	ctx, span := r.tracer.Start(ctx, "registry.ResolveVariants",
		trace.WithAttributes(attribute.String("module.id", moduleID)))
	defer span.End()

	v, err, shared := r.group.Do(moduleID, func() (any, error) {
		return r.source.Variants(ctx, moduleID)
	})
	span.SetAttributes(attribute.Bool("resolve.shared", shared))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ctxlog.FromContext(ctx).Warn("Variant resolution failed, using an empty variant list.", "module_id", moduleID, "error", err)
		if r.onFailure != nil {
			r.onFailure(moduleID, err)
		}
		return nil
	}

	variants, _ := v.([]model.VariantDefinition)
	span.SetAttributes(attribute.Int("resolve.variants", len(variants)))

	r.mu.Lock()
	r.cache[moduleID] = variants
	r.mu.Unlock()
	return model.CloneVariants(variants)
}

// ResolveAsync starts a resolution in the background. The channel receives
// exactly one value and is then closed.
func (r *Resolver) ResolveAsync(ctx context.Context, moduleID string) <-chan []model.VariantDefinition {
	out := make(chan []model.VariantDefinition, 1)
	go func() {
		defer close(out)
		out <- r.Resolve(ctx, moduleID)
	}()
	return out
}

// Reset drops every cached result, so the next lookup for each module goes
// back to the source.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string][]model.VariantDefinition)
}
