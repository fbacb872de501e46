// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package osmobj

import (
	"log/slog"
	"runtime"
)

const (
	// DefaultCacheSize is the default number of resolved way paths kept.
	DefaultCacheSize = 4096
)

// DefaultNCpu provides the default number of CPUs.
func DefaultNCpu() uint16 {
	cpus := uint16(runtime.GOMAXPROCS(-1))

	return max(cpus-1, 1)
}

// resolverOptions provides optional configuration parameters for Resolver construction.
type resolverOptions struct {
	logger    *slog.Logger
	metrics   *Metrics
	cacheSize int    // number of resolved way paths kept, 0 disables caching
	nCPU      uint16 // the number of CPUs to use for ResolveAll
}

// ResolverOption configures how we set up the resolver.
type ResolverOption func(*resolverOptions)

// WithLogger lets you set the logger problems are reported to.  The default
// is slog.Default().
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(o *resolverOptions) {
		o.logger = logger
	}
}

// WithMetrics lets you record resolution metrics.
func WithMetrics(m *Metrics) ResolverOption {
	return func(o *resolverOptions) {
		o.metrics = m
	}
}

// WithCacheSize lets you set the number of resolved way paths kept.
func WithCacheSize(n int) ResolverOption {
	return func(o *resolverOptions) {
		o.cacheSize = n
	}
}

// WithNCpus lets you set the number of CPUs to use for ResolveAll.
func WithNCpus(n uint16) ResolverOption {
	return func(o *resolverOptions) {
		o.nCPU = n
	}
}

// defaultResolverConfig provides a default configuration for resolvers.
var defaultResolverConfig = resolverOptions{
	cacheSize: DefaultCacheSize,
	nCPU:      DefaultNCpu(),
}
