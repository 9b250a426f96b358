// Package zest provides the control plane for the zest peer-to-peer model
// transfer daemon. The daemon itself is an external executable that performs
// all chunk negotiation and peer discovery; this package locates it,
// supervises its lifecycle, and mediates download requests through its local
// HTTP API.
//
// The package serves three primary use cases:
//
//  1. Programmatic API via the Manager interface - Applications can use
//     NewManager to create a Manager that ensures the daemon is running and
//     provides pull, status, stop, and snapshot-path operations.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach a complete
//     command tree to their Cobra root command, providing commands like
//     "mytool pull", "mytool status", etc.
//
//  3. Transparent acceleration via the Downloader interface - Callers that
//     already have a download path can wrap it with WithFallback so the
//     accelerated daemon is tried first and the original behavior is used
//     whenever acceleration fails. Enable and Disable manage a process-wide
//     default chain, and EnableFromEnvironment activates it when ZEST=1.
//
// # Daemon Lifecycle
//
// The daemon binary is located by a fixed search order (a _bin directory
// next to the current executable, then PATH, then ~/.local/bin), spawned
// with "serve --http-port <port>", and health-checked against GET /v1/health
// until it reports ready. EnsureRunning is idempotent: a daemon that already
// answers the health probe is never spawned again.
//
// # Snapshot Paths
//
// Downloads land in the shared hub cache, by default
// ~/.cache/huggingface/hub. Snapshot directories are keyed by the sanitized
// repo identifier ("org/name" becomes "models--org--name"); Manager.Path
// resolves the most recent snapshot for a repo.
package zest
