// Package core contains the plumbing shared by the chain and seq packages:
// per-call options carried in a context, helpers that await asynchronous
// steps, panic recovery, step naming, and the Observer hook points that
// logging and tracing attach to. It holds no interception logic itself.
package core
