// Package llm provides the inference gateway for the assistant. It
// routes semantic tasks to provider/model pairs, issues structured
// chat-completion calls over HTTP with a one-shot fallback to a second
// provider, rate-limits per provider, and records latency and token
// usage for every call.
package llm
