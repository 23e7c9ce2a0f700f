// Package openai provides production implementations of the ai interfaces
// backed by OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM).
//
// The Completer and Embedder types wrap langchaingo clients. Two completer
// instances are typically created per process, one for the lead model tier
// and one for the worker tier.
package openai
