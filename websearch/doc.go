// Package websearch integrates an external web search service into the
// research flow.
//
// The Client wraps a Tavily-compatible HTTP search API with retries,
// content cleaning, and root-domain extraction. Like the other external
// collaborators, web search is optional: a client without an API key is
// disabled and every failure path yields empty results instead of an
// error, so a research session degrades to corpus-only retrieval rather
// than halting.
package websearch
