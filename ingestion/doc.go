// Package ingestion converts raw document text into embedded chunks in
// the corpus.
//
// A Pipeline splits text into overlapping chunks, stores them, then
// embeds them in batches on a bounded worker pool. Embedding failures
// are retried with exponential backoff and logged rather than failing
// the ingestion; vectors are normalized to unit length so the store's
// dot-product search behaves as cosine similarity.
package ingestion
