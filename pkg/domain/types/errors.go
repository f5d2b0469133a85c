package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures across the knowledge layer. Callers use
// goerr.HasTag to decide whether a failure is fatal, retriable, or should
// be fed back into an agent loop.
var (
	// ErrTagConfig marks invalid or missing configuration. Fatal at startup.
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagEmbedder marks embedding provider failures after retries.
	ErrTagEmbedder = goerr.NewTag("embedder")

	// ErrTagLLM marks LLM provider failures.
	ErrTagLLM = goerr.NewTag("llm")

	// ErrTagExtractor marks content extraction failures (unknown entity kind).
	ErrTagExtractor = goerr.NewTag("extractor")

	// ErrTagToolInput marks invalid tool arguments. Reported back to the
	// agent loop, never fatal.
	ErrTagToolInput = goerr.NewTag("tool_input")
)

// ErrNotFound indicates the requested record does not exist. An empty
// retrieval is not an error; repositories return this only for point lookups.
var ErrNotFound = goerr.New("not found")
