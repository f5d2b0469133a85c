package model

// ScoredChunk is a chunk returned by the vector channel along with its
// cosine distance to the query embedding.
type ScoredChunk struct {
	Chunk    *Chunk
	Distance float64
}

// LexicalHit is a chunk reference returned by the lexical (BM25) channel.
type LexicalHit struct {
	ChunkID ChunkID
	Score   float64
	Rank    int // 1-based
}

// FusedResult is one entry of the hybrid retrieval output after
// reciprocal-rank fusion.
type FusedResult struct {
	ChunkID  ChunkID
	Score    float64 // RRF score, descending
	BestRank int     // lowest rank across channels, fusion tie-breaker
	Text     string
	Label    string  // context attribution, e.g. "owasp_project/juice-shop"
	Distance float64 // cosine distance when the vector channel saw the chunk, else 0
}
