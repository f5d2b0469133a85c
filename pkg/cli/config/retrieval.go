package config

import (
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/service/chunk"
	"github.com/owasp-nest/nestai/pkg/service/embedding"
	"github.com/owasp-nest/nestai/pkg/service/lexical"
	"github.com/owasp-nest/nestai/pkg/service/retrieval"
	"github.com/urfave/cli/v3"
)

// Retrieval holds CLI flags for chunking and hybrid retrieval tuning
type Retrieval struct {
	chunkSize    int
	chunkOverlap int
	channelK     int
	rrfK         int
	lexicalPath  string
}

// Flags returns CLI flags for retrieval configuration
func (r *Retrieval) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "chunk-size",
			Usage:       "Maximum chunk length in runes",
			Value:       chunk.DefaultSize,
			Sources:     cli.EnvVars("NESTAI_CHUNK_SIZE"),
			Destination: &r.chunkSize,
		},
		&cli.IntFlag{
			Name:        "chunk-overlap",
			Usage:       "Overlap between neighboring chunks in runes",
			Value:       chunk.DefaultOverlap,
			Sources:     cli.EnvVars("NESTAI_CHUNK_OVERLAP"),
			Destination: &r.chunkOverlap,
		},
		&cli.IntFlag{
			Name:        "retrieval-channel-k",
			Usage:       "Candidates per retrieval channel before fusion",
			Value:       retrieval.DefaultChannelK,
			Sources:     cli.EnvVars("NESTAI_RETRIEVAL_CHANNEL_K"),
			Destination: &r.channelK,
		},
		&cli.IntFlag{
			Name:        "rrf-k",
			Usage:       "Reciprocal rank fusion constant",
			Value:       retrieval.DefaultRRFK,
			Sources:     cli.EnvVars("NESTAI_RRF_K"),
			Destination: &r.rrfK,
		},
		&cli.StringFlag{
			Name:        "lexical-index-path",
			Usage:       "Path of the on-disk lexical index (empty = in-memory)",
			Sources:     cli.EnvVars("NESTAI_LEXICAL_INDEX_PATH"),
			Destination: &r.lexicalPath,
		},
	}
}

// Splitter builds the chunk splitter from the flags
func (r *Retrieval) Splitter() *chunk.Splitter {
	return chunk.NewSplitter(r.chunkSize, r.chunkOverlap)
}

// LexicalIndex opens the configured lexical index
func (r *Retrieval) LexicalIndex() (*lexical.Index, error) {
	return lexical.New(r.lexicalPath)
}

// Options returns the retriever options from the flags
func (r *Retrieval) Options() []retrieval.Option {
	return []retrieval.Option{
		retrieval.WithChannelK(r.channelK),
		retrieval.WithRRFK(r.rrfK),
	}
}

// Retriever builds a hybrid retriever with the configured tuning
func (r *Retrieval) Retriever(contexts interfaces.ContextRepository, embedder embedding.Embedder, lex *lexical.Index) *retrieval.Retriever {
	return retrieval.New(contexts, embedder, lex, r.Options()...)
}
