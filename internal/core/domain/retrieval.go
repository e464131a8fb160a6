package domain

// Evidence is a single retrieved chunk with its scores.
type Evidence struct {
	// ChunkID identifies the retrieved chunk.
	ChunkID string

	// Relevance is the raw cosine similarity to the query.
	Relevance float64

	// MMRScore is the marginal-relevance score at selection time.
	// Equals Relevance for the first pick and for lambda = 1.
	MMRScore float64
}

// EvidenceSet is the ordered result of one retrieval call, in
// relevance-then-diversity selection order. It is ephemeral: its
// lifetime is the single retrieval call that produced it.
type EvidenceSet []Evidence

// ChunkIDs returns the selected chunk ids in selection order.
func (s EvidenceSet) ChunkIDs() []string {
	ids := make([]string, len(s))
	for i, e := range s {
		ids[i] = e.ChunkID
	}
	return ids
}

// RetrievalOptions configures a retrieval call.
type RetrievalOptions struct {
	// TopK is the number of evidence chunks to return.
	TopK int

	// Lambda is the MMR relevance/diversity trade-off in [0, 1].
	// 1 degenerates to pure relevance ranking, 0 to pure diversity
	// after the first pick.
	Lambda float64

	// FetchK is the oversampled candidate pool size fetched from the
	// index before MMR re-ranking. Zero means min(4*TopK, all).
	FetchK int
}
