// Package knowledge loads the static snippet base and answers
// nearest-neighbor retrieval queries over it.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sanjit-mathur/mindmate/internal/domain"
	"github.com/sanjit-mathur/mindmate/internal/llm"
)

// Index holds the immutable snippet base. Snippets are loaded once at
// process start; queries embed the message and rank by cosine similarity.
type Index struct {
	snippets []domain.Snippet
	embedder llm.Embedder
}

// kbItem accepts the loose knowledge-base JSON: a bare string, or an
// object with "text" or "content", optional "topic" and "embedding".
type kbItem struct {
	Text      string    `json:"text"`
	Content   string    `json:"content"`
	Topic     string    `json:"topic"`
	Embedding []float64 `json:"embedding"`
}

func (it *kbItem) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		it.Text = s
		return nil
	}
	type alias kbItem
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*it = kbItem(a)
	return nil
}

// Load reads every .json file in dir into the index. A missing directory
// is created and yields an empty index; unreadable files are skipped.
// Snippets without a stored embedding are embedded in bulk when an
// embedder is available.
func Load(ctx context.Context, dir string, embedder llm.Embedder) (*Index, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create knowledge dir: %w", err)
		}
		return &Index{embedder: embedder}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read knowledge dir: %w", err)
	}

	var snippets []domain.Snippet
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable knowledge file", "path", path, "error", err)
			continue
		}
		var items []kbItem
		if err := json.Unmarshal(b, &items); err != nil {
			slog.Warn("Skipping malformed knowledge file", "path", path, "error", err)
			continue
		}
		for _, it := range items {
			text := it.Text
			if text == "" {
				text = it.Content
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			topic := it.Topic
			if topic == "" {
				topic = entry.Name()
			}
			snippets = append(snippets, domain.Snippet{Text: text, Topic: topic, Embedding: it.Embedding})
		}
	}

	ix := &Index{snippets: snippets, embedder: embedder}
	if err := ix.embedMissing(ctx); err != nil {
		return nil, err
	}
	slog.Info("Knowledge base loaded", "snippets", len(snippets), "dir", dir)
	return ix, nil
}

func (ix *Index) embedMissing(ctx context.Context) error {
	if ix.embedder == nil {
		return nil
	}
	var texts []string
	var missing []int
	for i, s := range ix.snippets {
		if len(s.Embedding) == 0 {
			texts = append(texts, s.Text)
			missing = append(missing, i)
		}
	}
	if len(texts) == 0 {
		return nil
	}
	vecs, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed knowledge base: %w", err)
	}
	for j, i := range missing {
		ix.snippets[i].Embedding = vecs[j]
	}
	return nil
}

// Len returns the number of loaded snippets.
func (ix *Index) Len() int {
	return len(ix.snippets)
}

// TopK returns the k snippets nearest to the query by cosine similarity.
// Without an embedder or with an empty base it returns nothing and nil;
// the chat turn proceeds without retrieved context.
func (ix *Index) TopK(ctx context.Context, query string, k int) ([]domain.Snippet, error) {
	if ix.embedder == nil || len(ix.snippets) == 0 || k <= 0 {
		return nil, nil
	}

	vecs, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	q := vecs[0]

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, 0, len(ix.snippets))
	for i, s := range ix.snippets {
		if len(s.Embedding) == 0 {
			continue
		}
		scores = append(scores, scored{idx: i, score: cosine(q, s.Embedding)})
	}
	sort.Slice(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]domain.Snippet, 0, k)
	for _, sc := range scores[:k] {
		out = append(out, ix.snippets[sc.idx])
	}
	return out, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
