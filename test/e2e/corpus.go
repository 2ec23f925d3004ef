// Package e2e provides end-to-end tests over a generated embeddings corpus with known neighbourhoods.
package e2e

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Topics name the clusters of the corpus. Every word of a topic starts with the topic name.
var Topics = []string{
	"python", "kubernetes", "react", "golang", "postgres",
	"docker", "learning", "neural", "invoice", "recipe",
}

// Word is one corpus row.
type Word struct {
	Text   string
	Topic  string
	Vector []float64
}

// QueryTestCase is a word whose nearest neighbours must all come from Topic.
type QueryTestCase struct {
	Word  string
	Topic string
}

// Corpus holds the generated rows and the query test cases for E2E tests.
type Corpus struct {
	Words        []Word
	TestCases    []QueryTestCase
	Features     int
	PerTopic     int
	TotalWords   int
	TotalQueries int
}

// BuildCorpus returns perTopic words for every topic. Each topic owns one axis of the
// feature space; words are that axis plus small noise, so a word's perTopic nearest
// neighbours under every metric are exactly its own topic.
func BuildCorpus(perTopic int, seed int64) *Corpus {
	features := len(Topics) + 6
	rng := rand.New(rand.NewSource(seed))
	c := &Corpus{Features: features, PerTopic: perTopic}
	for t, topic := range Topics {
		for j := 0; j < perTopic; j++ {
			v := make([]float64, features)
			for i := range v {
				v[i] = (rng.Float64() - 0.5) / 10
			}
			v[t] += 1
			w := Word{Text: fmt.Sprintf("%s%02d", topic, j), Topic: topic, Vector: v}
			c.Words = append(c.Words, w)
			if j%3 == 0 {
				c.TestCases = append(c.TestCases, QueryTestCase{Word: w.Text, Topic: topic})
			}
		}
	}
	c.TotalWords = len(c.Words)
	c.TotalQueries = len(c.TestCases)
	return c
}

// TopicOf returns the topic a corpus word belongs to, or "".
func TopicOf(word string) string {
	for _, t := range Topics {
		if strings.HasPrefix(word, t) {
			return t
		}
	}
	return ""
}

// Encode renders the corpus in the embeddings file format with the given delimiter
// and line ending.
func (c *Corpus) Encode(delimiter, newline string) []byte {
	var b strings.Builder
	for _, w := range c.Words {
		b.WriteString(w.Text)
		for _, f := range w.Vector {
			b.WriteString(delimiter)
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
		b.WriteString(newline)
	}
	return []byte(b.String())
}
