package types

import (
	"time"

	"github.com/google/uuid"
)

// QARecord is one row of the Q&A sheet.
type QARecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Lang     Lang   `json:"lang"`
}

// Text is the searchable representation of the record. The single space
// separator is part of the index format.
func (r QARecord) Text() string {
	return r.Question + " " + r.Answer
}

// Document is an embedded QA record as stored in the similarity index.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Position  int       `json:"position"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
}

func NewDocument(position int, rec QARecord) Document {
	return Document{
		ID:       uuid.New(),
		Position: position,
		Content:  rec.Text(),
	}
}

// SearchResult is a document hit. Distance is cosine distance (1 - similarity),
// lower is closer.
type SearchResult struct {
	Document
	Distance float64 `json:"distance"`
}

func (r SearchResult) Similarity() float64 {
	return 1 - r.Distance
}

// IndexInfo describes a persisted similarity index.
type IndexInfo struct {
	BuildID        uuid.UUID `json:"build_id"`
	EmbeddingModel string    `json:"embedding_model"`
	Dimension      int       `json:"dimension"`
	Count          int       `json:"count"`
	BuiltAt        time.Time `json:"built_at"`
}

type FAQEntry struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Lead is a validated signup ready to be written to the signups tab.
type Lead struct {
	Timestamp     time.Time
	Lang          Lang
	FirstName     string
	LastName      string
	Program       string
	Email         string
	PhoneOrWeixin string
	Consent       bool
}

// Row returns the lead in signups column order.
func (l Lead) Row() []string {
	consent := "no"
	if l.Consent {
		consent = "yes"
	}
	return []string{
		l.Timestamp.UTC().Format(time.RFC3339),
		string(l.Lang),
		l.FirstName,
		l.LastName,
		l.Program,
		l.Email,
		l.PhoneOrWeixin,
		consent,
	}
}

var SignupHeader = []string{
	"timestamp", "lang", "first_name", "last_name", "program",
	"email", "phone_or_weixin", "consent",
}
