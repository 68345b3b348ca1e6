package report

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/medex/pkg/medex/catalog"
)

const noMatchMessage = "No matching illness found."

// Builder constructs diagnosis reports with sortable, unique IDs
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Report is the outcome of a single diagnosis request
type Report struct {
	ID          string    `json:"id"`
	Observed    []string  `json:"observed"`
	Illnesses   []string  `json:"illnesses"`
	Message     string    `json:"message"`
	Explain     Explain   `json:"explain"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Explain shows why illnesses were or were not reported
type Explain struct {
	// UnknownSymptoms were observed but appear nowhere in the catalog
	UnknownSymptoms []string `json:"unknown_symptoms"`
	// NearMisses are illnesses short of exactly one required symptom
	NearMisses []NearMiss `json:"near_misses"`
}

// NearMiss names an unreported illness and the symptom it lacked
type NearMiss struct {
	Illness string `json:"illness"`
	Missing string `json:"missing"`
}

// Build creates a report for observed symptoms and the illnesses diagnosed from them.
// cat supplies the explanation; illnesses is taken as-is.
func (b *Builder) Build(cat *catalog.Catalog, observed, illnesses []string) Report {
	b.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(b.now()), b.entropy).String()
	b.mu.Unlock()

	r := Report{
		ID:          id,
		Observed:    append([]string{}, observed...),
		Illnesses:   append([]string{}, illnesses...),
		Message:     Message(illnesses),
		GeneratedAt: b.now().UTC(),
		Explain: Explain{
			UnknownSymptoms: []string{},
			NearMisses:      []NearMiss{},
		},
	}
	if cat == nil {
		return r
	}

	present := make(map[string]struct{}, len(observed))
	for _, s := range observed {
		present[s] = struct{}{}
	}
	known := make(map[string]struct{})
	for _, s := range cat.Symptoms {
		known[s] = struct{}{}
	}
	reported := make(map[string]struct{}, len(illnesses))
	for _, name := range illnesses {
		reported[name] = struct{}{}
	}

	for _, ill := range cat.Illnesses {
		var missing []string
		for _, s := range ill.Symptoms {
			known[s] = struct{}{}
			if _, ok := present[s]; !ok {
				missing = append(missing, s)
			}
		}
		if _, ok := reported[ill.Name]; ok {
			continue
		}
		// a single required symptom is not a near miss, it is no match at all
		if len(missing) == 1 && len(ill.Symptoms) > 1 {
			r.Explain.NearMisses = append(r.Explain.NearMisses, NearMiss{Illness: ill.Name, Missing: missing[0]})
		}
	}

	seen := make(map[string]struct{})
	for _, s := range observed {
		if _, ok := known[s]; ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		r.Explain.UnknownSymptoms = append(r.Explain.UnknownSymptoms, s)
	}

	return r
}

// Message is the human-readable summary for a diagnosis result
func Message(illnesses []string) string {
	if len(illnesses) == 0 {
		return noMatchMessage
	}
	return "Possible illnesses: " + strings.Join(illnesses, ", ")
}
