package levels

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/rag/level"
)

// Decision is the structured output of the mutation check.
type Decision struct {
	DetectedLevels     []string `json:"detected_levels"`
	ShouldAddToContext bool     `json:"should_add_to_context"`
}

var keywordLevels = []struct {
	stem  string
	level level.Level
}{
	{"anaokul", level.Anaokulu},
	{"anasınıf", level.Anaokulu},
	{"kreş", level.Anaokulu},
	{"ilkokul", level.Ilkokul},
	{"ortaokul", level.Ortaokul},
	{"lise", level.Lise},
}

var gradePattern = regexp.MustCompile(`(\d{1,2})\s*\.?\s*sınıf`)

// Scan finds level mentions without a model call: level names with any
// suffix ("lisede", "ortaokula") and grade numbers ("5. sınıf").
func Scan(query string) level.Set {
	q := strings.ToLower(query)
	found := level.Set{}
	for _, kw := range keywordLevels {
		if strings.Contains(q, kw.stem) {
			found, _ = found.With(kw.level)
		}
	}
	for _, m := range gradePattern.FindAllStringSubmatch(q, -1) {
		grade, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if l, ok := levelForGrade(grade); ok {
			found, _ = found.With(l)
		}
	}
	return found
}

func levelForGrade(grade int) (level.Level, bool) {
	switch {
	case grade >= 1 && grade <= 4:
		return level.Ilkokul, true
	case grade >= 5 && grade <= 8:
		return level.Ortaokul, true
	case grade >= 9 && grade <= 12:
		return level.Lise, true
	}
	return "", false
}

// Detector decides whether a message asks about levels outside the active
// filter and whether they should join it.
type Detector struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	timeout     time.Duration
}

func NewDetector(llmProvider llm.LLMProvider, log logger.ILogger, timeout time.Duration) *Detector {
	return &Detector{llmProvider: llmProvider, logger: log, timeout: timeout}
}

var decisionSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"detected_levels": {
			Type:  llm.TypeArray,
			Items: &llm.Schema{Type: llm.TypeString, Enum: []string{"anaokulu", "ilkokul", "ortaokul", "lise"}},
		},
		"should_add_to_context": {Type: llm.TypeBoolean},
	},
	Required: []string{"detected_levels", "should_add_to_context"},
}

// Detect returns an empty decision when the message names no inactive
// level. Model errors are returned; callers treat them as "no change".
func (d *Detector) Detect(ctx context.Context, query string, active level.Set) (Decision, error) {
	mentioned := Scan(query)
	if !hasInactive(mentioned, active) {
		return Decision{}, nil
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: detectorPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("AKTİF KADEMELER: %s\nVELİ MESAJI: %s",
			strings.Join(active.Strings(), ", "), query)},
	}

	var decision Decision
	if err := d.llmProvider.GenerateStructured(ctx, messages, decisionSchema, &decision, llm.WithTemperature(0)); err != nil {
		return Decision{}, fmt.Errorf("level mutation check: %w", err)
	}

	d.logger.Info("LevelDetector", "Mutation check", map[string]interface{}{
		"mentioned":  mentioned.Strings(),
		"detected":   decision.DetectedLevels,
		"should_add": decision.ShouldAddToContext,
	})
	return decision, nil
}

func hasInactive(mentioned, active level.Set) bool {
	for _, l := range mentioned.Levels() {
		if !active.Contains(l) {
			return true
		}
	}
	return false
}

// Apply adds the detected in-universe levels to active when the decision
// asks for it. Unknown tokens are dropped. Applying twice changes nothing.
func Apply(active level.Set, decision Decision) (level.Set, []level.Level) {
	if !decision.ShouldAddToContext {
		return active, nil
	}
	var detected []level.Level
	for _, raw := range decision.DetectedLevels {
		if l, err := level.Parse(raw); err == nil {
			detected = append(detected, l)
		}
	}
	return active.With(detected...)
}

const detectorPrompt = `Velinin mesajında aktif kademeler dışında bir okul kademesinden bahsedilip bahsedilmediğini belirle.

Kademeler: anaokulu, ilkokul (1-4. sınıf), ortaokul (5-8. sınıf), lise (9-12. sınıf).

- detected_levels: mesajda bilgi istenen kademeler (yalnızca yukarıdaki dört değer)
- should_add_to_context: veli bu kademe(ler) hakkında bilgi istiyorsa true; kademe sadece geçiyorsa veya olumsuz bağlamdaysa ("lise ile ilgilenmiyorum") false

Yalnızca JSON döndür.`
