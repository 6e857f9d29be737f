package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/rag/history"
	"parent-assistant-be/pkg/rag/ragerr"
)

// Label is the closed set of message categories.
type Label string

const (
	LabelCasual   Label = "casual"
	LabelFollowup Label = "followup"
	LabelQuestion Label = "question"
	LabelEvent    Label = "event"
	LabelPrice    Label = "price"
	LabelUnknown  Label = "unknown"
)

var Labels = []Label{LabelCasual, LabelFollowup, LabelQuestion, LabelEvent, LabelPrice, LabelUnknown}

// aliases emitted by older prompt versions
var aliases = map[string]Label{
	"greeting":  LabelCasual,
	"education": LabelQuestion,
}

// MaxHistoryWindow caps the prior turns shown to the classifier.
const MaxHistoryWindow = 3

type Classification struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Normalize maps raw into the closed label set. The second result reports
// whether raw was recognized; unrecognized values map to LabelQuestion.
func Normalize(raw string) (Label, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, l := range Labels {
		if s == string(l) {
			return l, true
		}
	}
	if l, ok := aliases[s]; ok {
		return l, true
	}
	return LabelQuestion, false
}

// Classifier labels user messages with a structured model call.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	window      int
	timeout     time.Duration
}

func NewClassifier(llmProvider llm.LLMProvider, log logger.ILogger, window int, timeout time.Duration) *Classifier {
	if window <= 0 || window > MaxHistoryWindow {
		window = MaxHistoryWindow
	}
	return &Classifier{
		llmProvider: llmProvider,
		logger:      log,
		window:      window,
		timeout:     timeout,
	}
}

var responseSchema = func() *llm.Schema {
	enum := make([]string, len(Labels))
	for i, l := range Labels {
		enum[i] = string(l)
	}
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"label":      {Type: llm.TypeString, Enum: enum, Description: "Mesajın kategorisi"},
			"confidence": {Type: llm.TypeNumber, Description: "0 ile 1 arası güven skoru"},
			"reasoning":  {Type: llm.TypeString, Description: "Kısa gerekçe"},
		},
		Required: []string{"label"},
	}
}()

type rawClassification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify never fails: any problem yields LabelQuestion with the cause in
// Reasoning.
func (c *Classifier) Classify(ctx context.Context, query string, prior []history.Turn) Classification {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: classifierPrompt},
		{Role: llm.RoleUser, Content: c.buildInput(query, prior)},
	}

	var raw rawClassification
	if err := c.llmProvider.GenerateStructured(ctx, messages, responseSchema, &raw, llm.WithTemperature(0)); err != nil {
		return c.fallback(&ragerr.ClassificationParseError{Err: err})
	}

	label, ok := Normalize(raw.Label)
	if !ok {
		return c.fallback(&ragerr.ClassificationParseError{Raw: raw.Label})
	}

	result := Classification{Label: label, Confidence: raw.Confidence, Reasoning: raw.Reasoning}
	c.logger.Info("IntentClassifier", "Message classified", map[string]interface{}{
		"label":      result.Label,
		"confidence": result.Confidence,
		"reasoning":  result.Reasoning,
	})
	return result
}

func (c *Classifier) fallback(err error) Classification {
	c.logger.Warn("IntentClassifier", "Falling back to question", map[string]interface{}{
		"error": err.Error(),
	})
	return Classification{
		Label:     LabelQuestion,
		Reasoning: "fallback: " + err.Error(),
	}
}

func (c *Classifier) buildInput(query string, prior []history.Turn) string {
	var b strings.Builder
	recent := history.Window(prior, c.window)
	if len(recent) > 0 {
		b.WriteString("ÖNCEKİ MESAJLAR:\n")
		for _, t := range recent {
			role := "Veli"
			if t.Role == llm.RoleAssistant {
				role = "Asistan"
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", role, t.Content))
		}
		b.WriteString("\n")
	}
	b.WriteString("KULLANICI SORGUSU: ")
	b.WriteString(query)
	return b.String()
}

const classifierPrompt = `Sen bir intent sınıflandırıcısısın. Velinin son mesajını analiz edip aşağıdaki kategorilerden birine ata:

1. casual - Selamlaşma, teşekkür, hoşçakal. Örnek: "Merhaba", "Teşekkürler"
2. followup - Önceki cevaba dayanan devam sorusu. Örnek: "Peki saat kaçta?", "Biraz daha açar mısınız?"
3. question - Eğitim programları, dersler, aktiviteler, okul bilgileri. Örnek: "Lise programı nedir?", "Servis var mı?"
4. event - Güncel haberler, duyurular, düzenlenen veya yapılan etkinlikler. Örnek: "Son haberler neler?", "Okulda hangi etkinlikler düzenlendi?"
5. price - Ücret, fiyat, kayıt ücreti, burs ve ödeme soruları
6. unknown - Okul dışı veya anlaşılamayan mesajlar. Örnek: "Hava nasıl?"

KURALLAR:
- Hem selamlaşma hem soru varsa soruyu seç ("Merhaba, İngilizce eğitimi nasıl?" -> question)
- "Düzenlenen/yapılan/geçmiş etkinlikler" -> event
- followup sadece önceki mesajlar varsa ve mesaj onlara atıf yapıyorsa seçilir
- Confidence: çok eminsen 0.9+, belirsizse 0.6-0.8, bilinmiyorsa 0.5 altı

Yalnızca label, confidence ve reasoning alanlarını içeren JSON döndür.`
