package compress

import (
	"strings"
	"testing"

	"parent-assistant-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fourChunks = `**[ANAOKULU] İngilizce Eğitimi**
Anaokulumuzda İngilizce eğitimi Cambridge programı ile verilmektedir. Haftada 12 saat Main Course ve 2 saat Think&Talk dersi bulunmaktadır. Native speaker öğretmenler eşliğinde eğitim verilir. BookR dijital platform kullanılmaktadır. Dil duşu yöntemi uygulanmaktadır.

---

**[ANAOKULU] Spor Faaliyetleri**
Hareket oyunları yapılmaktadır. Haftada 3 saat beden eğitimi dersi vardır.

---

**[ANAOKULU] Sanat Atölyeleri**
Görsel sanatlar eğitimi verilir. Projeler uygulanır. Müzik atölyeleri mevcuttur. Orff çalgıları kullanılmaktadır.

---

**[ANAOKULU] EDUxLab Programı**
EDUxLab atölyeleri haftada 2 saat olarak uygulanmaktadır. STEM eğitimi verilir.`

func TestCompress_CapsChunksAndSentences(t *testing.T) {
	got, stats := Compress(fourChunks, DefaultConfig())

	chunks := strings.Split(got, search.ChunkDelimiter)
	require.Len(t, chunks, 3)
	assert.True(t, stats.Applied)
	assert.Less(t, len(got), len(fourChunks))
	assert.Greater(t, stats.Reduction(), 0.0)

	assert.Equal(t, "**[ANAOKULU] İngilizce Eğitimi**\n"+
		"Anaokulumuzda İngilizce eğitimi Cambridge programı ile verilmektedir. "+
		"BookR dijital platform kullanılmaktadır. Dil duşu yöntemi uygulanmaktadır.", chunks[0])

	// short body stays untouched
	assert.Equal(t, "**[ANAOKULU] Spor Faaliyetleri**\nHareket oyunları yapılmaktadır. Haftada 3 saat beden eğitimi dersi vardır.", chunks[1])

	assert.Equal(t, "**[ANAOKULU] Sanat Atölyeleri**\n"+
		"Görsel sanatlar eğitimi verilir. Müzik atölyeleri mevcuttur. Orff çalgıları kullanılmaktadır.", chunks[2])
	assert.NotContains(t, got, "EDUxLab")
}

func TestCompress_Identity(t *testing.T) {
	disabled := DefaultConfig()
	disabled.Enabled = false

	tests := []struct {
		name string
		text string
		cfg  Config
	}{
		{name: "disabled", text: fourChunks, cfg: disabled},
		{name: "sentinel", text: search.NoInfoText, cfg: DefaultConfig()},
		{name: "empty", text: "", cfg: DefaultConfig()},
		{name: "already small", text: "**[LİSE] Servis**\nServis vardır.", cfg: DefaultConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := Compress(tt.text, tt.cfg)
			assert.Equal(t, tt.text, got)
			assert.False(t, stats.Applied)
		})
	}
}

func TestCompress_NeverGrows(t *testing.T) {
	inputs := []string{
		fourChunks,
		"**[LİSE] A**\nBir! İki? Üç. Dört",
		"**[LİSE] A**\nBir. İki. Üç. Dört.",
		"no header line",
		"**[LİSE] A**\nx. y. z. w. v." + search.ChunkDelimiter + "**[LİSE] B**\nq",
	}
	for _, cfg := range []Config{DefaultConfig(), {Enabled: true, MaxChunks: 1, MaxSentences: 1}, {Enabled: true, MaxChunks: 5, MaxSentences: 2}} {
		for _, in := range inputs {
			got, _ := Compress(in, cfg)
			assert.LessOrEqual(t, len(got), len(in))
		}
	}
}

func TestCompress_SentenceCap(t *testing.T) {
	cfg := Config{Enabled: true, MaxChunks: 3, MaxSentences: 1}
	got, _ := Compress("**[LİSE] A**\nBir. İki. Üç. Dört.", cfg)
	assert.Equal(t, "**[LİSE] A**\nBir.", got)
}

func TestCompress_Idempotent(t *testing.T) {
	once, _ := Compress(fourChunks, DefaultConfig())
	twice, stats := Compress(once, DefaultConfig())
	assert.Equal(t, once, twice)
	assert.False(t, stats.Applied)
}

func TestStats_ReductionIsPercent(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  float64
	}{
		{"half", Stats{OriginalChars: 200, CompressedChars: 100}, 50},
		{"none", Stats{OriginalChars: 80, CompressedChars: 80}, 0},
		{"empty", Stats{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.stats.Reduction(), 1e-9)
		})
	}
}
