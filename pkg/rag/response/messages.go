package response

import (
	"fmt"

	"parent-assistant-be/pkg/rag/level"
)

const (
	GreetingMessage = "Merhaba! Ben Çözüm Eğitim Kurumları'nın veli asistanıyım. Size nasıl yardımcı olabilirim?"

	UnknownMessage = "Üzgünüm, sorunuzu tam olarak anlayamadım. Eğitim programları, etkinlikler veya okul hakkında başka bir şey sormak ister misiniz?"

	// FallbackMessage replaces a blank model reply.
	FallbackMessage = "Üzgünüm, bir yanıt üretemedim."

	// ApologyMessage is shown when the model call itself failed.
	ApologyMessage = "Üzgünüm, teknik bir sorun oluştu. Lütfen tekrar deneyin."

	OnboardingMessage = "👈 Lütfen önce en az bir kademe seçin."

	HistoryClearedMessage = "🗑️ Sohbet geçmişi temizlendi."
)

// Contact holds the school's contact channels for fee questions.
type Contact struct {
	Phone   string
	Email   string
	Website string
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

// PriceMessage redirects fee questions to the school's contact channels.
func PriceMessage(c Contact) string {
	return fmt.Sprintf(`Ücret bilgileri için lütfen okul iletişim kanallarımızdan bizimle irtibata geçin:

📞 **Telefon:** %s
📧 **E-posta:** %s
🌐 **Website:** %s

Kayıt ve ücret konusundaki tüm detayları size aktaracaklardır.`,
		orPlaceholder(c.Phone, "[okul telefonu]"),
		orPlaceholder(c.Email, "[okul email]"),
		orPlaceholder(c.Website, "[okul website]"),
	)
}

func WelcomeMessage(levels level.Set) string {
	return fmt.Sprintf("✨ Merhaba! %s kademesi hakkında size yardımcı olabilirim. Sorularınızı sorabilirsiniz.", levels.DisplayNames())
}

func LevelsUpdatedMessage(levels level.Set) string {
	return "✅ Kademe güncellendi: " + levels.DisplayNames()
}

// LevelsAddedNote is appended to an answer when a message widened the filter.
func LevelsAddedNote(added []level.Level) string {
	return "ℹ️ Sorunuz üzerine şu kademe de eklendi: " + level.NewSet(added...).DisplayNames()
}
