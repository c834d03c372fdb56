package application

// User-facing subtitle texts.
const (
	MsgTwoKeyHint     = "R ile kayıt başlat, T ile durdur."
	MsgPushToTalkHint = "Konuşmak için V'ye basılı tutun."
	MsgRecording      = "Kayıt alınıyor..."
	MsgNoMicrophone   = "Mikrofon bulunamadı. Mikrofon iznini kontrol edin."
	MsgTooShort       = "Kayıt çok kısa oldu. Biraz daha uzun konuşun."
	MsgSavedOnly      = "Kayıt tamamlandı (WAV kaydedildi)."
	MsgUploading      = "Yükleniyor..."
	MsgSendingToAI    = "AI'ya gönderiliyor..."
	MsgBusy           = "Önceki kayıt hâlâ işleniyor, lütfen bekleyin."
	TranscriptPrefix  = "Siz: "
)
